//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/model"
)

func TestForecastSinkWithMosquitto(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:1.6",
		ExposedPorts: []string{"1883/tcp"},
		WaitingFor:   wait.ForListeningPort("1883/tcp"),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("container start: %v", err)
	}
	defer func() { _ = cont.Terminate(ctx) }()
	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := cont.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	received := make(chan ForecastMessage, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("sub"))
	if token := sub.Connect(); token.Wait() && token.Error() != nil {
		t.Skipf("broker not ready: %v", token.Error())
	}
	defer sub.Disconnect(100)
	if token := sub.Subscribe("co2cast/forecasts/#", 1, func(_ paho.Client, m paho.Message) {
		var msg ForecastMessage
		if json.Unmarshal(m.Payload(), &msg) == nil {
			received <- msg
		}
	}); token.Wait() && token.Error() != nil {
		t.Fatalf("subscribe: %v", token.Error())
	}

	cli, err := NewPahoClient(Config{Broker: broker, QoS: 1})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	sink := NewForecastSink(cli, "")
	defer func() { _ = sink.Close() }()

	fc := model.Forecast{Year: 2030, PredictedCO2PerCapita: 6.16}
	if err := sink.RecordForecast(events.ForecastEvent{ID: "it", Year: 2030, Outcome: events.OutcomeSuccess, Forecast: &fc, Time: time.Now()}); err != nil {
		t.Fatalf("record: %v", err)
	}
	select {
	case msg := <-received:
		if msg.ID != "it" || msg.Year != 2030 {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("message not received")
	}
}
