package forecastlog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/internal/eventbus"
)

func TestStartRecorder(t *testing.T) {
	bus := eventbus.NewTyped[events.ForecastEvent]()
	store := NewMemoryStore()
	done := StartRecorder(context.Background(), bus, store, nil)

	bus.Publish(events.ForecastEvent{ID: "r1", Year: 2030, Outcome: events.OutcomeSuccess, Time: time.Now()})
	require.Eventually(t, func() bool {
		out, _ := store.Query(context.Background(), LogQuery{})
		return len(out) == 1 && out[0].ID == "r1"
	}, time.Second, 5*time.Millisecond)

	bus.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop after bus close")
	}
}
