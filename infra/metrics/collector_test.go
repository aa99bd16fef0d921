package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/internal/eventbus"
)

type captureSink struct {
	mu  sync.Mutex
	evs []events.ForecastEvent
}

func (c *captureSink) RecordForecast(ev events.ForecastEvent) error {
	c.mu.Lock()
	c.evs = append(c.evs, ev)
	c.mu.Unlock()
	return nil
}

func (c *captureSink) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.evs)
}

func TestStartEventCollector(t *testing.T) {
	bus := eventbus.NewTyped[events.ForecastEvent]()
	sink := &captureSink{}
	ctx, cancel := context.WithCancel(context.Background())
	done := StartEventCollector(ctx, bus, sink, nil)

	bus.Publish(events.ForecastEvent{ID: "a", Outcome: events.OutcomeSuccess})
	bus.Publish(events.ForecastEvent{ID: "b", Outcome: events.OutcomeInvalid})
	deadline := time.Now().Add(time.Second)
	for sink.len() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if sink.len() != 2 {
		t.Fatalf("expected 2 events, got %d", sink.len())
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestStartEventCollector_NilBus(t *testing.T) {
	done := StartEventCollector(context.Background(), nil, &captureSink{}, nil)
	select {
	case <-done:
	default:
		t.Fatal("expected closed channel")
	}
}
