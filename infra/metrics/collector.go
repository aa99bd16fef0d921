package metrics

import (
	"context"

	"github.com/kilianp07/co2cast/core/events"
	coremetrics "github.com/kilianp07/co2cast/core/metrics"
	"github.com/kilianp07/co2cast/infra/logger"
	"github.com/kilianp07/co2cast/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed. The returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.ForecastEvent], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordForecast(ev); err != nil {
					log.Errorw("record forecast metrics", map[string]any{"id": ev.ID, "error": err.Error()})
				}
			}
		}
	}()
	return done
}
