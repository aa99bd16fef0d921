package forecastlog

import (
	"context"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/logger"
	"github.com/kilianp07/co2cast/internal/eventbus"
)

// StartRecorder appends every event published on bus to store until ctx
// is canceled or the bus is closed. The returned channel is closed once the
// recorder has exited.
func StartRecorder(ctx context.Context, bus *eventbus.TypedBus[events.ForecastEvent], store LogStore, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || store == nil {
		close(done)
		return done
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
				if err := store.Append(context.Background(), FromEvent(ev)); err != nil && log != nil {
					log.Errorw("append forecast log", map[string]any{"id": ev.ID, "error": err.Error()})
				}
			}
		}
	}()
	return done
}
