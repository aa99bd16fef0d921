package metrics

import (
	"errors"
	"testing"

	"github.com/kilianp07/co2cast/core/events"
)

type recordSink struct {
	count  int
	err    error
	closed bool
}

func (r *recordSink) RecordForecast(events.ForecastEvent) error {
	r.count++
	return r.err
}

func (r *recordSink) Close() error {
	r.closed = true
	return nil
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{err: errors.New("down")}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2, NopSink{})
	if err := m.RecordForecast(events.ForecastEvent{Year: 2030}); err == nil {
		t.Fatalf("expected first sink error")
	}
	if s1.count != 1 || s2.count != 1 {
		t.Fatalf("events not forwarded")
	}
	if err := m.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !s1.closed || !s2.closed {
		t.Fatalf("sinks not closed")
	}
}
