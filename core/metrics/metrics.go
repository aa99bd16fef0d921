package metrics

import "github.com/kilianp07/co2cast/core/events"

// MetricsSink records forecast events for observability purposes.
type MetricsSink interface {
	RecordForecast(ev events.ForecastEvent) error
}

// Closer is implemented by sinks holding network resources.
type Closer interface {
	Close() error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordForecast(events.ForecastEvent) error { return nil }

// MultiSink fanouts forecast events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordForecast forwards the event to every sink. All sinks are tried and
// the first error encountered is returned.
func (m *MultiSink) RecordForecast(ev events.ForecastEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordForecast(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Close closes every sink implementing Closer.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}
