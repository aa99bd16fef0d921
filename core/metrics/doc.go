// Package metrics defines the sink interface used to observe forecast
// requests. Sinks like PromSink and InfluxSink record each handled request
// and can be combined with NewMultiSink. The factory helpers return a
// MultiSink automatically when multiple sinks are configured.
package metrics
