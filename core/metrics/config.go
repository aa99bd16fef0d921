package metrics

import "github.com/kilianp07/co2cast/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort starts a dedicated /metrics listener when set.
	PrometheusPort string `json:"prometheus_port"`
	// EventBuffer sizes each consumer queue; zero keeps the bus default.
	EventBuffer int `json:"event_buffer"`
}
