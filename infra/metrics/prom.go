package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/co2cast/core/events"
	coremetrics "github.com/kilianp07/co2cast/core/metrics"
	"github.com/kilianp07/co2cast/core/model"
)

// PromSink records forecast requests in Prometheus metrics.
type PromSink struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	lowConfidence prometheus.Counter
	predicted     prometheus.Gauge
	contribution  *prometheus.GaugeVec
}

// NewPromSink registers forecast metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_requests_total",
		Help: "Total number of forecast requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "forecast_duration_seconds",
		Help:    "Time spent handling forecast requests",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"endpoint"})
	low := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forecast_low_confidence_total",
		Help: "Number of forecasts extrapolated beyond the fitted data span",
	})
	predicted := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "forecast_last_predicted_co2_per_capita",
		Help: "Most recent predicted CO2 per capita",
	})
	contribution := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forecast_feature_contribution",
		Help: "Feature contribution of the most recent explanation",
	}, []string{"feature"})

	var err error
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if low, err = register(reg, low); err != nil {
		return nil, err
	}
	if predicted, err = register(reg, predicted); err != nil {
		return nil, err
	}
	if contribution, err = register(reg, contribution); err != nil {
		return nil, err
	}
	return &PromSink{requests: requests, duration: duration, lowConfidence: low, predicted: predicted, contribution: contribution}, nil
}

// register returns the already registered collector when one exists.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordForecast updates counters and gauges for the event.
func (s *PromSink) RecordForecast(ev events.ForecastEvent) error {
	s.requests.WithLabelValues(ev.Endpoint, string(ev.Outcome)).Inc()
	s.duration.WithLabelValues(ev.Endpoint).Observe(ev.Duration.Seconds())
	if ev.Forecast != nil {
		s.predicted.Set(ev.Forecast.PredictedCO2PerCapita)
		if ev.Forecast.LowConfidence {
			s.lowConfidence.Inc()
		}
	}
	if ev.Explanation != nil {
		for _, f := range model.Features {
			s.contribution.WithLabelValues(string(f)).Set(ev.Explanation.Contributions.Get(f))
		}
	}
	return nil
}

var _ coremetrics.MetricsSink = (*PromSink)(nil)
