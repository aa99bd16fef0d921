package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/kilianp07/co2cast/core/events"
	coremetrics "github.com/kilianp07/co2cast/core/metrics"
	"github.com/kilianp07/co2cast/core/model"
	"github.com/kilianp07/co2cast/infra/logger"
)

// InfluxConfig locates the InfluxDB bucket receiving forecast events.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// InfluxSink writes forecast events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// ForecastPoint builds the line protocol point for ev.
func ForecastPoint(ev events.ForecastEvent) *write.Point {
	p := write.NewPointWithMeasurement("forecast").
		AddTag("endpoint", ev.Endpoint).
		AddTag("outcome", string(ev.Outcome)).
		AddField("year", ev.Year).
		AddField("duration_ms", round3(float64(ev.Duration.Microseconds())/1000))
	if ev.Stage != "" {
		p = p.AddTag("stage", ev.Stage)
	}
	if ev.Forecast != nil {
		p = p.AddField("predicted_co2_per_capita", round3(ev.Forecast.PredictedCO2PerCapita)).
			AddField("low_confidence", ev.Forecast.LowConfidence)
	}
	if ev.Explanation != nil {
		for _, f := range model.Features {
			p = p.AddField("contribution_"+string(f), ev.Explanation.Contributions.Get(f))
		}
	}
	if ev.Error != "" {
		p = p.AddField("error", ev.Error)
	}
	return p.SetTime(ev.Time)
}

// RecordForecast writes the event as a "forecast" measurement.
func (s *InfluxSink) RecordForecast(ev events.ForecastEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, ForecastPoint(ev)); err != nil {
		return fmt.Errorf("influx write: %w", err)
	}
	return nil
}

// Close releases the client resources.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}
