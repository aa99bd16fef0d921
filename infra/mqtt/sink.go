package mqtt

import (
	"encoding/json"
	"time"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/model"
	coremqtt "github.com/kilianp07/co2cast/core/mqtt"
)

// ForecastMessage is the JSON payload published for each forecast event.
type ForecastMessage struct {
	ID                    string               `json:"id"`
	Endpoint              string               `json:"endpoint"`
	Year                  int                  `json:"year"`
	Outcome               string               `json:"outcome"`
	Stage                 string               `json:"stage,omitempty"`
	Error                 string               `json:"error,omitempty"`
	PredictedCO2PerCapita *float64             `json:"predicted_co2_per_capita,omitempty"`
	LowConfidence         bool                 `json:"low_confidence"`
	Contributions         *model.FeatureValues `json:"contributions,omitempty"`
	DurationMS            float64              `json:"duration_ms"`
	Timestamp             time.Time            `json:"timestamp"`
}

// NewForecastMessage flattens ev into its wire form.
func NewForecastMessage(ev events.ForecastEvent) ForecastMessage {
	msg := ForecastMessage{
		ID:            ev.ID,
		Endpoint:      ev.Endpoint,
		Year:          ev.Year,
		Outcome:       string(ev.Outcome),
		Stage:         ev.Stage,
		Error:         ev.Error,
		LowConfidence: ev.LowConfidence(),
		DurationMS:    float64(ev.Duration.Microseconds()) / 1000,
		Timestamp:     ev.Time.UTC(),
	}
	if ev.Forecast != nil {
		v := ev.Forecast.PredictedCO2PerCapita
		msg.PredictedCO2PerCapita = &v
	}
	if ev.Explanation != nil {
		c := ev.Explanation.Contributions
		msg.Contributions = &c
	}
	return msg
}

// ForecastSink publishes forecast events as JSON to <prefix>/<outcome>.
type ForecastSink struct {
	pub    coremqtt.Publisher
	prefix string
}

// NewForecastSink wraps a publisher.
func NewForecastSink(pub coremqtt.Publisher, prefix string) *ForecastSink {
	if prefix == "" {
		prefix = "co2cast/forecasts"
	}
	return &ForecastSink{pub: pub, prefix: prefix}
}

// RecordForecast implements metrics.MetricsSink.
func (s *ForecastSink) RecordForecast(ev events.ForecastEvent) error {
	payload, err := json.Marshal(NewForecastMessage(ev))
	if err != nil {
		return err
	}
	return s.pub.Publish(s.prefix+"/"+string(ev.Outcome), payload)
}

// Close disconnects the underlying publisher.
func (s *ForecastSink) Close() error {
	s.pub.Disconnect()
	return nil
}
