package events

import (
	"time"

	"github.com/kilianp07/co2cast/core/model"
)

// Outcome classifies how a forecast request ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	// OutcomeInvalid is a rejected request (bad body or year).
	OutcomeInvalid Outcome = "invalid"
	// OutcomeFault is an internal pipeline failure.
	OutcomeFault Outcome = "fault"
)

// ForecastEvent is published once per handled request.
type ForecastEvent struct {
	ID       string
	Endpoint string
	Year     int
	Outcome  Outcome
	// Stage is set for faults.
	Stage       string
	Error       string
	Forecast    *model.Forecast
	Explanation *model.Explanation
	Duration    time.Duration
	Time        time.Time
}

// Explained reports whether the event carries an explanation.
func (e ForecastEvent) Explained() bool { return e.Explanation != nil }

// LowConfidence reports the forecast flag, false when no forecast exists.
func (e ForecastEvent) LowConfidence() bool {
	return e.Forecast != nil && e.Forecast.LowConfidence
}
