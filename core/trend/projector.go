package trend

import (
	"errors"
	"fmt"

	"github.com/kilianp07/co2cast/core/model"
)

// ErrBreakWindow is returned when the renewables model was fitted on years
// before the configured structural break.
var ErrBreakWindow = errors.New("renewables model window starts before break year")

// DefaultHorizon is the number of years past the fitted span that are still
// considered reliable.
const DefaultHorizon = 10

// Options configures a Projector.
type Options struct {
	// BreakYear is the first year of the restricted window used by the
	// renewables-share model. Zero disables the check.
	BreakYear int
	// Horizon is the number of years after the fitted span before a
	// projection is flagged low confidence. Negative disables flagging.
	Horizon int
}

// Projector evaluates the four driver trend models for a year. It is
// immutable after construction and safe for concurrent use.
type Projector struct {
	models  [model.NumFeatures]TrendModel
	span    Window
	horizon int
}

// NewProjector validates the driver models and returns a Projector.
func NewProjector(models map[model.Feature]TrendModel, opts Options) (*Projector, error) {
	p := &Projector{horizon: opts.Horizon}
	for i, f := range model.Features {
		m, ok := models[f]
		if !ok {
			return nil, fmt.Errorf("missing driver model %s", f)
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("driver model %s: %w", f, err)
		}
		coef := make([]float64, len(m.Coef))
		copy(coef, m.Coef)
		m.Coef = coef
		p.models[i] = m
		p.span = union(p.span, m.Window)
	}
	if opts.BreakYear != 0 {
		w := p.models[model.RenewablesShareEnergy.Index()].Window
		if w.IsZero() {
			return nil, fmt.Errorf("%w: renewables model has no window", ErrBreakWindow)
		}
		if w.From < opts.BreakYear {
			return nil, fmt.Errorf("%w: window starts %d, break year %d", ErrBreakWindow, w.From, opts.BreakYear)
		}
	}
	return p, nil
}

// Project evaluates every driver model independently at year.
func (p *Projector) Project(year int) model.FeatureValues {
	var out model.FeatureValues
	for i, f := range model.Features {
		_ = out.Set(f, p.models[i].Evaluate(year))
	}
	return out
}

// Model returns the trend model used for f.
func (p *Projector) Model(f model.Feature) (TrendModel, bool) {
	i := f.Index()
	if i < 0 {
		return TrendModel{}, false
	}
	return p.models[i], true
}

// Span returns the union of the driver training windows.
func (p *Projector) Span() Window { return p.span }

// LowConfidence reports whether year is before the fitted span or more than
// the horizon after it. Models without windows never flag.
func (p *Projector) LowConfidence(year int) bool {
	if p.span.IsZero() || p.horizon < 0 {
		return false
	}
	return year < p.span.From || year > p.span.To+p.horizon
}

func union(a, b Window) Window {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	if b.From < a.From {
		a.From = b.From
	}
	if b.To > a.To {
		a.To = b.To
	}
	return a
}
