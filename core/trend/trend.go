// Package trend evaluates the per-driver year trend models fitted offline.
package trend

import (
	"errors"
	"fmt"
	"math"
)

// Window is an inclusive range of years a model was fitted on.
type Window struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Contains reports whether year lies inside the window.
func (w Window) Contains(year int) bool { return year >= w.From && year <= w.To }

// IsZero reports whether the window is unset.
func (w Window) IsZero() bool { return w.From == 0 && w.To == 0 }

// TrendModel maps a year to a driver value:
//
//	value(year) = Intercept + Coef[0]*year + Coef[1]*year^2 + ...
//
// A single coefficient is a plain linear trend.
type TrendModel struct {
	Intercept float64   `json:"intercept"`
	Coef      []float64 `json:"coef"`
	Window    Window    `json:"window"`
}

var errNoCoef = errors.New("trend model has no coefficients")

// Validate checks the coefficients and window are usable.
func (m TrendModel) Validate() error {
	if len(m.Coef) == 0 {
		return errNoCoef
	}
	if !finite(m.Intercept) {
		return fmt.Errorf("intercept is not finite")
	}
	for i, c := range m.Coef {
		if !finite(c) {
			return fmt.Errorf("coefficient %d is not finite", i)
		}
	}
	if !m.Window.IsZero() && m.Window.From > m.Window.To {
		return fmt.Errorf("window from %d after to %d", m.Window.From, m.Window.To)
	}
	return nil
}

// Evaluate returns the model value at year using Horner's scheme.
func (m TrendModel) Evaluate(year int) float64 {
	y := float64(year)
	v := 0.0
	for k := len(m.Coef) - 1; k >= 0; k-- {
		v = (v + m.Coef[k]) * y
	}
	return m.Intercept + v
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
