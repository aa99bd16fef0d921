// Package explain decomposes emission predictions into additive per-driver
// contributions relative to a fixed baseline.
//
// Two attribution methods are supported:
//   - linear: contribution_i = w_i * (x_i - E[x_i]), exact for the linear
//     emission model and cheap.
//   - exact: interventional Shapley values over all 2^4 feature coalitions
//     against a background sample of the training population.
//
// Both satisfy baseline + sum(contributions) == prediction up to rounding.
package explain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/co2cast/core/emission"
	"github.com/kilianp07/co2cast/core/model"
)

// Method selects the attribution algorithm.
type Method string

const (
	MethodLinear Method = "linear"
	MethodExact  Method = "exact"
)

// DefaultTopFeatures is the number of features named in interpretations.
const DefaultTopFeatures = 3

// State is the precomputed explainer state loaded at startup.
type State struct {
	Method Method `json:"method"`
	// Baseline is the expected model output over the training population.
	Baseline float64 `json:"baseline"`
	// Expected holds the background mean of every driver (linear method).
	Expected model.FeatureValues `json:"expected"`
	// Background rows in model.Features column order (exact method).
	Background [][]float64 `json:"background"`
}

// Options tunes explanation output.
type Options struct {
	TopFeatures int
}

// Explainer computes explanations. It is immutable after New.
type Explainer struct {
	method     Method
	baseline   float64
	model      emission.LinearModel
	expected   model.FeatureValues
	background *mat.Dense
	top        int
}

// New validates st against the emission model and returns an Explainer.
func New(st State, m emission.LinearModel, opts Options) (*Explainer, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !finite(st.Baseline) {
		return nil, fmt.Errorf("baseline is not finite")
	}
	e := &Explainer{
		method:   st.Method,
		baseline: st.Baseline,
		model:    m,
		expected: st.Expected,
		top:      clampTop(opts.TopFeatures),
	}
	if e.method == "" {
		e.method = MethodLinear
	}

	var computed float64
	switch e.method {
	case MethodLinear:
		if !st.Expected.AllFinite() {
			return nil, fmt.Errorf("expected driver values are not finite")
		}
		computed = m.Predict(st.Expected)
	case MethodExact:
		bg, err := backgroundMatrix(st.Background)
		if err != nil {
			return nil, err
		}
		e.background = bg
		computed = stat.Mean(m.PredictRows(bg), nil)
	default:
		return nil, fmt.Errorf("unknown explainer method %q", st.Method)
	}
	if math.Abs(computed-st.Baseline) > 1e-6*math.Max(1, math.Abs(st.Baseline)) {
		return nil, fmt.Errorf("baseline %g inconsistent with model expectation %g", st.Baseline, computed)
	}
	return e, nil
}

// Baseline returns the reference value contributions are relative to.
func (e *Explainer) Baseline() float64 { return e.baseline }

// Method returns the attribution method in use.
func (e *Explainer) Method() Method { return e.method }

// Contributions returns the signed contribution of every driver for x.
func (e *Explainer) Contributions(x model.FeatureValues) model.FeatureValues {
	if e.method == MethodExact {
		return e.shapley(x)
	}
	w := e.model.Weights
	return model.FeatureValues{
		EnergyPerCapita:       w.EnergyPerCapita * (x.EnergyPerCapita - e.expected.EnergyPerCapita),
		FossilEnergyPerCapita: w.FossilEnergyPerCapita * (x.FossilEnergyPerCapita - e.expected.FossilEnergyPerCapita),
		RenewablesShareEnergy: w.RenewablesShareEnergy * (x.RenewablesShareEnergy - e.expected.RenewablesShareEnergy),
		EnergyPerGDP:          w.EnergyPerGDP * (x.EnergyPerGDP - e.expected.EnergyPerGDP),
	}
}

// Explain builds the full explanation for driver vector x.
func (e *Explainer) Explain(x model.FeatureValues) model.Explanation {
	c := e.Contributions(x)
	pct := Percentages(c)
	ranking := Rank(c, pct)
	return model.Explanation{
		Baseline:       e.baseline,
		Contributions:  c,
		Percentages:    pct,
		Ranking:        ranking,
		Interpretation: Interpret(ranking, e.top),
	}
}

// shapley computes interventional Shapley values. v(S) is the mean model
// output over the background with the columns in S fixed to x.
func (e *Explainer) shapley(x model.FeatureValues) model.FeatureValues {
	const n = model.NumFeatures
	xs := x.Slice()
	rows, _ := e.background.Dims()
	values := make([]float64, 1<<n)
	buf := mat.NewDense(rows, n, nil)
	for mask := 0; mask < 1<<n; mask++ {
		buf.Copy(e.background)
		for j := 0; j < n; j++ {
			if mask&(1<<j) == 0 {
				continue
			}
			for r := 0; r < rows; r++ {
				buf.Set(r, j, xs[j])
			}
		}
		values[mask] = stat.Mean(e.model.PredictRows(buf), nil)
	}

	phi := make([]float64, n)
	for i := 0; i < n; i++ {
		for mask := 0; mask < 1<<n; mask++ {
			if mask&(1<<i) != 0 {
				continue
			}
			phi[i] += coalitionWeight(popcount(mask), n) * (values[mask|1<<i] - values[mask])
		}
	}
	out, _ := model.FromSlice(phi)
	return out
}

// coalitionWeight is |S|!(n-|S|-1)!/n!.
func coalitionWeight(s, n int) float64 {
	return float64(factorial(s)*factorial(n-s-1)) / float64(factorial(n))
}

func factorial(k int) int {
	r := 1
	for i := 2; i <= k; i++ {
		r *= i
	}
	return r
}

func popcount(v int) int {
	c := 0
	for ; v != 0; v &= v - 1 {
		c++
	}
	return c
}

func backgroundMatrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("exact method requires a background sample")
	}
	data := make([]float64, 0, len(rows)*model.NumFeatures)
	for i, r := range rows {
		if len(r) != model.NumFeatures {
			return nil, fmt.Errorf("background row %d has %d values, want %d", i, len(r), model.NumFeatures)
		}
		for _, v := range r {
			if !finite(v) {
				return nil, fmt.Errorf("background row %d is not finite", i)
			}
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), model.NumFeatures, data), nil
}

func clampTop(n int) int {
	if n <= 0 {
		return DefaultTopFeatures
	}
	if n > model.NumFeatures {
		return model.NumFeatures
	}
	return n
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
