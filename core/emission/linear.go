// Package emission maps projected energy drivers to per-capita CO2 emissions.
package emission

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/co2cast/core/model"
)

// LinearModel is the offline-fitted emission regression:
//
//	co2 = Intercept + Weights . drivers
type LinearModel struct {
	Intercept float64             `json:"intercept"`
	Weights   model.FeatureValues `json:"weights"`
}

// Validate ensures every coefficient is finite.
func (m LinearModel) Validate() error {
	if math.IsNaN(m.Intercept) || math.IsInf(m.Intercept, 0) {
		return fmt.Errorf("emission intercept is not finite")
	}
	if !m.Weights.AllFinite() {
		return fmt.Errorf("emission weights are not finite")
	}
	return nil
}

// Predict returns the emission estimate for one driver vector.
func (m LinearModel) Predict(x model.FeatureValues) float64 {
	w := mat.NewVecDense(model.NumFeatures, m.Weights.Slice())
	v := mat.NewVecDense(model.NumFeatures, x.Slice())
	return m.Intercept + mat.Dot(w, v)
}

// PredictRows evaluates the model on every row of x, whose columns follow
// model.Features.
func (m LinearModel) PredictRows(x mat.Matrix) []float64 {
	r, c := x.Dims()
	if c != model.NumFeatures {
		panic(fmt.Sprintf("emission: expected %d columns, got %d", model.NumFeatures, c))
	}
	out := mat.NewVecDense(r, nil)
	out.MulVec(x, mat.NewVecDense(model.NumFeatures, m.Weights.Slice()))
	res := make([]float64, r)
	for i := range res {
		res[i] = out.AtVec(i) + m.Intercept
	}
	return res
}
