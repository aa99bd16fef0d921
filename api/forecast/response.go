package forecast

import (
	"math"

	"github.com/kilianp07/co2cast/core/model"
)

// PredictResponse is the body returned by POST /predict.
type PredictResponse struct {
	Year                  int                 `json:"year"`
	PredictedCO2PerCapita float64             `json:"predicted_co2_per_capita"`
	ProjectedDrivers      model.FeatureValues `json:"projected_drivers"`
	LowConfidence         bool                `json:"low_confidence"`
}

// ExplanationBody is the "explanation" object of an explain response.
type ExplanationBody struct {
	Contributions  model.FeatureValues   `json:"contributions"`
	Percentages    model.FeatureValues   `json:"percentages"`
	Interpretation string                `json:"interpretation"`
	Ranking        []model.RankedFeature `json:"ranking"`
}

// ExplainResponse is the body returned by POST /predict/explain.
type ExplainResponse struct {
	PredictResponse
	Baseline    float64         `json:"baseline"`
	Explanation ExplanationBody `json:"explanation"`
}

// ErrorResponse is returned for 4xx and 5xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewPredictResponse rounds fc to digits decimals. Negative digits keep
// full precision.
func NewPredictResponse(fc model.Forecast, digits int) PredictResponse {
	r := rounder(digits)
	return PredictResponse{
		Year:                  fc.Year,
		PredictedCO2PerCapita: r(fc.PredictedCO2PerCapita),
		ProjectedDrivers:      fc.ProjectedDrivers.Map(r),
		LowConfidence:         fc.LowConfidence,
	}
}

// NewExplainResponse rounds fc and exp to digits decimals. The
// interpretation text is produced from unrounded values.
func NewExplainResponse(fc model.Forecast, exp model.Explanation, digits int) ExplainResponse {
	r := rounder(digits)
	ranking := make([]model.RankedFeature, len(exp.Ranking))
	for i, rf := range exp.Ranking {
		ranking[i] = model.RankedFeature{Feature: rf.Feature, Contribution: r(rf.Contribution), Percentage: r(rf.Percentage)}
	}
	return ExplainResponse{
		PredictResponse: NewPredictResponse(fc, digits),
		Baseline:        r(exp.Baseline),
		Explanation: ExplanationBody{
			Contributions:  exp.Contributions.Map(r),
			Percentages:    exp.Percentages.Map(r),
			Interpretation: exp.Interpretation,
			Ranking:        ranking,
		},
	}
}

func rounder(digits int) func(float64) float64 {
	if digits < 0 {
		return func(v float64) float64 { return v }
	}
	scale := math.Pow10(digits)
	return func(v float64) float64 {
		out := math.Round(v*scale) / scale
		if out == 0 {
			// avoid "-0" in responses
			return 0
		}
		return out
	}
}
