package prediction

import (
	"context"

	"github.com/kilianp07/co2cast/core/model"
)

// MockEngine returns deterministic forecasts and explanations.
type MockEngine struct {
	Forecasts    map[int]model.Forecast
	Explanations map[int]model.Explanation
	// Err is returned by every call when set.
	Err error
}

// Forecast returns the configured forecast for year or a zero forecast
// carrying only the year.
func (m MockEngine) Forecast(ctx context.Context, year int) (model.Forecast, error) {
	_ = ctx
	if m.Err != nil {
		return model.Forecast{}, m.Err
	}
	if fc, ok := m.Forecasts[year]; ok {
		return fc, nil
	}
	return model.Forecast{Year: year}, nil
}

// Explain returns the configured forecast and explanation for year.
func (m MockEngine) Explain(ctx context.Context, year int) (model.Forecast, model.Explanation, error) {
	fc, err := m.Forecast(ctx, year)
	if err != nil {
		return model.Forecast{}, model.Explanation{}, err
	}
	exp := m.Explanations[year]
	if exp.Ranking != nil {
		cp := make([]model.RankedFeature, len(exp.Ranking))
		copy(cp, exp.Ranking)
		exp.Ranking = cp
	}
	return fc, exp, nil
}
