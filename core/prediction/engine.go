package prediction

import (
	"context"

	"github.com/kilianp07/co2cast/core/emission"
	"github.com/kilianp07/co2cast/core/explain"
	"github.com/kilianp07/co2cast/core/model"
	"github.com/kilianp07/co2cast/core/trend"
)

// Engine produces forecasts and explanations for a year.
type Engine interface {
	// Forecast projects the drivers for year and predicts emissions.
	Forecast(ctx context.Context, year int) (model.Forecast, error)

	// Explain forecasts year and decomposes the prediction into per-driver
	// contributions.
	Explain(ctx context.Context, year int) (model.Forecast, model.Explanation, error)
}

// Models groups the fitted models consumed by the pipeline. Values are
// immutable once built.
type Models struct {
	Projector *trend.Projector
	Emission  emission.LinearModel
	Explainer *explain.Explainer
}
