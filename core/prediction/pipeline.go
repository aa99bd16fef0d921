package prediction

import (
	"context"
	"fmt"
	"math"

	"github.com/kilianp07/co2cast/core/logger"
	"github.com/kilianp07/co2cast/core/model"
)

// Config restricts the accepted years. Zero disables a bound.
type Config struct {
	MinYear int
	MaxYear int
}

// Pipeline runs ValidateInput, ProjectDrivers, PredictEmission and
// optionally Explain. It holds no mutable state.
type Pipeline struct {
	models *Models
	cfg    Config
	log    logger.Logger
}

// NewPipeline creates a Pipeline over the loaded models.
func NewPipeline(m *Models, cfg Config, log logger.Logger) (*Pipeline, error) {
	if m == nil || m.Projector == nil || m.Explainer == nil {
		return nil, ErrModelsNotLoaded
	}
	if cfg.MinYear != 0 && cfg.MaxYear != 0 && cfg.MinYear > cfg.MaxYear {
		return nil, fmt.Errorf("min year %d after max year %d", cfg.MinYear, cfg.MaxYear)
	}
	return &Pipeline{models: m, cfg: cfg, log: log}, nil
}

// Validate checks year against the supported range.
func (p *Pipeline) Validate(year int) error {
	if (p.cfg.MinYear != 0 && year < p.cfg.MinYear) || (p.cfg.MaxYear != 0 && year > p.cfg.MaxYear) {
		return &ValidationError{
			Field:  yearField,
			Reason: fmt.Sprintf("year out of supported range [%s, %s]", bound(p.cfg.MinYear), bound(p.cfg.MaxYear)),
		}
	}
	return nil
}

// Forecast implements Engine.
func (p *Pipeline) Forecast(ctx context.Context, year int) (model.Forecast, error) {
	_ = ctx
	if err := p.Validate(year); err != nil {
		return model.Forecast{}, err
	}
	drivers, err := run(StageProject, func() (model.FeatureValues, error) {
		d := p.models.Projector.Project(year)
		if !d.AllFinite() {
			return d, fmt.Errorf("projected drivers: %w", ErrNonFinite)
		}
		return d, nil
	})
	if err != nil {
		return model.Forecast{}, err
	}
	co2, err := run(StagePredict, func() (float64, error) {
		v := p.models.Emission.Predict(drivers)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return v, fmt.Errorf("predicted emissions: %w", ErrNonFinite)
		}
		return v, nil
	})
	if err != nil {
		return model.Forecast{}, err
	}
	fc := model.Forecast{
		Year:                  year,
		PredictedCO2PerCapita: co2,
		ProjectedDrivers:      drivers,
		LowConfidence:         p.models.Projector.LowConfidence(year),
	}
	if fc.LowConfidence && p.log != nil {
		p.log.Debugw("projection outside fitted span", map[string]any{"year": year, "span": p.models.Projector.Span()})
	}
	return fc, nil
}

// Explain implements Engine. The explanation is computed on exactly the
// drivers returned by the forecast for the same year.
func (p *Pipeline) Explain(ctx context.Context, year int) (model.Forecast, model.Explanation, error) {
	fc, err := p.Forecast(ctx, year)
	if err != nil {
		return model.Forecast{}, model.Explanation{}, err
	}
	exp, err := run(StageExplain, func() (model.Explanation, error) {
		e := p.models.Explainer.Explain(fc.ProjectedDrivers)
		if !e.Contributions.AllFinite() || math.IsNaN(e.Baseline) {
			return e, fmt.Errorf("contributions: %w", ErrNonFinite)
		}
		return e, nil
	})
	if err != nil {
		return model.Forecast{}, model.Explanation{}, err
	}
	return fc, exp, nil
}

// run executes one pipeline stage, converting errors and panics into a
// PredictionFault tagged with the stage.
func run[T any](stage Stage, fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out, err = zero, &PredictionFault{Stage: stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = fn()
	if err != nil {
		var zero T
		return zero, &PredictionFault{Stage: stage, Err: err}
	}
	return out, nil
}

func bound(v int) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprint(v)
}
