// Package modelstore loads the offline-fitted model bundle and builds the
// immutable models used by the prediction pipeline.
//
// A bundle is a YAML or JSON document:
//
//	drivers:
//	  energy_per_capita: {intercept: -282500, coef: [150], window: {from: 1965, to: 2022}}
//	  ...
//	emission:
//	  intercept: 0.5
//	  weights: {energy_per_capita: 0.0001, ...}
//	explainer:
//	  method: linear
//	  baseline: 6.18
//	  expected: {energy_per_capita: 19000, ...}
package modelstore

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/co2cast/core/emission"
	"github.com/kilianp07/co2cast/core/explain"
	"github.com/kilianp07/co2cast/core/model"
	"github.com/kilianp07/co2cast/core/prediction"
	"github.com/kilianp07/co2cast/core/trend"
)

// Bundle is the serialized form of every fitted model.
type Bundle struct {
	Drivers   map[string]trend.TrendModel `json:"drivers"`
	Emission  emission.LinearModel        `json:"emission"`
	Explainer explain.State               `json:"explainer"`
}

// Options carries serving configuration applied while building models.
type Options struct {
	BreakYear   int
	Horizon     int
	TopFeatures int
}

// LoadFile reads a bundle from a .yaml, .yml or .json file.
func LoadFile(path string) (*Bundle, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported model bundle format: %s", filepath.Ext(path))
	}
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("read model bundle: %w", err)
	}
	var b Bundle
	if err := k.UnmarshalWithConf("", &b, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("decode model bundle: %w", err)
	}
	return &b, nil
}

// Build validates the bundle and returns the immutable models.
func Build(b *Bundle, opts Options) (*prediction.Models, error) {
	if b == nil {
		return nil, prediction.ErrModelsNotLoaded
	}
	drivers := make(map[model.Feature]trend.TrendModel, len(b.Drivers))
	for name, m := range b.Drivers {
		f, err := model.ParseFeature(name)
		if err != nil {
			return nil, fmt.Errorf("drivers: %w", err)
		}
		drivers[f] = m
	}
	proj, err := trend.NewProjector(drivers, trend.Options{BreakYear: opts.BreakYear, Horizon: opts.Horizon})
	if err != nil {
		return nil, fmt.Errorf("drivers: %w", err)
	}
	if err := b.Emission.Validate(); err != nil {
		return nil, fmt.Errorf("emission: %w", err)
	}
	ex, err := explain.New(b.Explainer, b.Emission, explain.Options{TopFeatures: opts.TopFeatures})
	if err != nil {
		return nil, fmt.Errorf("explainer: %w", err)
	}
	return &prediction.Models{Projector: proj, Emission: b.Emission, Explainer: ex}, nil
}

// Load reads and builds the bundle at path.
func Load(path string, opts Options) (*prediction.Models, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(b, opts)
}
