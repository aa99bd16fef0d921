package model

import (
	"fmt"
	"math"
)

// Feature identifies one of the energy drivers used to predict emissions.
type Feature string

const (
	EnergyPerCapita       Feature = "energy_per_capita"
	FossilEnergyPerCapita Feature = "fossil_energy_per_capita"
	RenewablesShareEnergy Feature = "renewables_share_energy"
	EnergyPerGDP          Feature = "energy_per_gdp"
)

// NumFeatures is the dimension of the driver vector.
const NumFeatures = 4

// Features lists the drivers in the column order of the emission model.
var Features = [NumFeatures]Feature{
	EnergyPerCapita,
	FossilEnergyPerCapita,
	RenewablesShareEnergy,
	EnergyPerGDP,
}

// Index returns the column of the feature or -1 when unknown.
func (f Feature) Index() int {
	for i, v := range Features {
		if v == f {
			return i
		}
	}
	return -1
}

// Label returns a human readable name used in interpretations.
func (f Feature) Label() string {
	switch f {
	case EnergyPerCapita:
		return "Energy per capita"
	case FossilEnergyPerCapita:
		return "Fossil energy per capita"
	case RenewablesShareEnergy:
		return "Renewables share of energy"
	case EnergyPerGDP:
		return "Energy per GDP"
	default:
		return string(f)
	}
}

// ParseFeature validates a driver name.
func ParseFeature(s string) (Feature, error) {
	f := Feature(s)
	if f.Index() < 0 {
		return "", fmt.Errorf("unknown feature %q", s)
	}
	return f, nil
}

// FeatureValues holds exactly one value per driver. It is used for driver
// projections, model weights, contributions and percentages.
type FeatureValues struct {
	EnergyPerCapita       float64 `json:"energy_per_capita"`
	FossilEnergyPerCapita float64 `json:"fossil_energy_per_capita"`
	RenewablesShareEnergy float64 `json:"renewables_share_energy"`
	EnergyPerGDP          float64 `json:"energy_per_gdp"`
}

// Get returns the value stored for f. Unknown features yield NaN.
func (v FeatureValues) Get(f Feature) float64 {
	switch f {
	case EnergyPerCapita:
		return v.EnergyPerCapita
	case FossilEnergyPerCapita:
		return v.FossilEnergyPerCapita
	case RenewablesShareEnergy:
		return v.RenewablesShareEnergy
	case EnergyPerGDP:
		return v.EnergyPerGDP
	default:
		return math.NaN()
	}
}

// Set stores x for f.
func (v *FeatureValues) Set(f Feature, x float64) error {
	switch f {
	case EnergyPerCapita:
		v.EnergyPerCapita = x
	case FossilEnergyPerCapita:
		v.FossilEnergyPerCapita = x
	case RenewablesShareEnergy:
		v.RenewablesShareEnergy = x
	case EnergyPerGDP:
		v.EnergyPerGDP = x
	default:
		return fmt.Errorf("unknown feature %q", f)
	}
	return nil
}

// Slice returns the values in canonical feature order.
func (v FeatureValues) Slice() []float64 {
	return []float64{v.EnergyPerCapita, v.FossilEnergyPerCapita, v.RenewablesShareEnergy, v.EnergyPerGDP}
}

// FromSlice builds FeatureValues from a slice in canonical order.
func FromSlice(s []float64) (FeatureValues, error) {
	if len(s) != NumFeatures {
		return FeatureValues{}, fmt.Errorf("expected %d values, got %d", NumFeatures, len(s))
	}
	return FeatureValues{
		EnergyPerCapita:       s[0],
		FossilEnergyPerCapita: s[1],
		RenewablesShareEnergy: s[2],
		EnergyPerGDP:          s[3],
	}, nil
}

// Map applies fn to every value.
func (v FeatureValues) Map(fn func(float64) float64) FeatureValues {
	return FeatureValues{
		EnergyPerCapita:       fn(v.EnergyPerCapita),
		FossilEnergyPerCapita: fn(v.FossilEnergyPerCapita),
		RenewablesShareEnergy: fn(v.RenewablesShareEnergy),
		EnergyPerGDP:          fn(v.EnergyPerGDP),
	}
}

// Sum adds all values.
func (v FeatureValues) Sum() float64 {
	return v.EnergyPerCapita + v.FossilEnergyPerCapita + v.RenewablesShareEnergy + v.EnergyPerGDP
}

// AllFinite reports whether no value is NaN or infinite.
func (v FeatureValues) AllFinite() bool {
	for _, x := range v.Slice() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
