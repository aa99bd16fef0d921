package config

import "fmt"

// ModelsConfig locates the fitted model bundle.
type ModelsConfig struct {
	Path string `json:"path"`
}

func (c *ModelsConfig) SetDefaults() {
	if c.Path == "" {
		c.Path = "models/bundle.yaml"
	}
}

func (c ModelsConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// ForecastConfig tunes request validation and response formatting.
type ForecastConfig struct {
	// MinYear and MaxYear bound accepted years; zero disables a bound.
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
	// RenewablesBreakYear is the structural break the renewables-share
	// model window must start at or after. Zero disables the check.
	RenewablesBreakYear int `json:"renewables_break_year"`
	// ExtrapolationHorizon is the number of years after the fitted span
	// before a forecast is flagged low confidence. Negative disables it.
	ExtrapolationHorizon int `json:"extrapolation_horizon"`
	// TopFeatures is the number of drivers named in interpretations.
	TopFeatures int `json:"top_features"`
	// RoundDigits rounds response values; negative disables rounding.
	RoundDigits int `json:"round_digits"`
}

func (c *ForecastConfig) SetDefaults() {
	if c.ExtrapolationHorizon == 0 {
		c.ExtrapolationHorizon = 10
	}
	if c.TopFeatures == 0 {
		c.TopFeatures = 3
	}
	if c.RoundDigits == 0 {
		c.RoundDigits = 3
	}
}

func (c ForecastConfig) Validate() error {
	if c.MinYear != 0 && c.MaxYear != 0 && c.MinYear > c.MaxYear {
		return fmt.Errorf("min_year %d after max_year %d", c.MinYear, c.MaxYear)
	}
	if c.TopFeatures < 1 || c.TopFeatures > 4 {
		return fmt.Errorf("top_features must be between 1 and 4")
	}
	if c.RoundDigits > 10 {
		return fmt.Errorf("round_digits must be at most 10")
	}
	return nil
}
