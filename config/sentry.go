package config

import (
	"errors"
	"os"
)

// SentryConfig defines settings for Sentry error monitoring. Prediction
// faults are reported with endpoint and stage tags.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// SetDefaults falls back to APP_ENV for the environment name.
func (c *SentryConfig) SetDefaults() {
	if c.Environment == "" {
		c.Environment = os.Getenv("APP_ENV")
	}
	if c.Environment == "" {
		c.Environment = "production"
	}
}

// Validate checks the sample rate.
func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return errors.New("traces_sample_rate must be within [0,1]")
	}
	return nil
}

// Enabled reports whether events are sent to Sentry.
func (c SentryConfig) Enabled() bool { return c.DSN != "" }
