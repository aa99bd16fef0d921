// Package events defines the forecast events emitted on the event bus.
//
// Available event types:
//   - ForecastEvent: one handled /predict or /predict/explain request
package events
