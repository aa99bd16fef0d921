// Package prediction orchestrates a forecast request: the year is validated,
// the four energy drivers are projected, emissions are predicted from them
// and, optionally, the prediction is explained. Models are loaded once at
// startup and shared read-only by every request.
package prediction
