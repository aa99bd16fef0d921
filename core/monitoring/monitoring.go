// Package monitoring reports unexpected failures to an error tracker. The
// process-wide monitor is set once at startup with Init.
package monitoring

import "time"

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the global monitor.
func Current() Monitor { return current }

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// Tag keys attached to prediction faults.
const (
	TagEndpoint = "endpoint"
	TagStage    = "stage"
)

// CaptureFault reports a failed forecast tagged with the endpoint that served
// it and the pipeline stage that failed. An empty stage is omitted.
func CaptureFault(err error, endpoint, stage string) {
	tags := map[string]string{TagEndpoint: endpoint}
	if stage != "" {
		tags[TagStage] = stage
	}
	CaptureException(err, tags)
}

// Recover captures panics in goroutines.
func Recover() {
	if current != nil {
		current.Recover()
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
