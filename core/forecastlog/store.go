// Package forecastlog persists an audit trail of handled forecast requests
// and serves it back for the logs endpoint.
package forecastlog

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/model"
)

// LogRecord captures one handled forecast request.
type LogRecord struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Endpoint      string             `json:"endpoint"`
	Year          int                `json:"year"`
	Outcome       events.Outcome     `json:"outcome"`
	Stage         string             `json:"stage,omitempty"`
	Error         string             `json:"error,omitempty"`
	LowConfidence bool               `json:"low_confidence"`
	Forecast      *model.Forecast    `json:"forecast,omitempty"`
	Explanation   *model.Explanation `json:"explanation,omitempty"`
	DurationMS    float64            `json:"duration_ms"`
}

// FromEvent converts a bus event into a log record.
func FromEvent(ev events.ForecastEvent) LogRecord {
	return LogRecord{
		ID:            ev.ID,
		Timestamp:     ev.Time.UTC(),
		Endpoint:      ev.Endpoint,
		Year:          ev.Year,
		Outcome:       ev.Outcome,
		Stage:         ev.Stage,
		Error:         ev.Error,
		LowConfidence: ev.LowConfidence(),
		Forecast:      ev.Forecast,
		Explanation:   ev.Explanation,
		DurationMS:    float64(ev.Duration.Microseconds()) / 1000,
	}
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	Year    int
	Outcome events.Outcome
	// Limit keeps the most recent records; zero returns everything.
	Limit int
}

// Match reports whether r satisfies every filter except Limit.
func (q LogQuery) Match(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Year != 0 && r.Year != q.Year {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}

func (q LogQuery) limit(res []LogRecord) []LogRecord {
	if q.Limit > 0 && len(res) > q.Limit {
		return res[len(res)-q.Limit:]
	}
	return res
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// Options selects and configures a store backend.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open returns the store for opts.Backend. The "none" backend yields nil.
func Open(opts Options) (LogStore, error) {
	switch opts.Backend {
	case "", "jsonl":
		if opts.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
		}
		return NewJSONLStore(opts.Path)
	case "sqlite":
		return NewSQLiteStore(opts.Path)
	case "memory":
		return NewMemoryStore(), nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown log backend %s", opts.Backend)
	}
}
