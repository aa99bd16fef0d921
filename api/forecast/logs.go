package forecast

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/forecastlog"
)

const (
	LogsPath        = "/api/forecasts/logs"
	defaultLogLimit = 100
)

// NewLogHandler returns an HTTP handler exposing forecast logs via GET /api/forecasts/logs.
// Supported query parameters: start, end (RFC3339), year, outcome and limit.
func NewLogHandler(store forecastlog.LogStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}
		if store == nil {
			writeJSON(w, http.StatusOK, []forecastlog.LogRecord{})
			return
		}
		params := r.URL.Query()
		q := forecastlog.LogQuery{Limit: defaultLogLimit}
		for _, p := range []struct {
			name string
			dst  *time.Time
		}{{"start", &q.Start}, {"end", &q.End}} {
			if s := params.Get(p.name); s != "" {
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid timestamp", Field: p.name})
					return
				}
				*p.dst = t
			}
		}
		if s := params.Get("year"); s != "" {
			y, err := strconv.Atoi(s)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "'year' must be an integer", Field: "year"})
				return
			}
			q.Year = y
		}
		if s := params.Get("outcome"); s != "" {
			switch o := events.Outcome(s); o {
			case events.OutcomeSuccess, events.OutcomeInvalid, events.OutcomeFault:
				q.Outcome = o
			default:
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "unknown outcome", Field: "outcome"})
				return
			}
		}
		if s := params.Get("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "'limit' must be a non-negative integer", Field: "limit"})
				return
			}
			q.Limit = n
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		if records == nil {
			records = []forecastlog.LogRecord{}
		}
		writeJSON(w, http.StatusOK, records)
	})
}
