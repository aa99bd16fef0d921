// Package forecast exposes the forecasting pipeline over HTTP.
package forecast

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/logger"
	"github.com/kilianp07/co2cast/core/model"
	coremon "github.com/kilianp07/co2cast/core/monitoring"
	"github.com/kilianp07/co2cast/core/prediction"
	"github.com/kilianp07/co2cast/internal/eventbus"
)

const (
	PredictPath = "/predict"
	ExplainPath = "/predict/explain"

	maxBodyBytes = 1 << 16
	faultMessage = "prediction failed"
)

// Options configures the forecast handlers. Zero values are usable.
type Options struct {
	// RoundDigits rounds numeric response values; negative disables it.
	RoundDigits int
	// Bus receives one ForecastEvent per request when set.
	Bus *eventbus.TypedBus[events.ForecastEvent]
	Log logger.Logger
}

type predictRequest struct {
	Year json.RawMessage `json:"year"`
}

// result is what a handler stage hands back for the response and event.
type result struct {
	body        any
	forecast    *model.Forecast
	explanation *model.Explanation
}

// NewPredictHandler returns the POST /predict handler.
func NewPredictHandler(eng prediction.Engine, opts Options) http.Handler {
	return newHandler(PredictPath, opts, func(ctx context.Context, year int) (result, error) {
		fc, err := eng.Forecast(ctx, year)
		if err != nil {
			return result{}, err
		}
		return result{body: NewPredictResponse(fc, opts.RoundDigits), forecast: &fc}, nil
	})
}

// NewExplainHandler returns the POST /predict/explain handler.
func NewExplainHandler(eng prediction.Engine, opts Options) http.Handler {
	return newHandler(ExplainPath, opts, func(ctx context.Context, year int) (result, error) {
		fc, exp, err := eng.Explain(ctx, year)
		if err != nil {
			return result{}, err
		}
		return result{body: NewExplainResponse(fc, exp, opts.RoundDigits), forecast: &fc, explanation: &exp}, nil
	})
}

func newHandler(endpoint string, opts Options, fn func(context.Context, int) (result, error)) http.Handler {
	log := opts.Log
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
			return
		}
		start := time.Now()
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ev := events.ForecastEvent{ID: id, Endpoint: endpoint, Time: start.UTC()}
		defer func() {
			ev.Duration = time.Since(start)
			if opts.Bus != nil {
				opts.Bus.Publish(ev)
			}
		}()

		year, err := decodeYear(w, r)
		if err == nil {
			ev.Year = year
			var res result
			res, err = fn(r.Context(), year)
			if err == nil {
				ev.Outcome = events.OutcomeSuccess
				ev.Forecast = res.forecast
				ev.Explanation = res.explanation
				writeJSON(w, http.StatusOK, res.body)
				return
			}
		}

		ev.Error = err.Error()
		var verr *prediction.ValidationError
		if errors.As(err, &verr) {
			ev.Outcome = events.OutcomeInvalid
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: verr.Reason, Field: verr.Field})
			return
		}
		ev.Outcome = events.OutcomeFault
		if stage, ok := prediction.FaultStage(err); ok {
			ev.Stage = string(stage)
		}
		if log != nil {
			log.Errorw("forecast failed", map[string]any{"request_id": id, "year": ev.Year, "stage": ev.Stage, "error": err.Error()})
		}
		coremon.CaptureFault(err, endpoint, ev.Stage)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: faultMessage})
	})
}

// decodeYear reads the request body and extracts the year field.
func decodeYear(w http.ResponseWriter, r *http.Request) (int, error) {
	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return 0, &prediction.ValidationError{Field: "body", Reason: "request body must be a JSON object"}
	}
	return prediction.ParseYear(req.Year)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
