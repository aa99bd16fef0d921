package forecast

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kilianp07/co2cast/core/events"
	"github.com/kilianp07/co2cast/core/forecastlog"
)

func seededStore(t *testing.T) forecastlog.LogStore {
	t.Helper()
	store := forecastlog.NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []forecastlog.LogRecord{
		{ID: "a", Timestamp: now, Year: 2030, Outcome: events.OutcomeSuccess},
		{ID: "b", Timestamp: now.Add(time.Hour), Year: 2040, Outcome: events.OutcomeInvalid},
		{ID: "c", Timestamp: now.Add(2 * time.Hour), Year: 2030, Outcome: events.OutcomeFault},
	}
	for _, r := range recs {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return store
}

func getLogs(t *testing.T, h http.Handler, query string) (int, []forecastlog.LogRecord) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, LogsPath+query, nil))
	var out []forecastlog.LogRecord
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
	}
	return rr.Code, out
}

func TestLogHandler_Filters(t *testing.T) {
	h := NewLogHandler(seededStore(t))

	code, out := getLogs(t, h, "")
	if code != http.StatusOK || len(out) != 3 {
		t.Fatalf("expected 3 records, got %d (%d)", len(out), code)
	}
	if _, out = getLogs(t, h, "?year=2030"); len(out) != 2 {
		t.Fatalf("year filter: %d", len(out))
	}
	if _, out = getLogs(t, h, "?outcome=fault"); len(out) != 1 || out[0].ID != "c" {
		t.Fatalf("outcome filter: %#v", out)
	}
	if _, out = getLogs(t, h, "?start=2024-01-01T00:30:00Z&end=2024-01-01T01:30:00Z"); len(out) != 1 || out[0].ID != "b" {
		t.Fatalf("time filter: %#v", out)
	}
	if _, out = getLogs(t, h, "?limit=1"); len(out) != 1 || out[0].ID != "c" {
		t.Fatalf("limit: %#v", out)
	}
}

func TestLogHandler_BadParams(t *testing.T) {
	h := NewLogHandler(seededStore(t))
	for _, q := range []string{"?year=abc", "?outcome=maybe", "?start=yesterday", "?limit=-1"} {
		if code, _ := getLogs(t, h, q); code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 got %d", q, code)
		}
	}
}

func TestLogHandler_NoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NewLogHandler(nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, LogsPath, nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "[]\n" {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Body.String())
	}
}

func TestHealthAndCORS(t *testing.T) {
	ready := false
	h := CORS("*", NewHealthHandler(func() bool { return ready }))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", rr.Code)
	}
	ready = true
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, HealthPath, nil))
	if rr.Code != http.StatusOK || rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("unexpected %d %v", rr.Code, rr.Header())
	}
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodOptions, PredictPath, nil))
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight: %d", rr.Code)
	}
	if CORS("", h) == nil {
		t.Fatal("nil handler")
	}
}
