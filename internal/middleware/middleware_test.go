package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoggerCapturesStatusAndPassesThrough(t *testing.T) {
	var logged bool
	logger := log.New(nil)
	handler := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logged = true
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if !logged {
		t.Error("expected the wrapped handler to run")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d to pass through unchanged, got %d", http.StatusCreated, rec.Code)
	}
}

func TestTraceMiddlewareGeneratesIDWhenAbsent(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if seen == "" {
		t.Error("expected a trace id to be generated and stored in the request context")
	}
	if got := rec.Header().Get("X-Trace-ID"); got != seen {
		t.Errorf("expected X-Trace-ID response header %q to match the context trace id %q", got, seen)
	}
}

func TestTraceMiddlewarePropagatesIncomingID(t *testing.T) {
	var seen string
	handler := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = TraceIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set("X-Trace-ID", "incoming-trace-id")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != "incoming-trace-id" {
		t.Errorf("expected incoming X-Trace-ID to be honored, got %q", seen)
	}
}
