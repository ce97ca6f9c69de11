package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
)

func TestTraceMiddlewarePreservesIncomingTraceID(t *testing.T) {
	h := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := TraceIDFromContext(r.Context()); got != "trace-1" {
			t.Fatalf("TraceIDFromContext() = %q", got)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	req.Header.Set(traceHeader, "trace-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get(traceHeader); got != "trace-1" {
		t.Fatalf("trace header = %q", got)
	}
}

func TestTraceMiddlewareGeneratesTraceID(t *testing.T) {
	h := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if TraceIDFromContext(r.Context()) == "" {
			t.Fatal("expected generated trace id")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if len(rr.Header().Get(traceHeader)) != 36 {
		t.Fatalf("expected uuid X-Trace-ID header, got %q", rr.Header().Get(traceHeader))
	}
}

func TestTraceMiddlewareReplacesMalformedTraceID(t *testing.T) {
	h := TraceMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, incoming := range []string{"bad id", strings.Repeat("a", 65), "x\ny"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		req.Header.Set(traceHeader, incoming)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if got := rr.Header().Get(traceHeader); got == incoming || len(got) != 36 {
			t.Fatalf("trace header for %q = %q", incoming, got)
		}
	}
}

func TestTraceIDContextHelpers(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "abc123")
	if got := TraceIDFromContext(ctx); got != "abc123" {
		t.Fatalf("TraceIDFromContext() = %q", got)
	}
	if got := TraceIDFromContext(context.Background()); got != "" {
		t.Fatalf("TraceIDFromContext() on empty context = %q", got)
	}
}

func TestLoggingMiddlewareRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["status"] != float64(http.StatusAccepted) {
		t.Fatalf("logged status = %v", entry["status"])
	}
	if entry["level"] != "INFO" || entry["route"] != "unmatched" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestLoggingMiddlewareWarnsOnServerErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/sql", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := LoggingMiddleware(logger)(mux)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/chat/sql", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["level"] != "WARN" {
		t.Fatalf("level = %v", entry["level"])
	}
	if entry["route"] != "POST /v1/chat/sql" {
		t.Fatalf("route = %v", entry["route"])
	}
}

func TestRecoverMiddlewareWritesEnvelope(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := RecoverMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"error_code":"internal_error"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestMetricsMiddlewareUsesMuxPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := MetricsMiddleware(mux)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/sessions/abc", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestNewLoggerSelectsHandler(t *testing.T) {
	cfg, err := config.Load("aichat-test", func(key string) (string, bool) {
		if key == "AICHAT_PROFILE" {
			return "test", true
		}
		return "", false
	})
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	cfg.Observability.LogLevel = slog.LevelInfo

	var jsonBuf bytes.Buffer
	cfg.Observability.LogJSON = true
	NewLogger(cfg, &jsonBuf).Info("hello")
	if !strings.Contains(jsonBuf.String(), `"service":"aichat-test"`) {
		t.Fatalf("json log missing service attr: %s", jsonBuf.String())
	}

	var textBuf bytes.Buffer
	cfg.Observability.LogJSON = false
	cfg.Observability.NoColor = true
	NewLogger(cfg, &textBuf).Info("hello")
	if !strings.Contains(textBuf.String(), "hello") || !strings.Contains(textBuf.String(), "service=aichat-test") {
		t.Fatalf("text log missing fields: %s", textBuf.String())
	}
}

func TestNewLoggerRedactsSecrets(t *testing.T) {
	cfg := config.Config{Service: config.ServiceConfig{Name: "aichat-test"}}
	cfg.Observability.LogLevel = slog.LevelInfo

	for _, jsonOutput := range []bool{true, false} {
		var buf bytes.Buffer
		cfg.Observability.LogJSON = jsonOutput
		cfg.Observability.NoColor = true
		NewLogger(cfg, &buf).With(slog.String("api_key", "sk-live-123")).Info("calling provider",
			slog.String("Authorization", "Bearer tok-1"),
			slog.String("model", "gpt-4o"),
		)
		out := buf.String()
		if strings.Contains(out, "sk-live-123") || strings.Contains(out, "tok-1") {
			t.Fatalf("secret leaked (json=%v): %s", jsonOutput, out)
		}
		if !strings.Contains(out, "[redacted]") || !strings.Contains(out, "gpt-4o") {
			t.Fatalf("unexpected log line (json=%v): %s", jsonOutput, out)
		}
	}
}
