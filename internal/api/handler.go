package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/pipeline"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/session"
)

type ReadinessCheck func(ctx context.Context) error

// ChatRunner answers one chat request. *pipeline.Pipeline implements it.
type ChatRunner interface {
	Run(ctx context.Context, req pipeline.Request) pipeline.Result
}

type Dependencies struct {
	Logger            *slog.Logger
	Readiness         ReadinessCheck
	AuthMiddleware    func(http.Handler) http.Handler
	RateLimiter       *RateLimiter
	DependencyTimeout time.Duration
	Pipeline          ChatRunner
	Sessions          *session.Store
	Catalog           *catalog.Catalog
}

func NewHandler(cfg config.Config, deps Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "service": cfg.Service.Name})
	})

	mux.HandleFunc("GET /v1/ready", func(w http.ResponseWriter, r *http.Request) {
		if deps.Readiness == nil {
			writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
			return
		}
		timeout := deps.DependencyTimeout
		if timeout <= 0 {
			timeout = 2 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()
		if err := deps.Readiness(ctx); err != nil {
			writeError(r.Context(), w, http.StatusServiceUnavailable, "not_ready", err.Error(), true, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
	})

	mux.Handle("GET /v1/metrics", promhttp.Handler())

	protect := func(h http.Handler) http.Handler {
		if !cfg.Auth.Required {
			return h
		}
		if deps.AuthMiddleware == nil {
			if deps.Logger != nil {
				deps.Logger.Error("auth required but auth middleware missing")
			}
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(r.Context(), w, http.StatusInternalServerError, "auth_middleware_missing", "auth middleware is required by configuration", false, nil)
			})
		}
		return deps.AuthMiddleware(h)
	}
	limit := func(h http.Handler) http.Handler {
		if deps.RateLimiter == nil || !cfg.RateLimit.Enabled {
			return h
		}
		return deps.RateLimiter.Middleware(h)
	}

	mux.Handle("POST /v1/chat/sql", protect(limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleChat(cfg, deps, w, r)
	}))))
	mux.Handle("GET /v1/sessions", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleListSessions(deps, w, r)
	})))
	mux.Handle("GET /v1/sessions/{id}", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleSessionHistory(deps, w, r)
	})))
	mux.Handle("DELETE /v1/sessions/{id}", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleClearSession(deps, w, r)
	})))
	mux.Handle("GET /v1/schema", protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleSchema(deps, w, r)
	})))

	middlewares := []func(http.Handler) http.Handler{
		observability.TraceMiddleware,
		observability.MetricsMiddleware,
	}
	if deps.Logger != nil {
		middlewares = append(middlewares,
			observability.LoggingMiddleware(deps.Logger),
			observability.RecoverMiddleware(deps.Logger),
		)
	}
	return chain(mux, middlewares...)
}

// CheckLLMConfig fails readiness while the selected provider has no key.
func CheckLLMConfig(cfg config.Config) ReadinessCheck {
	return func(_ context.Context) error {
		if cfg.LLM.APIKey == "" {
			return errors.New("llm api key is not configured")
		}
		return nil
	}
}

// NamedCheck prefixes failures of check with the dependency name.
func NamedCheck(name string, check ReadinessCheck) ReadinessCheck {
	if check == nil {
		return nil
	}
	return func(ctx context.Context) error {
		if err := check(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// CombineReadinessChecks runs every non-nil check concurrently and joins
// the failures, so /v1/ready names each unavailable dependency.
func CombineReadinessChecks(checks ...ReadinessCheck) ReadinessCheck {
	filtered := make([]ReadinessCheck, 0, len(checks))
	for _, check := range checks {
		if check != nil {
			filtered = append(filtered, check)
		}
	}
	return func(ctx context.Context) error {
		errs := make([]error, len(filtered))
		var wg sync.WaitGroup
		for i, check := range filtered {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = check(ctx)
			}()
		}
		wg.Wait()
		return errors.Join(errs...)
	}
}

func chain(base http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	wrapped := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, code, message string, retryable bool, extra map[string]any) {
	writeJSON(w, status, map[string]any{
		"error_code": code,
		"message":    message,
		"retryable":  retryable,
		"context":    extra,
		"trace_id":   observability.TraceIDFromContext(ctx),
	})
}
