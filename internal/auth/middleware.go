package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
)

const (
	apiKeyHeader  = "X-API-Key"
	bearerScheme  = "Bearer"
	authChallenge = `Bearer realm="aichat"`

	reasonMissing = "missing_token"
	reasonInvalid = "invalid_token"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok
}

// Middleware admits requests carrying a token the validator accepts, via
// "Authorization: Bearer <token>" or X-API-Key, and stores the caller's
// Identity in the request context for the rate limiter and handlers.
func Middleware(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := tokenFromRequest(r)
			if !ok {
				reject(w, r, reasonMissing, "missing bearer token")
				return
			}
			identity, ok := validator.Validate(r.Context(), token)
			if !ok {
				logger.WarnContext(r.Context(), "rejected api token",
					slog.String("trace_id", observability.TraceIDFromContext(r.Context())),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr),
				)
				reject(w, r, reasonInvalid, "invalid bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// tokenFromRequest prefers X-API-Key. The bearer scheme is matched
// case-insensitively; other schemes carry no token.
func tokenFromRequest(r *http.Request) (string, bool) {
	if key := strings.TrimSpace(r.Header.Get(apiKeyHeader)); key != "" {
		return key, true
	}
	scheme, credentials, found := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	return credentials, credentials != ""
}

func reject(w http.ResponseWriter, r *http.Request, reason, message string) {
	observability.IncrementAuthFailure(reason)
	w.Header().Set("WWW-Authenticate", authChallenge)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error_code": "unauthorized",
		"message":    message,
		"retryable":  false,
		"context":    map[string]any{"reason": reason},
		"trace_id":   observability.TraceIDFromContext(r.Context()),
	})
}
