package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
)

const redacted = "[redacted]"

// sensitiveKeys are attribute keys whose values never reach the log sink.
var sensitiveKeys = map[string]struct{}{
	"api_key":       {},
	"authorization": {},
	"bearer_token":  {},
	"password":      {},
	"secret_key":    {},
	"token":         {},
}

type traceIDKey struct{}

// NewLogger builds the process logger: JSON lines when LogJSON is set,
// otherwise tint's coloured text with UTC millisecond timestamps.
func NewLogger(cfg config.Config, writer io.Writer) *slog.Logger {
	if writer == nil {
		writer = io.Discard
	}
	level := cfg.Observability.LogLevel

	var handler slog.Handler
	if cfg.Observability.LogJSON {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redactAttr,
		})
	} else {
		handler = tint.NewHandler(writer, &tint.Options{
			Level:      level,
			NoColor:    cfg.Observability.NoColor,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					return slog.Time(slog.TimeKey, a.Value.Time().UTC())
				}
				return redactAttr(groups, a)
			},
		})
	}
	return slog.New(handler).With(
		slog.String("service", cfg.Service.Name),
		slog.String("profile", string(cfg.Profile)),
	)
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}
