package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
)

type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// RetryingClient retries transient provider failures with exponential
// backoff and records every attempt in the LLM metrics.
type RetryingClient struct {
	inner  Client
	cfg    RetryConfig
	logger *slog.Logger
}

func NewRetryingClient(inner Client, cfg RetryConfig, logger *slog.Logger) *RetryingClient {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = 500 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	return &RetryingClient{inner: inner, cfg: cfg, logger: logger}
}

func (c *RetryingClient) Provider() string {
	return c.inner.Provider()
}

func (c *RetryingClient) Model() string {
	return c.inner.Model()
}

func (c *RetryingClient) Complete(ctx context.Context, prompt string, maxTokens int) (Completion, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.InitialInterval
	bo.MaxInterval = c.cfg.MaxInterval

	attempt := 0
	return backoff.Retry(ctx, func() (Completion, error) {
		attempt++
		start := time.Now()
		completion, err := c.inner.Complete(ctx, prompt, maxTokens)
		elapsed := time.Since(start)
		observability.ObserveLLMCall(c.inner.Provider(), err, elapsed)
		if err == nil {
			c.logger.DebugContext(ctx, "llm call completed",
				slog.String("provider", c.inner.Provider()),
				slog.Int("attempt", attempt),
				slog.Int("prompt_tokens", completion.Usage.PromptTokens),
				slog.Int("completion_tokens", completion.Usage.CompletionTokens),
				slog.String("duration", elapsed.String()),
			)
			return completion, nil
		}
		if !IsRetryable(err) {
			return completion, backoff.Permanent(err)
		}
		c.logger.WarnContext(ctx, "llm call failed, retrying",
			slog.String("provider", c.inner.Provider()),
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
		return completion, err
	}, backoff.WithBackOff(bo), backoff.WithMaxTries(uint(c.cfg.MaxRetries+1)))
}
