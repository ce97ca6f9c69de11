package llm

import (
	"context"
	"errors"
	"fmt"
)

// Usage counts tokens reported by the provider for one or more calls.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func NewUsage(prompt, completion int) Usage {
	return Usage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
}

func (u Usage) Add(other Usage) Usage {
	return NewUsage(u.PromptTokens+other.PromptTokens, u.CompletionTokens+other.CompletionTokens)
}

type Completion struct {
	Text  string
	Usage Usage
}

// Client sends a single-turn prompt and returns the text reply together with
// the token usage for that call.
type Client interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (Completion, error)
	Provider() string
	Model() string
}

type CompletionError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *CompletionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s completion failed status=%d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err is a transport failure, a rate limit or a
// provider-side error.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var completionErr *CompletionError
	if errors.As(err, &completionErr) {
		return completionErr.Retryable
	}
	return false
}

func retryableStatus(status int) bool {
	return status == 429 || status >= 500
}
