package llm

import (
	"fmt"
	"log/slog"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/config"
)

// NewFromConfig builds the provider client selected by cfg wrapped in a
// RetryingClient.
func NewFromConfig(cfg config.LLMConfig, logger *slog.Logger) (Client, error) {
	var (
		inner Client
		err   error
	)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		inner, err = NewOpenAIClient(OpenAIConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
	case config.ProviderAzure:
		inner, err = NewOpenAIClient(OpenAIConfig{
			BaseURL:         cfg.BaseURL,
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			Temperature:     cfg.Temperature,
			Timeout:         cfg.Timeout,
			AzureAPIVersion: cfg.AzureAPIVersion,
		})
	case config.ProviderAnthropic:
		inner, err = NewAnthropicClient(AnthropicConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", cfg.Provider, err)
	}
	return NewRetryingClient(inner, RetryConfig{MaxRetries: cfg.MaxRetries}, logger), nil
}
