package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBodyBytes = 512

type OpenAIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	// AzureAPIVersion switches the client to Azure OpenAI deployment routing.
	AzureAPIVersion string
}

// OpenAIClient talks to the chat completions API of OpenAI or an Azure
// OpenAI deployment.
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	apiVersion  string
	client      *http.Client
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       model,
		temperature: cfg.Temperature,
		apiVersion:  strings.TrimSpace(cfg.AzureAPIVersion),
		client:      &http.Client{Timeout: timeout},
	}, nil
}

func (c *OpenAIClient) Provider() string {
	if c.apiVersion != "" {
		return "azure"
	}
	return "openai"
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (Completion, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": c.temperature,
	}
	if maxTokens > 0 {
		payload["max_tokens"] = maxTokens
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Completion{}, fmt.Errorf("marshal chat payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return Completion{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiVersion != "" {
		httpReq.Header.Set("api-key", c.apiKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Completion{}, &CompletionError{
			Provider:  c.Provider(),
			Retryable: ctx.Err() == nil,
			Err:       fmt.Errorf("request chat completion: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	rawRespBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Completion{}, &CompletionError{Provider: c.Provider(), Retryable: true, Err: fmt.Errorf("read chat response body: %w", err)}
	}
	if resp.StatusCode >= 400 {
		return Completion{}, &CompletionError{
			Provider:   c.Provider(),
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
			Err:        fmt.Errorf("body=%s", truncate(string(rawRespBody), maxErrorBodyBytes)),
		}
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(rawRespBody, &parsed); err != nil {
		return Completion{}, &CompletionError{
			Provider:   c.Provider(),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode chat completion response: %w", err),
		}
	}
	usage := NewUsage(parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	if len(parsed.Choices) == 0 {
		return Completion{Usage: usage}, &CompletionError{
			Provider:   c.Provider(),
			StatusCode: resp.StatusCode,
			Err:        errors.New("empty chat completion choices"),
		}
	}
	return Completion{
		Text:  strings.TrimSpace(parsed.Choices[0].Message.Content),
		Usage: usage,
	}, nil
}

func (c *OpenAIClient) endpoint() string {
	if c.apiVersion != "" {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiVersion))
	}
	return c.baseURL + "/v1/chat/completions"
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit] + "..."
}
