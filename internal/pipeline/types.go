package pipeline

import (
	"time"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

type Request struct {
	SessionID string         `json:"session_id"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
}

// Attempt is one generate-then-validate cycle. Attempts are appended in
// order and never modified.
type Attempt struct {
	Number    int       `json:"attempt_number"`
	SQL       string    `json:"sql_text"`
	Valid     bool      `json:"is_valid"`
	Check     string    `json:"failed_check,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Result struct {
	NaturalLanguageAnswer string    `json:"natural_language_answer"`
	SQLQuery              string    `json:"sql_query"`
	TokenUsage            llm.Usage `json:"token_usage"`
	LatencyMS             int64     `json:"latency_ms"`
	Status                Status    `json:"status"`
	TableInfo             []string  `json:"table_info"`
	ValidationAttempts    int       `json:"validation_attempts"`

	SessionID string                 `json:"session_id"`
	Goal      string                 `json:"goal,omitempty"`
	Attempts  []Attempt              `json:"attempts"`
	Execution *query.ExecutionResult `json:"execution,omitempty"`
	Provider  string                 `json:"provider"`
	Model     string                 `json:"model"`
	Timestamp time.Time              `json:"timestamp"`
}
