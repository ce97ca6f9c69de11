package query

import (
	"context"
	"time"
)

type Request struct {
	SQL     string
	MaxRows int
}

type Result struct {
	Columns   []string
	Rows      [][]any
	Truncated bool
	Duration  time.Duration
}

// Engine runs a single read-only statement against the backing dataset.
type Engine interface {
	Name() string
	Execute(ctx context.Context, request Request) (Result, error)
	Ping(ctx context.Context) error
	Close() error
}

// ExecutionResult is the outcome of one statement. Failures are carried in
// Error rather than returned, so callers always receive a value.
type ExecutionResult struct {
	Success   bool          `json:"success"`
	Columns   []string      `json:"columns"`
	Rows      [][]any       `json:"rows"`
	RowCount  int           `json:"row_count"`
	Truncated bool          `json:"truncated,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"-"`
}

// Records returns the rows as column-to-value maps. Column order is only
// available through Columns and Rows.
func (r ExecutionResult) Records() []map[string]any {
	out := make([]map[string]any, 0, len(r.Rows))
	for _, row := range r.Rows {
		record := make(map[string]any, len(r.Columns))
		for i, column := range r.Columns {
			if i < len(row) {
				record[column] = row[i]
			}
		}
		out = append(out, record)
	}
	return out
}

func failed(err error, duration time.Duration) ExecutionResult {
	return ExecutionResult{
		Success:  false,
		Columns:  []string{},
		Rows:     [][]any{},
		Error:    err.Error(),
		Duration: duration,
	}
}
