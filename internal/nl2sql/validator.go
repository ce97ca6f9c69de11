package nl2sql

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/observability"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
)

// Validation checks, in evaluation order.
const (
	CheckSelect      = "select_only"
	CheckKeywords    = "forbidden_keyword"
	CheckTables      = "expected_tables"
	CheckParentheses = "parentheses"
	CheckExecution   = "execution"
)

var forbiddenKeywordPattern = regexp.MustCompile(
	`(?i)\b(DROP|DELETE|INSERT|UPDATE|ALTER|CREATE|TRUNCATE|REPLACE|MERGE|EXEC|EXECUTE)\b|\bSP_\w*`,
)

// Executor is the part of query.Executor the validator needs.
type Executor interface {
	Execute(ctx context.Context, sqlText string) query.ExecutionResult
}

// Verdict explains a validation outcome. Execution is set once the query
// reached the executor, whether or not it succeeded.
type Verdict struct {
	Valid     bool
	Check     string
	Reason    string
	Execution *query.ExecutionResult
}

type Validator struct {
	executor Executor
	logger   *slog.Logger
}

func NewValidator(executor Executor, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Validator{executor: executor, logger: logger}
}

func (v *Validator) Validate(ctx context.Context, sqlText string, expectedTables []string) bool {
	return v.Check(ctx, sqlText, expectedTables).Valid
}

// Check runs the static checks and then executes the query, stopping at the
// first failure. It never panics.
func (v *Validator) Check(ctx context.Context, sqlText string, expectedTables []string) (verdict Verdict) {
	defer func() {
		if recovered := recover(); recovered != nil {
			verdict = Verdict{Check: CheckExecution, Reason: fmt.Sprintf("validation panic: %v", recovered)}
		}
		if verdict.Valid {
			return
		}
		observability.IncrementValidationFailure(verdict.Check)
		v.logger.InfoContext(ctx, "sql validation failed",
			slog.String("check", verdict.Check),
			slog.String("reason", verdict.Reason),
		)
	}()

	if reason := staticCheck(sqlText, expectedTables); reason != nil {
		return *reason
	}

	result := v.executor.Execute(ctx, sqlText)
	if !result.Success {
		return Verdict{Check: CheckExecution, Reason: "database execution error: " + result.Error, Execution: &result}
	}
	v.logger.DebugContext(ctx, "sql validation passed", slog.Int("row_count", result.RowCount))
	return Verdict{Valid: true, Execution: &result}
}

func staticCheck(sqlText string, expectedTables []string) *Verdict {
	trimmed := strings.TrimSpace(sqlText)
	if !strings.HasPrefix(strings.ToUpper(trimmed), "SELECT") {
		return &Verdict{Check: CheckSelect, Reason: "not a SELECT statement"}
	}

	masked := query.MaskLiterals(trimmed)
	if keyword := forbiddenKeywordPattern.FindString(masked); keyword != "" {
		return &Verdict{Check: CheckKeywords, Reason: fmt.Sprintf("contains forbidden keyword %q", strings.ToUpper(keyword))}
	}

	if !referencesAnyTable(trimmed, expectedTables) {
		return &Verdict{Check: CheckTables, Reason: "expected tables not found in query"}
	}

	if !balancedParentheses(masked) {
		return &Verdict{Check: CheckParentheses, Reason: "mismatched parentheses"}
	}
	return nil
}

func referencesAnyTable(sqlText string, tables []string) bool {
	upper := strings.ToUpper(sqlText)
	for _, table := range tables {
		if table != "" && strings.Contains(upper, strings.ToUpper(table)) {
			return true
		}
	}
	return false
}

func balancedParentheses(text string) bool {
	depth := 0
	for _, ch := range text {
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
