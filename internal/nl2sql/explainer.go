package nl2sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
)

type ExplainInput struct {
	Question string
	SQL      string
	Goal     string
	// Execution is nil when no query was run.
	Execution *query.ExecutionResult
}

type Explainer struct {
	client llm.Client
	logger *slog.Logger
}

func NewExplainer(client llm.Client, logger *slog.Logger) *Explainer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Explainer{client: client, logger: logger}
}

// Explain answers the question from the rows actually returned. It always
// returns a non-empty answer; model failures fall back to a template.
func (e *Explainer) Explain(ctx context.Context, in ExplainInput) (string, llm.Usage) {
	completion, err := e.client.Complete(ctx, buildExplainPrompt(in), explainMaxTokens)
	if err != nil {
		e.logger.WarnContext(ctx, "explanation failed, using template answer", slog.String("error", err.Error()))
		return fallbackExplanation(in.Question, in.Execution), completion.Usage
	}
	answer := strings.TrimSpace(completion.Text)
	if answer == "" {
		e.logger.WarnContext(ctx, "explanation was empty, using template answer")
		return fallbackExplanation(in.Question, in.Execution), completion.Usage
	}
	return answer, completion.Usage
}

func hasRows(result *query.ExecutionResult) bool {
	return result != nil && result.Success && len(result.Rows) > 0
}

func buildExplainPrompt(in ExplainInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a business analyst providing answers based on database query results. The user asked a specific question and you have the actual data to answer it.\n\n")
	fmt.Fprintf(&b, "User's Question: %q\nGoal: %s", in.Question, in.Goal)

	if !hasRows(in.Execution) {
		b.WriteString("\n\nNo query results were available. Please provide a helpful response acknowledging this limitation.\n")
		return b.String()
	}

	result := in.Execution
	fmt.Fprintf(&b, "\n\nACTUAL DATA FROM DATABASE (%d records found):\n", result.RowCount)
	fmt.Fprintf(&b, "Columns: %s\n\nData:", strings.Join(result.Columns, ", "))
	for i, row := range result.Rows {
		fmt.Fprintf(&b, "\nRecord %d: %s", i+1, formatRecord(result.Columns, row))
	}
	if result.Truncated {
		fmt.Fprintf(&b, "\n(Only the first %d records are shown.)", len(result.Rows))
	}
	b.WriteString(`

INSTRUCTIONS:
- Answer the user's question directly using this actual data
- Present the findings in a clear, business-friendly format
- Do NOT explain the SQL query or technical process
- Focus on the insights and answers the data provides
- Use specific numbers and categories from the results
- If it's a breakdown or summary, present it clearly

Example for breakdown questions: "Based on your data, here's the breakdown by category: Equipment has 18 assets, Computers has 18 assets, and Office Supplies has 12 assets."
`)
	return b.String()
}

func formatRecord(columns []string, row []any) string {
	parts := make([]string, 0, len(columns))
	for i, column := range columns {
		var value any
		if i < len(row) {
			value = row[i]
		}
		parts = append(parts, fmt.Sprintf("%s: %s", column, formatValue(value)))
	}
	return strings.Join(parts, ", ")
}

func formatValue(value any) string {
	if value == nil {
		return "null"
	}
	return fmt.Sprint(value)
}

// fallbackExplanation builds a template answer from the rows alone.
func fallbackExplanation(question string, result *query.ExecutionResult) string {
	if !hasRows(result) {
		return fmt.Sprintf("I was unable to retrieve data for your question: '%s'. Please check if the query parameters are correct.", question)
	}
	if len(result.Columns) == 2 {
		parts := make([]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			parts = append(parts, fmt.Sprintf("%s has %s items", formatValue(row[0]), formatValue(row[1])))
		}
		return fmt.Sprintf("Based on your query '%s', here's what I found: %s.", question, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("Based on your question '%s', I found %d results in the database.", question, len(result.Rows))
}
