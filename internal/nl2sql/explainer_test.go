package nl2sql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
)

func TestExplainerEmbedsEveryRecordInOrder(t *testing.T) {
	client := &scriptedLLM{replies: []reply{{text: "  Computers lead with 2 assets.  ", usage: llm.NewUsage(200, 25)}}}
	execution := &query.ExecutionResult{
		Success:  true,
		Columns:  []string{"Category", "AssetCount"},
		Rows:     [][]any{{"Computers", int64(2)}, {"Furniture", int64(1)}, {nil, int64(1)}},
		RowCount: 3,
	}

	answer, usage := NewExplainer(client, nil).Explain(context.Background(), ExplainInput{
		Question:  "How many assets per category?",
		SQL:       "SELECT Category, COUNT(*) AS AssetCount FROM Assets GROUP BY Category",
		Goal:      "Count assets by category",
		Execution: execution,
	})
	if answer != "Computers lead with 2 assets." {
		t.Fatalf("answer = %q", answer)
	}
	if usage.TotalTokens != 225 {
		t.Fatalf("usage = %+v", usage)
	}

	prompt := client.prompts[0]
	for _, want := range []string{
		`User's Question: "How many assets per category?"`,
		"ACTUAL DATA FROM DATABASE (3 records found)",
		"Columns: Category, AssetCount",
		"Record 1: Category: Computers, AssetCount: 2\nRecord 2: Category: Furniture, AssetCount: 1\nRecord 3: Category: null, AssetCount: 1",
		"Do NOT explain the SQL query",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if client.maxTokens[0] != explainMaxTokens {
		t.Fatalf("maxTokens = %d", client.maxTokens[0])
	}
}

func TestExplainerAcknowledgesMissingData(t *testing.T) {
	for _, execution := range []*query.ExecutionResult{
		nil,
		{Success: false, Error: "no such table: Assetz"},
		{Success: true, Columns: []string{"AssetName"}, Rows: [][]any{}},
	} {
		client := &scriptedLLM{replies: []reply{{text: "I could not find matching data.", usage: llm.NewUsage(40, 8)}}}
		answer, _ := NewExplainer(client, nil).Explain(context.Background(), ExplainInput{Question: "q", Execution: execution})
		if answer != "I could not find matching data." {
			t.Fatalf("answer = %q", answer)
		}
		if !strings.Contains(client.prompts[0], "No query results were available") {
			t.Fatalf("prompt should acknowledge missing data:\n%s", client.prompts[0])
		}
	}
}

func TestExplainerFallsBackOnModelFailure(t *testing.T) {
	client := &scriptedLLM{replies: []reply{{err: errors.New("timeout")}}}
	answer, usage := NewExplainer(client, nil).Explain(context.Background(), ExplainInput{
		Question:  "assets by status",
		Execution: &query.ExecutionResult{Success: true, Columns: []string{"Status", "Total"}, Rows: [][]any{{"Active", int64(3)}}, RowCount: 1},
	})
	if answer != "Based on your query 'assets by status', here's what I found: Active has 3 items." {
		t.Fatalf("answer = %q", answer)
	}
	if usage.TotalTokens != 0 {
		t.Fatalf("usage = %+v", usage)
	}
}

func TestFallbackExplanation(t *testing.T) {
	tests := []struct {
		name      string
		execution *query.ExecutionResult
		want      string
	}{
		{
			name: "two columns",
			execution: &query.ExecutionResult{
				Success: true,
				Columns: []string{"Category", "Count"},
				Rows:    [][]any{{"Equipment", int64(18)}, {"Computers", int64(12)}},
			},
			want: "Based on your query 'q', here's what I found: Equipment has 18 items, Computers has 12 items.",
		},
		{
			name: "other shapes",
			execution: &query.ExecutionResult{
				Success: true,
				Columns: []string{"AssetTag", "AssetName", "Status"},
				Rows:    [][]any{{"A1", "Laptop", "Active"}, {"A2", "Desk", "Active"}},
			},
			want: "Based on your question 'q', I found 2 results in the database.",
		},
		{
			name:      "failed execution",
			execution: &query.ExecutionResult{Error: "syntax error"},
			want:      "I was unable to retrieve data for your question: 'q'. Please check if the query parameters are correct.",
		},
		{
			name: "no execution",
			want: "I was unable to retrieve data for your question: 'q'. Please check if the query parameters are correct.",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := fallbackExplanation("q", tc.execution); got != tc.want {
				t.Fatalf("fallbackExplanation() = %q, want %q", got, tc.want)
			}
		})
	}
}
