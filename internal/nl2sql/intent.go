package nl2sql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
)

const (
	fallbackGoal      = "Retrieve asset information"
	fallbackTable     = "Assets"
	defaultGoal       = "Analyze database query"
	defaultTableLimit = 3
)

// Selection is the restated user goal and the catalog tables chosen to
// answer it, most relevant first.
type Selection struct {
	Goal      string   `json:"goal"`
	Tables    []string `json:"relevant_tables"`
	Reasoning string   `json:"reasoning,omitempty"`
	// Fallback is set when the model output could not be used.
	Fallback bool `json:"-"`
}

type IntentSelector struct {
	client  llm.Client
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewIntentSelector(client llm.Client, cat *catalog.Catalog, logger *slog.Logger) *IntentSelector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &IntentSelector{client: client, catalog: cat, logger: logger}
}

// Select never fails: LLM and parse errors degrade to fallbackSelection. The
// returned usage includes completions whose output could not be parsed.
func (s *IntentSelector) Select(ctx context.Context, question string) (Selection, llm.Usage) {
	completion, err := s.client.Complete(ctx, buildIntentPrompt(s.catalog, question), intentMaxTokens)
	if err != nil {
		s.logger.WarnContext(ctx, "goal understanding failed, using fallback selection", slog.String("error", err.Error()))
		return fallbackSelection(s.catalog), completion.Usage
	}

	selection, err := parseSelection(completion.Text, s.catalog)
	if err != nil {
		s.logger.WarnContext(ctx, "goal understanding output unusable, using fallback selection", slog.String("error", err.Error()))
		return fallbackSelection(s.catalog), completion.Usage
	}

	s.logger.InfoContext(ctx, "goal understood",
		slog.String("goal", selection.Goal),
		slog.Any("tables", selection.Tables),
	)
	return selection, completion.Usage
}

func buildIntentPrompt(cat *catalog.Catalog, question string) string {
	return fmt.Sprintf(`You are an expert database analyst. Based on the user's query and database schema, you need to:
1. Understand the user's goal/intent
2. Select the most relevant tables needed to answer the query

Database Schema:
%s
User Query: "%s"

Please analyze the query and respond with JSON in this exact format:
{
    "goal": "Clear description of what the user wants to achieve",
    "relevant_tables": ["Table1", "Table2", "Table3"],
    "reasoning": "Explanation of why these tables were selected"
}

Focus on selecting only the tables that are directly needed to answer the query. Consider relationships between tables when necessary.
`, cat.Summarize(nil), question)
}

type selectionPayload struct {
	Goal           string   `json:"goal"`
	RelevantTables []string `json:"relevant_tables"`
	Reasoning      string   `json:"reasoning"`
}

// parseSelection decodes the first object in text that fits the selection
// shape; brace-delimited prose before it is skipped.
func parseSelection(text string, cat *catalog.Catalog) (Selection, error) {
	parsed, err := decodeFirstJSONObject[selectionPayload](text)
	if err != nil {
		return Selection{}, fmt.Errorf("parse selection: %w", err)
	}

	goal := strings.TrimSpace(parsed.Goal)
	if goal == "" {
		goal = defaultGoal
	}
	tables := knownTables(cat, parsed.RelevantTables)
	if len(tables) == 0 {
		tables = defaultTables(cat)
	}
	return Selection{Goal: goal, Tables: tables, Reasoning: strings.TrimSpace(parsed.Reasoning)}, nil
}

// knownTables keeps the catalog spelling of every recognised name, in the
// order given, without duplicates.
func knownTables(cat *catalog.Catalog, names []string) []string {
	canonical := make(map[string]string)
	for _, name := range cat.TableNames() {
		canonical[strings.ToLower(name)] = name
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		resolved, ok := canonical[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		if _, dup := seen[resolved]; dup {
			continue
		}
		seen[resolved] = struct{}{}
		out = append(out, resolved)
	}
	return out
}

// defaultTables is used when the model named no known table.
func defaultTables(cat *catalog.Catalog) []string {
	names := cat.TableNames()
	if len(names) > defaultTableLimit {
		names = names[:defaultTableLimit]
	}
	return names
}

// fallbackSelection is used when the model call or its output failed.
func fallbackSelection(cat *catalog.Catalog) Selection {
	table := fallbackTable
	if !cat.HasTable(table) {
		table = cat.TableNames()[0]
	}
	return Selection{Goal: fallbackGoal, Tables: []string{table}, Fallback: true}
}
