package nl2sql

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
)

func TestIntentSelectorParsesSelection(t *testing.T) {
	client := &scriptedLLM{replies: []reply{{
		text: "Here is my analysis:\n" + `{"goal": "List active assets in New York", "relevant_tables": ["assets", "Sites", "Widgets", "Assets"], "reasoning": "assets live at sites"}` + "\nLet me know!",
		usage: llm.NewUsage(300, 40),
	}}}
	selector := NewIntentSelector(client, mustCatalog(t), nil)

	selection, usage := selector.Select(context.Background(), "Show me all active assets at the New York site")
	if selection.Goal != "List active assets in New York" {
		t.Fatalf("Goal = %q", selection.Goal)
	}
	if !reflect.DeepEqual(selection.Tables, []string{"Assets", "Sites"}) {
		t.Fatalf("Tables = %v", selection.Tables)
	}
	if selection.Fallback {
		t.Fatal("Fallback should be false")
	}
	if usage.TotalTokens != 340 {
		t.Fatalf("usage = %+v", usage)
	}
	prompt := client.prompts[0]
	if !strings.Contains(prompt, `User Query: "Show me all active assets at the New York site"`) {
		t.Fatalf("prompt missing question: %s", prompt)
	}
	if !strings.Contains(prompt, "Table: Vendors") || !strings.Contains(prompt, "relevant_tables") {
		t.Fatalf("prompt missing catalog summary or format: %s", prompt)
	}
	if client.maxTokens[0] != intentMaxTokens {
		t.Fatalf("maxTokens = %d", client.maxTokens[0])
	}
}

func TestIntentSelectorSkipsBracedProseBeforeSelection(t *testing.T) {
	client := &scriptedLLM{replies: []reply{{
		text:  "Here is my answer {as requested}:\n" + `{"goal": "List sites", "relevant_tables": ["Sites"]}`,
		usage: llm.NewUsage(100, 20),
	}}}
	selection, _ := NewIntentSelector(client, mustCatalog(t), nil).Select(context.Background(), "Which sites do we have?")

	if selection.Fallback {
		t.Fatalf("expected parsed selection, got fallback %+v", selection)
	}
	if selection.Goal != "List sites" || !reflect.DeepEqual(selection.Tables, []string{"Sites"}) {
		t.Fatalf("selection = %+v", selection)
	}
}

func TestIntentSelectorDefaultsWhenNoKnownTables(t *testing.T) {
	client := &scriptedLLM{replies: []reply{{text: `{"goal": "", "relevant_tables": ["Nope"]}`, usage: llm.NewUsage(10, 5)}}}
	cat := mustCatalog(t)
	selection, _ := NewIntentSelector(client, cat, nil).Select(context.Background(), "anything")

	if selection.Goal != defaultGoal {
		t.Fatalf("Goal = %q", selection.Goal)
	}
	if !reflect.DeepEqual(selection.Tables, cat.TableNames()[:3]) {
		t.Fatalf("Tables = %v", selection.Tables)
	}
}

func TestIntentSelectorFallsBackOnFailures(t *testing.T) {
	tests := []struct {
		name      string
		reply     reply
		wantUsage int
	}{
		{name: "llm error", reply: reply{err: errors.New("provider unreachable")}, wantUsage: 0},
		{name: "no json", reply: reply{text: "I think you want the Assets table.", usage: llm.NewUsage(50, 9)}, wantUsage: 59},
		{name: "malformed json", reply: reply{text: `{"goal": 5}`, usage: llm.NewUsage(20, 2)}, wantUsage: 22},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &scriptedLLM{replies: []reply{tc.reply}}
			selection, usage := NewIntentSelector(client, mustCatalog(t), nil).Select(context.Background(), "q")
			if !selection.Fallback || selection.Goal != fallbackGoal {
				t.Fatalf("expected fallback selection, got %+v", selection)
			}
			if !reflect.DeepEqual(selection.Tables, []string{"Assets"}) {
				t.Fatalf("Tables = %v", selection.Tables)
			}
			if usage.TotalTokens != tc.wantUsage {
				t.Fatalf("usage = %+v, want total %d", usage, tc.wantUsage)
			}
		})
	}
}

func TestFallbackSelectionWithoutAssetsTable(t *testing.T) {
	cat, err := catalog.New([]catalog.Table{
		{Name: "Tickets", Description: "Support tickets", Columns: []catalog.Column{{Name: "TicketId", Type: "INTEGER"}}},
	}, nil)
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	selection := fallbackSelection(cat)
	if !reflect.DeepEqual(selection.Tables, []string{"Tickets"}) {
		t.Fatalf("Tables = %v", selection.Tables)
	}
}

func TestDefaultTablesCapsAtThree(t *testing.T) {
	cat := mustCatalog(t)
	if got := defaultTables(cat); len(got) != 3 || got[0] != cat.TableNames()[0] {
		t.Fatalf("defaultTables() = %v", got)
	}
}
