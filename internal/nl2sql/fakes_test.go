package nl2sql

import (
	"context"
	"errors"
	"testing"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/llm"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
)

type reply struct {
	text  string
	usage llm.Usage
	err   error
}

type scriptedLLM struct {
	replies   []reply
	prompts   []string
	maxTokens []int
}

func (s *scriptedLLM) Provider() string { return "fake" }

func (s *scriptedLLM) Model() string { return "fake-model" }

func (s *scriptedLLM) Complete(_ context.Context, prompt string, maxTokens int) (llm.Completion, error) {
	s.prompts = append(s.prompts, prompt)
	s.maxTokens = append(s.maxTokens, maxTokens)
	if len(s.replies) == 0 {
		return llm.Completion{}, errors.New("no scripted reply")
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	return llm.Completion{Text: next.text, Usage: next.usage}, next.err
}

type recordingExecutor struct {
	result query.ExecutionResult
	calls  []string
}

func (r *recordingExecutor) Execute(_ context.Context, sqlText string) query.ExecutionResult {
	r.calls = append(r.calls, sqlText)
	return r.result
}

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default() error = %v", err)
	}
	return cat
}
