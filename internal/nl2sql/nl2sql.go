// Package nl2sql holds the language-model steps of the chat pipeline: intent
// and table selection, SQL generation, validation and result explanation.
package nl2sql

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MaxAttempts bounds the generate-and-validate loop.
const MaxAttempts = 3

var errNoJSONObject = errors.New("no JSON object in completion")

const (
	intentMaxTokens  = 500
	sqlMaxTokens     = 800
	explainMaxTokens = 400
)

func stripMarkdownSQL(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```SQL")
		trimmed = strings.TrimPrefix(trimmed, "```")
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// decodeFirstJSONObject decodes the first balanced {...} substring of text
// that unmarshals into T. Braces inside JSON strings are ignored, and
// candidates that fail to decode are skipped.
func decodeFirstJSONObject[T any](text string) (T, error) {
	var zero T
	candidates := jsonObjectCandidates(text)
	if len(candidates) == 0 {
		return zero, errNoJSONObject
	}
	var firstErr error
	for _, raw := range candidates {
		var value T
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return value, nil
	}
	return zero, fmt.Errorf("decode json object: %w", firstErr)
}

// jsonObjectCandidates lists the balanced {...} substrings of text in order of
// their opening brace. Candidates may overlap when objects nest.
func jsonObjectCandidates(text string) []string {
	var out []string
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		if end, ok := balancedObjectEnd(text, start); ok {
			out = append(out, text[start:end])
		}
	}
	return out
}

func balancedObjectEnd(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}
