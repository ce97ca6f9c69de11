package query

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotReadOnly = errors.New("only single read-only SELECT statements are allowed")

// CheckReadOnly accepts a single SELECT or WITH statement. Trailing
// semicolons are tolerated; any other statement separator is rejected.
func CheckReadOnly(sqlText string) error {
	trimmed := StripTrailingSemicolons(sqlText)
	if trimmed == "" {
		return fmt.Errorf("%w: statement is empty", ErrNotReadOnly)
	}
	masked := strings.TrimSpace(MaskLiterals(trimmed))
	if masked == "" {
		return fmt.Errorf("%w: statement is empty", ErrNotReadOnly)
	}
	if strings.Contains(masked, ";") {
		return fmt.Errorf("%w: multiple statements", ErrNotReadOnly)
	}
	lower := strings.ToLower(masked)
	if !strings.HasPrefix(lower, "select") && !strings.HasPrefix(lower, "with") {
		return ErrNotReadOnly
	}
	return nil
}

func StripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}

// MaskLiterals blanks out single-quoted strings, double-quoted identifiers and
// comments so keyword and punctuation scans only see SQL structure. Quote
// characters are kept; everything inside them becomes a space. Comments are
// replaced by spaces entirely. The output has the same byte length as the input.
func MaskLiterals(sqlText string) string {
	out := []byte(sqlText)
	n := len(out)
	for i := 0; i < n; i++ {
		switch {
		case out[i] == '\'' || out[i] == '"':
			quote := out[i]
			j := i + 1
			for j < n {
				if out[j] == quote {
					if j+1 < n && out[j+1] == quote {
						out[j], out[j+1] = ' ', ' '
						j += 2
						continue
					}
					break
				}
				out[j] = ' '
				j++
			}
			i = j
		case out[i] == '-' && i+1 < n && out[i+1] == '-':
			for i < n && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		case out[i] == '/' && i+1 < n && out[i+1] == '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for i < n && !(out[i] == '*' && i+1 < n && out[i+1] == '/') {
				if out[i] != '\n' {
					out[i] = ' '
				}
				i++
			}
			if i < n {
				out[i], out[i+1] = ' ', ' '
				i++
			}
		}
	}
	return string(out)
}
