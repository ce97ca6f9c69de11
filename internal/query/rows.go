package query

import (
	"database/sql"
	"fmt"
)

type ValueNormalizer func(any) any

// ScanRows reads every row into positional values, keeping the engine's row
// and column order. When maxRows > 0 reading stops after maxRows rows and the
// truncated flag is set if more rows were available.
func ScanRows(rows *sql.Rows, maxRows int, normalize ValueNormalizer) ([]string, [][]any, bool, error) {
	if normalize == nil {
		normalize = NormalizeValue
	}
	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, false, fmt.Errorf("query columns: %w", err)
	}

	resultRows := make([][]any, 0)
	truncated := false
	for rows.Next() {
		if maxRows > 0 && len(resultRows) >= maxRows {
			truncated = true
			break
		}
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, false, fmt.Errorf("scan row: %w", err)
		}
		for i := range values {
			values[i] = normalize(values[i])
		}
		resultRows = append(resultRows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, false, fmt.Errorf("iterate rows: %w", err)
	}
	return columns, resultRows, truncated, nil
}

func NormalizeValue(value any) any {
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	default:
		return typed
	}
}
