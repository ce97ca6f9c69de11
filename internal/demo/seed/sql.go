package seed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/catalog"
)

type SQLDialect string

const (
	SQLite   SQLDialect = "sqlite"
	Postgres SQLDialect = "postgres"
)

var decimalType = regexp.MustCompile(`(?i)^DECIMAL(\(\s*\d+\s*,\s*\d+\s*\))$`)

// WriteSQL recreates every catalog table in db and loads the dataset, one
// transaction per table.
func WriteSQL(ctx context.Context, db *sql.DB, dialect SQLDialect, cat *catalog.Catalog, d *Dataset, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	for _, rows := range d.Tables() {
		table, ok := cat.Table(rows.Name)
		if !ok {
			return fmt.Errorf("table %s is not in the catalog", rows.Name)
		}
		if err := writeTable(ctx, db, dialect, table, rows.Rows()); err != nil {
			return fmt.Errorf("load %s: %w", rows.Name, err)
		}
		logger.InfoContext(ctx, "loaded dataset table",
			slog.String("dialect", string(dialect)),
			slog.String("table", rows.Name),
			slog.Int("rows", rows.Count),
		)
	}
	return nil
}

func writeTable(ctx context.Context, db *sql.DB, dialect SQLDialect, table catalog.Table, rows []any) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quote(table.Name)); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createTableSQL(dialect, table)); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if len(rows) == 0 {
		return tx.Commit()
	}

	columns, _ := columnValues(rows[0])
	stmt, err := tx.PrepareContext(ctx, insertSQL(dialect, table.Name, columns))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	types := columnTypes(table)
	for _, row := range rows {
		names, values := columnValues(row)
		for i := range values {
			values[i] = bindValue(dialect, types[names[i]], values[i])
		}
		if _, err = stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("insert: %w", err)
		}
	}
	return tx.Commit()
}

func createTableSQL(dialect SQLDialect, table catalog.Table) string {
	defs := make([]string, 0, len(table.Columns))
	for i, column := range table.Columns {
		def := quote(column.Name) + " " + columnType(dialect, column.Type)
		if i == 0 {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quote(table.Name), strings.Join(defs, ", "))
}

func insertSQL(dialect SQLDialect, tableName string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, column := range columns {
		quoted[i] = quote(column)
		if dialect == Postgres {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
		} else {
			placeholders[i] = "?"
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

// columnType maps catalog types to the target database. SQLite keeps the
// catalog spelling since any type name only sets column affinity.
func columnType(dialect SQLDialect, catalogType string) string {
	upper := strings.ToUpper(strings.TrimSpace(catalogType))
	if dialect != Postgres {
		return upper
	}
	switch {
	case upper == "INTEGER":
		return "BIGINT"
	case upper == "DATETIME":
		return "TIMESTAMP"
	case decimalType.MatchString(upper):
		return "NUMERIC" + decimalType.FindStringSubmatch(upper)[1]
	default:
		return upper
	}
}

func columnTypes(table catalog.Table) map[string]string {
	out := make(map[string]string, len(table.Columns))
	for _, column := range table.Columns {
		out[column.Name] = strings.ToUpper(column.Type)
	}
	return out
}

// bindValue stores SQLite times as the text forms the sample queries compare
// against.
func bindValue(dialect SQLDialect, columnType string, value any) any {
	ts, ok := value.(time.Time)
	if !ok || dialect != SQLite {
		return value
	}
	if columnType == "DATE" {
		return ts.Format(time.DateOnly)
	}
	return ts.Format(time.DateTime)
}

// columnValues reads the parquet column names and field values of a row
// struct. Nil pointers become SQL NULL.
func columnValues(row any) ([]string, []any) {
	v := reflect.ValueOf(row)
	t := v.Type()
	names := make([]string, 0, t.NumField())
	values := make([]any, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("parquet")
		name, _, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		field := v.Field(i)
		var value any
		if field.Kind() == reflect.Pointer {
			if !field.IsNil() {
				value = field.Elem().Interface()
			}
		} else {
			value = field.Interface()
		}
		names = append(names, name)
		values = append(values, value)
	}
	return names, values
}

func quote(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
