package nl2sql

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/query/sqlite"
)

func TestValidatorRejectsDangerousStatements(t *testing.T) {
	executor := &recordingExecutor{result: query.ExecutionResult{Success: true}}
	validator := NewValidator(executor, nil)

	for _, statement := range []string{
		"DROP TABLE Assets",
		"DELETE FROM Assets",
		"UPDATE Assets SET Status = 'Disposed'",
		"INSERT INTO Assets (AssetId) VALUES (1)",
		"SELECT * FROM Assets; DROP TABLE Assets",
		"SELECT * FROM Assets WHERE 1 = 1 OR EXEC('x')",
		"SELECT * FROM Assets WHERE sp_executesql(1)",
	} {
		if validator.Validate(context.Background(), statement, []string{"Assets"}) {
			t.Fatalf("Validate(%q) = true, want false", statement)
		}
	}
	if len(executor.calls) != 0 {
		t.Fatalf("executor called for rejected statements: %v", executor.calls)
	}
}

func TestValidatorCheckOrder(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		check string
	}{
		{name: "not select", sql: "WITH x AS (SELECT 1) SELECT * FROM x", check: CheckSelect},
		{name: "generation failure", sql: "-- Error generating SQL query: timeout", check: CheckSelect},
		{name: "keyword before tables", sql: "SELECT 1; TRUNCATE Vendors", check: CheckKeywords},
		{name: "missing table", sql: "SELECT VendorName FROM Vendors", check: CheckTables},
		{name: "unbalanced", sql: "SELECT COUNT(* FROM Assets", check: CheckParentheses},
		{name: "reversed parentheses", sql: "SELECT )COUNT(* FROM Assets", check: CheckParentheses},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			executor := &recordingExecutor{result: query.ExecutionResult{Success: true}}
			verdict := NewValidator(executor, nil).Check(context.Background(), tc.sql, []string{"Assets"})
			if verdict.Valid || verdict.Check != tc.check {
				t.Fatalf("Check() = %+v, want failed %s", verdict, tc.check)
			}
			if verdict.Execution != nil || len(executor.calls) != 0 {
				t.Fatal("static failures must not execute the query")
			}
		})
	}
}

func TestValidatorIgnoresKeywordsInsideLiteralsAndIdentifiers(t *testing.T) {
	executor := &recordingExecutor{result: query.ExecutionResult{Success: true, Columns: []string{"n"}, Rows: [][]any{{int64(4)}}, RowCount: 1}}
	validator := NewValidator(executor, nil)

	statement := "select COUNT(*) AS n FROM AssetTransactions t WHERE t.TxnType = 'Create' AND t.Notes <> 'drop (old)' AND t.UpdatedAt IS NOT NULL"
	verdict := validator.Check(context.Background(), statement, []string{"AssetTransactions"})
	if !verdict.Valid {
		t.Fatalf("Check() = %+v, want valid", verdict)
	}
	if verdict.Execution == nil || verdict.Execution.RowCount != 1 {
		t.Fatalf("expected the execution result to be kept, got %+v", verdict.Execution)
	}
	if len(executor.calls) != 1 || executor.calls[0] != statement {
		t.Fatalf("executor calls = %v", executor.calls)
	}
}

func TestValidatorTreatsExecutionFailureAsInvalid(t *testing.T) {
	executor := &recordingExecutor{result: query.ExecutionResult{Error: "no such column: Colour"}}
	verdict := NewValidator(executor, nil).Check(context.Background(), "SELECT Colour FROM Assets", []string{"Assets"})
	if verdict.Valid || verdict.Check != CheckExecution {
		t.Fatalf("Check() = %+v", verdict)
	}
	if verdict.Execution == nil || verdict.Execution.Error != "no such column: Colour" {
		t.Fatalf("Execution = %+v", verdict.Execution)
	}
}

func TestValidatorRecoversFromExecutorPanic(t *testing.T) {
	verdict := NewValidator(panickingExecutor{}, nil).Check(context.Background(), "SELECT 1 FROM Assets", []string{"Assets"})
	if verdict.Valid || verdict.Check != CheckExecution {
		t.Fatalf("Check() = %+v", verdict)
	}
}

// Valid SELECTs over expected tables are accepted exactly when they execute.
func TestValidatorAgreesWithExecution(t *testing.T) {
	executor := query.NewExecutor(openSQLiteFixture(t), query.ExecutorConfig{Timeout: 5 * time.Second, MaxRows: 100}, nil)
	validator := NewValidator(executor, nil)

	tests := []struct {
		sql   string
		valid bool
	}{
		{sql: "SELECT a.AssetName, s.SiteName FROM Assets a JOIN Sites s ON a.SiteId = s.SiteId WHERE a.Status = 'Active' AND s.City = 'New York'", valid: true},
		{sql: "SELECT Category, COUNT(*) AS AssetCount FROM Assets GROUP BY Category", valid: true},
		{sql: "SELECT Colour FROM Assets", valid: false},
		{sql: "SELECT * FROM Assets WHERE", valid: false},
		{sql: "SELECT * FROM AssetsArchive", valid: false},
	}
	for _, tc := range tests {
		verdict := validator.Check(context.Background(), tc.sql, []string{"Assets"})
		execution := executor.Execute(context.Background(), tc.sql)
		if verdict.Valid != tc.valid || execution.Success != tc.valid {
			t.Fatalf("%q: verdict=%+v execution.Success=%v, want %v", tc.sql, verdict, execution.Success, tc.valid)
		}
	}
}

type panickingExecutor struct{}

func (panickingExecutor) Execute(context.Context, string) query.ExecutionResult {
	panic("connection pool exploded")
}

func openSQLiteFixture(t *testing.T) *sqlite.Engine {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assets.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	for _, statement := range []string{
		`CREATE TABLE Sites (SiteId INTEGER PRIMARY KEY, SiteName TEXT, City TEXT)`,
		`CREATE TABLE Assets (AssetId INTEGER PRIMARY KEY, AssetTag TEXT, AssetName TEXT, SiteId INTEGER, Category TEXT, Status TEXT, Cost REAL)`,
		`INSERT INTO Sites VALUES (1, 'Headquarters', 'New York'), (2, 'West Coast Office', 'San Francisco')`,
		`INSERT INTO Assets VALUES
			(1, 'AST-0001', 'MacBook Pro', 1, 'Computers', 'Active', 2499),
			(2, 'AST-0002', 'Dell Monitor', 1, 'Computers', 'InRepair', 329),
			(3, 'AST-0003', 'Standing Desk', 1, 'Furniture', 'Active', 780),
			(4, 'AST-0004', 'Forklift', 2, 'Equipment', 'Active', 18500)`,
	} {
		if _, err := db.Exec(statement); err != nil {
			t.Fatalf("fixture %q: %v", statement, err)
		}
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	engine, err := sqlite.Open(context.Background(), sqlite.Config{Path: path})
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}
