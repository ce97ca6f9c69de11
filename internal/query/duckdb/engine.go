package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marcboeker/go-duckdb/v2"
	"golang.org/x/sync/errgroup"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/storage"
)

const downloadConcurrency = 4

type Config struct {
	// DatabasePath opens an existing DuckDB file read-only. When empty the
	// engine materializes the dataset from Store instead.
	DatabasePath  string
	Store         storage.ObjectStore
	DatasetPrefix string
	Tables        []string
	WorkDir       string
	Logger        *slog.Logger
}

// Engine serves queries from a single DuckDB instance kept open for the
// process lifetime. In dataset mode each table is loaded from a local copy
// of its parquet object. Once open, the instance cannot reach files, the
// network or extensions, and its configuration is locked.
type Engine struct {
	db          *sql.DB
	workDir     string
	ownsWorkDir bool
}

func Open(ctx context.Context, cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.DatabasePath) != "" {
		return openDatabaseFile(ctx, cfg.DatabasePath)
	}
	return openDataset(ctx, cfg)
}

func openDatabaseFile(ctx context.Context, path string) (*Engine, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("duckdb database %q: %w", path, err)
	}
	db, err := sql.Open("duckdb", path+"?access_mode=READ_ONLY")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	if err := lockDown(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Engine{db: db}, nil
}

func openDataset(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("at least one table is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workDir := strings.TrimSpace(cfg.WorkDir)
	ownsWorkDir := false
	if workDir == "" {
		dir, err := os.MkdirTemp("", "aichat-duckdb-")
		if err != nil {
			return nil, fmt.Errorf("create dataset temp dir: %w", err)
		}
		workDir = dir
		ownsWorkDir = true
	} else if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("create dataset dir %q: %w", workDir, err)
	}
	cleanup := func() {
		if ownsWorkDir {
			_ = os.RemoveAll(workDir)
		}
	}

	start := time.Now()
	stored, err := storage.DatasetTables(ctx, cfg.Store, cfg.DatasetPrefix)
	if err != nil {
		cleanup()
		return nil, err
	}
	if missing := storage.MissingTables(stored, cfg.Tables); len(missing) > 0 {
		cleanup()
		return nil, fmt.Errorf("dataset %q has no parquet file for tables %s: %w",
			cfg.DatasetPrefix, strings.Join(missing, ", "), storage.ErrObjectNotFound)
	}

	localPaths := make([]string, len(cfg.Tables))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(downloadConcurrency)
	for index, tableName := range cfg.Tables {
		group.Go(func() error {
			localPath, err := downloadTable(groupCtx, cfg.Store, stored[tableName], tableName, workDir)
			if err != nil {
				return err
			}
			localPaths[index] = localPath
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		cleanup()
		return nil, err
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	for index, tableName := range cfg.Tables {
		loadSQL := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS SELECT * FROM read_parquet(%s)`, quoteIdent(tableName), quoteString(localPaths[index]))
		if _, err := db.ExecContext(ctx, loadSQL); err != nil {
			_ = db.Close()
			cleanup()
			return nil, fmt.Errorf("load table %q: %w", tableName, err)
		}
	}
	if err := lockDown(ctx, db); err != nil {
		_ = db.Close()
		cleanup()
		return nil, err
	}

	logger.InfoContext(ctx, "duckdb dataset loaded",
		slog.String("prefix", cfg.DatasetPrefix),
		slog.Int("tables", len(cfg.Tables)),
		slog.String("duration", time.Since(start).String()),
	)
	return &Engine{db: db, workDir: workDir, ownsWorkDir: ownsWorkDir}, nil
}

// lockDown disables file, network and extension access for the whole
// instance and freezes the configuration so a query cannot re-enable it.
func lockDown(ctx context.Context, db *sql.DB) error {
	for _, statement := range []string{
		"SET GLOBAL autoload_known_extensions = false",
		"SET GLOBAL autoinstall_known_extensions = false",
		"SET GLOBAL enable_external_access = false",
		"SET GLOBAL lock_configuration = true",
	} {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("restrict duckdb (%s): %w", statement, err)
		}
	}
	return nil
}

// downloadTable copies one listed dataset object into workDir and checks the
// copy against the listed size.
func downloadTable(ctx context.Context, store storage.ObjectStore, object storage.ObjectInfo, tableName, workDir string) (string, error) {
	reader, err := store.Get(ctx, object.Key)
	if err != nil {
		return "", fmt.Errorf("download table %q: %w", tableName, err)
	}
	defer func() { _ = reader.Close() }()

	localPath := filepath.Join(workDir, sanitizeFileComponent(tableName)+".parquet")
	file, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("create local copy of table %q: %w", tableName, err)
	}
	written, copyErr := io.Copy(file, reader)
	closeErr := file.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		return "", fmt.Errorf("write local copy of table %q: %w", tableName, err)
	}
	if object.Size > 0 && written != object.Size {
		return "", fmt.Errorf("table %q: downloaded %d bytes, listed %d", tableName, written, object.Size)
	}
	return localPath, nil
}

func (e *Engine) Name() string {
	return "duckdb"
}

func (e *Engine) Execute(ctx context.Context, request query.Request) (query.Result, error) {
	if strings.TrimSpace(request.SQL) == "" {
		return query.Result{}, fmt.Errorf("sql is required")
	}
	start := time.Now()
	rows, err := e.db.QueryContext(ctx, request.SQL)
	if err != nil {
		return query.Result{}, fmt.Errorf("execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, values, truncated, err := query.ScanRows(rows, request.MaxRows, normalizeValue)
	if err != nil {
		return query.Result{}, err
	}
	return query.Result{
		Columns:   columns,
		Rows:      values,
		Truncated: truncated,
		Duration:  time.Since(start),
	}, nil
}

func (e *Engine) Ping(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

func (e *Engine) Close() error {
	err := e.db.Close()
	if e.ownsWorkDir {
		if removeErr := os.RemoveAll(e.workDir); removeErr != nil && err == nil {
			err = removeErr
		}
	}
	return err
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case duckdb.Decimal:
		return typed.Float64()
	case *big.Int:
		if typed.IsInt64() {
			return typed.Int64()
		}
		return typed.String()
	default:
		return query.NormalizeValue(value)
	}
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func quoteString(value string) string {
	return `'` + strings.ReplaceAll(value, `'`, `''`) + `'`
}

func sanitizeFileComponent(value string) string {
	value = strings.ReplaceAll(value, "/", "_")
	value = strings.ReplaceAll(value, "..", "_")
	if value == "" {
		return "table"
	}
	return value
}
