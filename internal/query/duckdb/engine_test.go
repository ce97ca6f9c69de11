package duckdb

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/query"
	"github.com/nooreldeenmagdy/ai-chat-service/internal/storage"
)

type siteRow struct {
	SiteID   int64  `parquet:"SiteId"`
	SiteName string `parquet:"SiteName"`
	City     string `parquet:"City"`
}

type assetRow struct {
	AssetID   int64   `parquet:"AssetId"`
	AssetName string  `parquet:"AssetName"`
	SiteID    int64   `parquet:"SiteId"`
	Cost      float64 `parquet:"Cost"`
}

func TestOpenDatasetLoadsEveryTable(t *testing.T) {
	store := newDatasetStore(t)
	engine, err := Open(context.Background(), Config{
		Store:         store,
		DatasetPrefix: "datasets/assets",
		Tables:        []string{"Sites", "Assets"},
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	result, err := engine.Execute(context.Background(), query.Request{
		SQL: `SELECT s.SiteName, COUNT(*) AS AssetCount
FROM Assets a JOIN Sites s ON a.SiteId = s.SiteId
WHERE s.City = 'New York'
GROUP BY s.SiteName`,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows = %d", len(result.Rows))
	}
	if result.Rows[0][0] != "Headquarters" || result.Rows[0][1] != int64(2) {
		t.Fatalf("unexpected row: %#v", result.Rows[0])
	}
	if result.Columns[1] != "AssetCount" {
		t.Fatalf("columns = %v", result.Columns)
	}
}

func TestExecuteHonoursMaxRowsAndOrder(t *testing.T) {
	engine := openTestEngine(t)

	result, err := engine.Execute(context.Background(), query.Request{
		SQL:     "SELECT AssetName FROM Assets ORDER BY Cost DESC",
		MaxRows: 2,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Rows) != 2 || !result.Truncated {
		t.Fatalf("expected 2 truncated rows, got %d truncated=%v", len(result.Rows), result.Truncated)
	}
	if result.Rows[0][0] != "Server Rack" || result.Rows[1][0] != "MacBook Pro" {
		t.Fatalf("unexpected order: %#v", result.Rows)
	}
}

func TestExecuteNormalizesDecimals(t *testing.T) {
	engine := openTestEngine(t)

	result, err := engine.Execute(context.Background(), query.Request{SQL: "SELECT CAST(12.50 AS DECIMAL(10,2)) AS Amount"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Rows[0][0] != 12.5 {
		t.Fatalf("decimal = %#v", result.Rows[0][0])
	}
}

func TestExecuteReportsUnknownTables(t *testing.T) {
	engine := openTestEngine(t)

	if _, err := engine.Execute(context.Background(), query.Request{SQL: "SELECT * FROM Vendors"}); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestOpenDatasetFailsOnMissingObject(t *testing.T) {
	store := newDatasetStore(t)
	_, err := Open(context.Background(), Config{
		Store:         store,
		DatasetPrefix: "datasets/assets",
		Tables:        []string{"Sites", "Vendors"},
	})
	if !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Open() error = %v, want ErrObjectNotFound", err)
	}
	if !strings.Contains(err.Error(), "Vendors") || strings.Contains(err.Error(), "Sites") {
		t.Fatalf("Open() error should name only the missing table: %v", err)
	}
}

func TestCloseRemovesOwnedWorkDir(t *testing.T) {
	engine := openTestEngine(t)
	workDir := engine.workDir
	if _, err := os.Stat(filepath.Join(workDir, "Assets.parquet")); err != nil {
		t.Fatalf("expected local parquet copy: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Fatalf("work dir still present: %v", err)
	}
}

func TestDatasetEngineCannotReachHostFiles(t *testing.T) {
	secretPath := filepath.Join(t.TempDir(), "secret.env")
	if err := os.WriteFile(secretPath, []byte("LLM_API_KEY=sk-live\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	executor := query.NewExecutor(openTestEngine(t), query.ExecutorConfig{}, nil)

	for _, sqlText := range []string{
		"SELECT f.content, a.AssetName FROM read_text('" + secretPath + "') f, Assets a LIMIT 1",
		"SELECT * FROM read_csv('" + secretPath + "') JOIN Assets ON true",
		"SELECT * FROM Assets WHERE AssetName IN (SELECT content FROM read_text('" + secretPath + "'))",
	} {
		result := executor.Execute(context.Background(), sqlText)
		if result.Success {
			t.Fatalf("Execute(%q) read a host file: %#v", sqlText, result.Rows)
		}
	}

	result := executor.Execute(context.Background(), "SELECT COUNT(*) FROM Assets")
	if !result.Success || result.Rows[0][0] != int64(3) {
		t.Fatalf("dataset query after lock down = %+v", result)
	}
}

func TestDatasetEngineConfigurationIsLocked(t *testing.T) {
	engine := openTestEngine(t)
	if _, err := engine.Execute(context.Background(), query.Request{SQL: "SET enable_external_access = true"}); err == nil {
		t.Fatal("expected locked configuration to reject SET")
	}
}

func TestOpenDatabaseFileIsReadOnlyAndIsolated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "assets.duckdb")
	seed, err := sql.Open("duckdb", path)
	if err != nil {
		t.Fatalf("open seed db: %v", err)
	}
	for _, statement := range []string{
		`CREATE TABLE Sites (SiteId INTEGER, SiteName VARCHAR)`,
		`INSERT INTO Sites VALUES (1, 'Headquarters')`,
	} {
		if _, err := seed.Exec(statement); err != nil {
			t.Fatalf("seed %q: %v", statement, err)
		}
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("close seed db: %v", err)
	}
	secretPath := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secretPath, []byte("top secret"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}

	engine, err := Open(context.Background(), Config{DatabasePath: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	executor := query.NewExecutor(engine, query.ExecutorConfig{}, nil)

	if result := executor.Execute(context.Background(), "SELECT SiteName FROM Sites"); !result.Success || result.Rows[0][0] != "Headquarters" {
		t.Fatalf("Sites query = %+v", result)
	}
	if result := executor.Execute(context.Background(), "SELECT content, SiteName FROM read_text('"+secretPath+"'), Sites"); result.Success {
		t.Fatalf("database file engine read a host file: %#v", result.Rows)
	}
	if _, err := engine.Execute(context.Background(), query.Request{SQL: "INSERT INTO Sites VALUES (2, 'Depot')"}); err == nil {
		t.Fatal("expected write to read-only database to fail")
	}
}

func TestOpenDatabaseFileRequiresExistingFile(t *testing.T) {
	_, err := Open(context.Background(), Config{DatabasePath: filepath.Join(t.TempDir(), "missing.duckdb")})
	if err == nil {
		t.Fatal("expected error for missing database file")
	}
}

func openTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := Open(context.Background(), Config{
		Store:         newDatasetStore(t),
		DatasetPrefix: "datasets/assets",
		Tables:        []string{"Sites", "Assets"},
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })
	return engine
}

func newDatasetStore(t *testing.T) *memoryStore {
	t.Helper()
	sites, err := buildParquet([]siteRow{
		{SiteID: 1, SiteName: "Headquarters", City: "New York"},
		{SiteID: 2, SiteName: "Data Center", City: "Chicago"},
	})
	if err != nil {
		t.Fatalf("buildParquet(sites) error = %v", err)
	}
	assets, err := buildParquet([]assetRow{
		{AssetID: 1, AssetName: "MacBook Pro", SiteID: 1, Cost: 2499},
		{AssetID: 2, AssetName: "Office Chair", SiteID: 1, Cost: 349},
		{AssetID: 3, AssetName: "Server Rack", SiteID: 2, Cost: 8200},
	})
	if err != nil {
		t.Fatalf("buildParquet(assets) error = %v", err)
	}
	return &memoryStore{objects: map[string][]byte{
		"datasets/assets/Sites.parquet":  sites,
		"datasets/assets/Assets.parquet": assets,
	}}
}

func buildParquet[T any](rows []T) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[T](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type memoryStore struct {
	objects map[string][]byte
}

func (m *memoryStore) Put(context.Context, string, io.Reader, int64, storage.PutOptions) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (m *memoryStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	payload, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(payload)), nil
}

func (m *memoryStore) Stat(_ context.Context, key string) (storage.ObjectInfo, error) {
	payload, ok := m.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(payload))}, nil
}

func (m *memoryStore) List(_ context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for key, payload := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(payload))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStore) Delete(context.Context, string) error {
	return nil
}
