package storage

import (
	"context"
	"testing"
)

func TestBuildDatasetFilePath(t *testing.T) {
	key, err := BuildDatasetFilePath("/datasets/assets/", "PurchaseOrderLines")
	if err != nil {
		t.Fatalf("BuildDatasetFilePath() error = %v", err)
	}
	want := "datasets/assets/PurchaseOrderLines.parquet"
	if key != want {
		t.Fatalf("BuildDatasetFilePath() = %q, want %q", key, want)
	}
}

func TestBuildDatasetFilePathRejectsInvalidComponents(t *testing.T) {
	tests := []struct {
		prefix string
		table  string
	}{
		{prefix: "", table: "Assets"},
		{prefix: "datasets/../etc", table: "Assets"},
		{prefix: "datasets", table: "../Assets"},
		{prefix: "datasets", table: ""},
		{prefix: "datasets//assets", table: "Assets"},
	}
	for _, tc := range tests {
		if _, err := BuildDatasetFilePath(tc.prefix, tc.table); err == nil {
			t.Fatalf("BuildDatasetFilePath(%q, %q) expected error", tc.prefix, tc.table)
		}
	}
}

type listStore struct {
	ObjectStore
	objects []ObjectInfo
	prefix  string
}

func (s *listStore) List(_ context.Context, prefix string) ([]ObjectInfo, error) {
	s.prefix = prefix
	return s.objects, nil
}

func TestDatasetTablesKeepsDirectParquetChildren(t *testing.T) {
	store := &listStore{objects: []ObjectInfo{
		{Key: "datasets/assets/Assets.parquet", Size: 10},
		{Key: "datasets/assets/Sites.parquet", Size: 20},
		{Key: "datasets/assets/archive/Sites.parquet"},
		{Key: "datasets/assets/README.md"},
		{Key: "datasets/assets/..parquet"},
		{Key: "datasets/other/Vendors.parquet"},
	}}

	tables, err := DatasetTables(context.Background(), store, "/datasets/assets/")
	if err != nil {
		t.Fatalf("DatasetTables() error = %v", err)
	}
	if store.prefix != "datasets/assets/" {
		t.Fatalf("listed prefix = %q", store.prefix)
	}
	if len(tables) != 2 || tables["Assets"].Size != 10 || tables["Sites"].Size != 20 {
		t.Fatalf("unexpected tables: %+v", tables)
	}

	missing := MissingTables(tables, []string{"Customers", "Sites", "Vendors"})
	if len(missing) != 2 || missing[0] != "Customers" || missing[1] != "Vendors" {
		t.Fatalf("MissingTables() = %v", missing)
	}
	stale := StaleTables(tables, []string{"Sites"})
	if len(stale) != 1 || stale[0] != "Assets" {
		t.Fatalf("StaleTables() = %v", stale)
	}
}

func TestDatasetTablesRequiresPrefix(t *testing.T) {
	if _, err := DatasetTables(context.Background(), &listStore{}, " / "); err == nil {
		t.Fatal("expected error for empty prefix")
	}
}
