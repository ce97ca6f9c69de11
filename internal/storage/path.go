package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
)

const datasetFileExt = ".parquet"

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildDatasetFilePath returns the object key holding one table of a dataset,
// e.g. "datasets/assets/Sites.parquet".
func BuildDatasetFilePath(prefix, tableName string) (string, error) {
	components, err := splitPrefix(prefix)
	if err != nil {
		return "", err
	}
	if err := validatePathComponent(tableName, "table name"); err != nil {
		return "", err
	}
	return path.Join(append(components, tableName+datasetFileExt)...), nil
}

// DatasetTables maps each table stored directly below prefix to its object.
// Nested objects and non-parquet files are ignored.
func DatasetTables(ctx context.Context, store ObjectStore, prefix string) (map[string]ObjectInfo, error) {
	components, err := splitPrefix(prefix)
	if err != nil {
		return nil, err
	}
	dir := path.Join(components...) + "/"
	objects, err := store.List(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("list dataset %q: %w", dir, err)
	}
	tables := make(map[string]ObjectInfo, len(objects))
	for _, object := range objects {
		name, ok := tableFromKey(dir, object.Key)
		if !ok {
			continue
		}
		tables[name] = object
	}
	return tables, nil
}

// MissingTables returns the wanted tables absent from tables, in the order
// they were wanted.
func MissingTables(tables map[string]ObjectInfo, wanted []string) []string {
	var missing []string
	for _, name := range wanted {
		if _, ok := tables[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// StaleTables returns the stored tables not listed in keep, sorted by name.
func StaleTables(tables map[string]ObjectInfo, keep []string) []string {
	wanted := make(map[string]struct{}, len(keep))
	for _, name := range keep {
		wanted[name] = struct{}{}
	}
	var stale []string
	for name := range tables {
		if _, ok := wanted[name]; !ok {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	return stale
}

func tableFromKey(dir, key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, dir)
	if !ok || strings.Contains(rest, "/") {
		return "", false
	}
	name, ok := strings.CutSuffix(rest, datasetFileExt)
	if !ok || validatePathComponent(name, "table name") != nil {
		return "", false
	}
	return name, true
}

func splitPrefix(prefix string) ([]string, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, fmt.Errorf("dataset prefix is required")
	}
	parts := strings.Split(prefix, "/")
	for _, part := range parts {
		if err := validatePathComponent(part, "dataset prefix component"); err != nil {
			return nil, err
		}
	}
	return parts, nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
