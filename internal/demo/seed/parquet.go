package seed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/parquet-go/parquet-go"
	"golang.org/x/sync/errgroup"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/storage"
)

const parquetContentType = "application/vnd.apache.parquet"

func EncodeParquet[T any](rows []T) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[T](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

type UploadSummary struct {
	Keys   []string
	Bytes  int64
	Pruned []string
}

// UploadParquet writes one <prefix>/<Table>.parquet object per table,
// replacing what is there, then deletes parquet files under prefix for
// tables the dataset no longer has.
func UploadParquet(ctx context.Context, store storage.ObjectStore, prefix string, d *Dataset, logger *slog.Logger) (UploadSummary, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tables := d.Tables()
	keys := make([]string, len(tables))
	sizes := make([]int64, len(tables))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for i, table := range tables {
		group.Go(func() error {
			key, err := storage.BuildDatasetFilePath(prefix, table.Name)
			if err != nil {
				return err
			}
			data, err := table.write()
			if err != nil {
				return fmt.Errorf("encode %s: %w", table.Name, err)
			}
			if _, err := store.Put(groupCtx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{ContentType: parquetContentType}); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			logger.InfoContext(groupCtx, "uploaded dataset table",
				slog.String("table", table.Name),
				slog.String("key", key),
				slog.Int("rows", table.Count),
				slog.Int("bytes", len(data)),
			)
			keys[i] = key
			sizes[i] = int64(len(data))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return UploadSummary{}, err
	}

	summary := UploadSummary{Keys: keys}
	for _, size := range sizes {
		summary.Bytes += size
	}

	pruned, err := pruneStaleTables(ctx, store, prefix, tables, logger)
	if err != nil {
		return summary, err
	}
	summary.Pruned = pruned
	return summary, nil
}

func pruneStaleTables(ctx context.Context, store storage.ObjectStore, prefix string, tables []TableRows, logger *slog.Logger) ([]string, error) {
	stored, err := storage.DatasetTables(ctx, store, prefix)
	if err != nil {
		return nil, err
	}
	keep := make([]string, len(tables))
	for i, table := range tables {
		keep[i] = table.Name
	}
	var pruned []string
	for _, name := range storage.StaleTables(stored, keep) {
		key := stored[name].Key
		if err := store.Delete(ctx, key); err != nil {
			return pruned, fmt.Errorf("prune %s: %w", key, err)
		}
		logger.InfoContext(ctx, "pruned stale dataset table", slog.String("table", name), slog.String("key", key))
		pruned = append(pruned, key)
	}
	return pruned, nil
}
