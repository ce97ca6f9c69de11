package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// ObjectInfo describes one stored dataset file. Key is relative to the
// store root, in the same key space Put and Get accept.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

type PutOptions struct {
	ContentType string
}

// ObjectStore holds the parquet files backing the query datasets.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// List returns every object below prefix ordered by key.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Delete is idempotent: a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
