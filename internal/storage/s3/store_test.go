package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/nooreldeenmagdy/ai-chat-service/internal/storage"
)

func TestStoreResolvesKeysBelowRoot(t *testing.T) {
	bucket := newMemoryBucket()
	store, err := newStore(" aichat-data ", "/aichat/prod/", bucket)
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}

	info, err := store.Put(context.Background(), "/datasets/assets/Sites.parquet", bytes.NewBufferString("abc"), 3, storage.PutOptions{ContentType: "application/vnd.apache.parquet"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if _, ok := bucket.objects["aichat/prod/datasets/assets/Sites.parquet"]; !ok {
		t.Fatalf("objects = %v", bucket.keys())
	}
	if info.Key != "datasets/assets/Sites.parquet" {
		t.Fatalf("Put().Key = %q", info.Key)
	}
	if bucket.contentTypes["aichat/prod/datasets/assets/Sites.parquet"] != "application/vnd.apache.parquet" {
		t.Fatalf("content type not forwarded: %v", bucket.contentTypes)
	}

	stat, err := store.Stat(context.Background(), "datasets/assets/Sites.parquet")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if stat.Key != "datasets/assets/Sites.parquet" || stat.Size != 3 {
		t.Fatalf("Stat() = %+v", stat)
	}
	if store.Bucket() != "aichat-data" {
		t.Fatalf("Bucket() = %q", store.Bucket())
	}
}

func TestStoreRejectsKeysEscapingRoot(t *testing.T) {
	store, err := newStore("bucket-a", "aichat", newMemoryBucket())
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}
	for _, key := range []string{"", "/", "..", "../secrets.txt", "datasets/../../secrets.txt"} {
		if _, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), 1, storage.PutOptions{}); err == nil {
			t.Fatalf("Put(%q) expected error", key)
		}
	}
}

func TestListReturnsStoreRelativeKeys(t *testing.T) {
	bucket := newMemoryBucket()
	bucket.put("aichat/datasets/assets/Assets.parquet", "a")
	bucket.put("aichat/datasets/assets/Sites.parquet", "bb")
	bucket.put("aichat/datasets/other/Vendors.parquet", "c")
	bucket.put("unrelated/datasets/assets/Items.parquet", "d")
	store, err := newStore("bucket-a", "aichat", bucket)
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}

	objects, err := store.List(context.Background(), "datasets/assets/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(objects) != 2 || objects[0].Key != "datasets/assets/Assets.parquet" || objects[1].Size != 2 {
		t.Fatalf("List() = %+v", objects)
	}

	all, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(\"\") = %+v", all)
	}

	tables, err := storage.DatasetTables(context.Background(), store, "datasets/assets")
	if err != nil {
		t.Fatalf("DatasetTables() error = %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("DatasetTables() = %+v", tables)
	}
}

func TestMissingObjectsMapToErrObjectNotFound(t *testing.T) {
	store, err := newStore("bucket-a", "", newMemoryBucket())
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}
	if _, err := store.Get(context.Background(), "datasets/assets/Sites.parquet"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := store.Stat(context.Background(), "datasets/assets/Sites.parquet"); !errors.Is(err, storage.ErrObjectNotFound) {
		t.Fatalf("Stat() error = %v", err)
	}
	if err := store.Delete(context.Background(), "datasets/assets/Sites.parquet"); err != nil {
		t.Fatalf("Delete() of missing object error = %v", err)
	}
}

func TestCreateBucketIfMissing(t *testing.T) {
	bucket := newMemoryBucket()
	bucket.exists = false
	store, err := newStore("bucket-a", "", bucket)
	if err != nil {
		t.Fatalf("newStore() error = %v", err)
	}
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("expected Ping() error for missing bucket")
	}
	if err := store.createBucketIfMissing(context.Background(), "us-east-1"); err != nil {
		t.Fatalf("createBucketIfMissing() error = %v", err)
	}
	if bucket.madeRegion != "us-east-1" {
		t.Fatalf("MakeBucket region = %q", bucket.madeRegion)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestNewStoreRequiresBucket(t *testing.T) {
	if _, err := newStore(" ", "", newMemoryBucket()); err == nil {
		t.Fatal("expected error for empty bucket")
	}
	if _, err := newStore("bucket-a", "", nil); err == nil {
		t.Fatal("expected error for nil api")
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw     string
		useSSL  bool
		host    string
		secure  bool
		wantErr bool
	}{
		{raw: "localhost:9000", host: "localhost:9000"},
		{raw: "minio:9000", useSSL: true, host: "minio:9000", secure: true},
		{raw: "https://minio.example.com", host: "minio.example.com", secure: true},
		{raw: "http://minio.example.com:9000", host: "minio.example.com:9000"},
		{raw: "ftp://minio.example.com", wantErr: true},
		{raw: "https://", wantErr: true},
		{raw: " ", wantErr: true},
	}
	for _, tc := range tests {
		host, secure, err := parseEndpoint(tc.raw, tc.useSSL)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseEndpoint(%q) expected error", tc.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseEndpoint(%q) error = %v", tc.raw, err)
		}
		if host != tc.host || secure != tc.secure {
			t.Fatalf("parseEndpoint(%q) = %q/%v, want %q/%v", tc.raw, host, secure, tc.host, tc.secure)
		}
	}
}

type memoryBucket struct {
	objects      map[string][]byte
	contentTypes map[string]string
	exists       bool
	madeRegion   string
}

func newMemoryBucket() *memoryBucket {
	return &memoryBucket{objects: map[string][]byte{}, contentTypes: map[string]string{}, exists: true}
}

func (m *memoryBucket) put(key, body string) {
	m.objects[key] = []byte(body)
}

func (m *memoryBucket) keys() []string {
	keys := make([]string, 0, len(m.objects))
	for key := range m.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (m *memoryBucket) PutObject(_ context.Context, _, key string, body io.Reader, _ int64, contentType string) (storage.ObjectInfo, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return storage.ObjectInfo{}, err
	}
	m.objects[key] = data
	m.contentTypes[key] = contentType
	return storage.ObjectInfo{Key: key, Size: int64(len(data)), ETag: "etag"}, nil
}

func (m *memoryBucket) GetObject(_ context.Context, _, key string) (io.ReadCloser, error) {
	data, ok := m.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryBucket) StatObject(_ context.Context, _, key string) (storage.ObjectInfo, error) {
	data, ok := m.objects[key]
	if !ok {
		return storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return storage.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (m *memoryBucket) ListObjects(_ context.Context, _, prefix string) ([]storage.ObjectInfo, error) {
	var out []storage.ObjectInfo
	for _, key := range m.keys() {
		if strings.HasPrefix(key, prefix) {
			out = append(out, storage.ObjectInfo{Key: key, Size: int64(len(m.objects[key]))})
		}
	}
	return out, nil
}

func (m *memoryBucket) RemoveObject(_ context.Context, _, key string) error {
	if _, ok := m.objects[key]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memoryBucket) BucketExists(context.Context, string) (bool, error) {
	return m.exists, nil
}

func (m *memoryBucket) MakeBucket(_ context.Context, _, region string) error {
	m.madeRegion = region
	m.exists = true
	return nil
}
