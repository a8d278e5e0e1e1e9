package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// fileEntry is the on-disk envelope for one cached value.
type fileEntry struct {
	CachedAt time.Time       `json:"cached_at"`
	ExpireAt time.Time       `json:"expire_at"`
	Value    json.RawMessage `json:"value"`
}

// FileCache implements Service on the local filesystem, one JSON file per
// key. It survives process restarts, which lets repeated runs within the
// TTL window skip refetching unchanged candle windows.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-backed cache rooted at the configured dir.
func NewFileCache(opts ...FileOption) (*FileCache, error) {
	cfg := &FileConfig{
		Dir: "results/cache",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: cfg.Dir}, nil
}

func (fc *FileCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	now := time.Now()
	expireAt := now.Add(expiration)
	if expiration <= 0 {
		expireAt = now.Add(7 * 24 * time.Hour)
	}

	entry := fileEntry{CachedAt: now, ExpireAt: expireAt, Value: b}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	// Write-then-rename keeps readers from seeing partial files.
	path := fc.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return os.Rename(tmp, path)
}

func (fc *FileCache) Get(_ context.Context, key string, dest interface{}) error {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrCacheMiss
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entry behaves as a miss; the next Set overwrites it.
		return ErrCacheMiss
	}
	if time.Now().After(entry.ExpireAt) {
		_ = os.Remove(fc.path(key))
		return ErrCacheMiss
	}

	if b, ok := dest.(*[]byte); ok {
		*b = entry.Value
		return nil
	}
	return json.Unmarshal(entry.Value, dest)
}

func (fc *FileCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(fc.path(key)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}
	return nil
}

func (fc *FileCache) Exists(_ context.Context, keys ...string) (bool, error) {
	for _, key := range keys {
		data, err := os.ReadFile(fc.path(key))
		if err != nil {
			continue
		}
		var entry fileEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if time.Now().Before(entry.ExpireAt) {
			return true, nil
		}
	}
	return false, nil
}

func (fc *FileCache) Close() error { return nil }

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, HashKey(key)+".json")
}
