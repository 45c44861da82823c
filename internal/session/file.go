package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

const recordExt = ".json"

// FileCache stores one file per key under a directory. Writes go through a
// temp file and rename so readers never see a partial record, and a lock
// file serializes access across processes. The flock handle is shared, so
// mu admits one operation at a time within the process.
type FileCache struct {
	dir  string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFileCache creates dir if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("file cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return &FileCache{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, key+recordExt)
}

// Put atomically replaces the record for key.
func (c *FileCache) Put(_ context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", c.dir, err)
	}
	defer func() { _ = c.lock.Unlock() }()

	return atomicWrite(c.path(key), value)
}

// Get reads the record for key.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lock.RLock(); err != nil {
		return nil, fmt.Errorf("failed to acquire read lock on %s: %w", c.dir, err)
	}
	defer func() { _ = c.lock.Unlock() }()

	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache record %s: %w", key, err)
	}
	return data, nil
}

// Clear removes every record file, leaving the directory in place.
func (c *FileCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", c.dir, err)
	}
	defer func() { _ = c.lock.Unlock() }()

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, recordExt) || strings.HasPrefix(name, ".tmp-")) {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

// Close releases the lock file handle.
func (c *FileCache) Close() error {
	return c.lock.Close()
}

// atomicWrite writes data to a temp file in the target directory, syncs it
// and renames it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tempFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			_ = tempFile.Close()
			_ = os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0o600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}
