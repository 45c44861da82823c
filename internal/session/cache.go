// Package session persists the last completed assessment so it survives a
// restart. A Cache stores opaque records; Store gives them meaning.
package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jonathan/career-assessor/internal/config"
)

// Cache is a small durable key-value store. Get returns (nil, nil) for an
// absent key. Put overwrites the whole record.
type Cache interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Clear(ctx context.Context) error
	Close() error
}

// ErrInvalidKey is returned for keys outside [A-Za-z0-9_-].
var ErrInvalidKey = errors.New("invalid cache key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func checkKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open builds the cache selected by cfg.Driver.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return NewMemoryCache(), nil
	case config.DriverFile:
		return NewFileCache(cfg.Path)
	case config.DriverSQLite:
		return NewSQLiteCache(cfg.Path, cfg.Namespace)
	case config.DriverPostgres:
		return NewPostgresCache(ctx, cfg.DSN, cfg.Namespace)
	case config.DriverRedis:
		return NewRedisCache(ctx, cfg.DSN, cfg.Namespace)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
