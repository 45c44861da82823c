package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS session_cache (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (namespace, key)
)`

// PostgresCache stores records in a PostgreSQL table shared by namespace.
type PostgresCache struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgresCache connects, verifies the connection and ensures the table exists.
func NewPostgresCache(ctx context.Context, databaseURL, namespace string) (*PostgresCache, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create session_cache table: %w", err)
	}

	return &PostgresCache{pool: pool, namespace: namespaceOrDefault(namespace)}, nil
}

// Put upserts the record for key.
func (c *PostgresCache) Put(ctx context.Context, key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := c.pool.Exec(ctx,
		`INSERT INTO session_cache (namespace, key, value)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		c.namespace, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// Get returns the record for key, or nil when absent.
func (c *PostgresCache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var value []byte
	err := c.pool.QueryRow(ctx,
		`SELECT value FROM session_cache WHERE namespace = $1 AND key = $2`,
		c.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, nil
}

// Clear deletes every record in the namespace.
func (c *PostgresCache) Clear(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, `DELETE FROM session_cache WHERE namespace = $1`, c.namespace); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (c *PostgresCache) Close() error {
	if c.pool != nil {
		c.pool.Close()
	}
	return nil
}
