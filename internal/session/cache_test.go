package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jonathan/career-assessor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheFactory func(t *testing.T) Cache

func cacheFactories(t *testing.T) map[string]cacheFactory {
	t.Helper()
	factories := map[string]cacheFactory{
		"memory": func(*testing.T) Cache { return NewMemoryCache() },
		"file": func(t *testing.T) Cache {
			c, err := NewFileCache(filepath.Join(t.TempDir(), "session"))
			require.NoError(t, err)
			return c
		},
		"sqlite": func(t *testing.T) Cache {
			c, err := NewSQLiteCache(":memory:", "test")
			require.NoError(t, err)
			return c
		},
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" && !testing.Short() {
		factories["postgres"] = func(t *testing.T) Cache {
			c, err := NewPostgresCache(context.Background(), dsn, "test_"+sanitize(t.Name()))
			require.NoError(t, err)
			return c
		}
	}
	if url := os.Getenv("REDIS_URL"); url != "" && !testing.Short() {
		factories["redis"] = func(t *testing.T) Cache {
			c, err := NewRedisCache(context.Background(), url, "test_"+sanitize(t.Name()))
			require.NoError(t, err)
			return c
		}
	}
	return factories
}

func sanitize(name string) string {
	out := []rune(name)
	for i, r := range out {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			out[i] = '_'
		}
	}
	return string(out)
}

func TestCache_Conformance(t *testing.T) {
	for name, factory := range cacheFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cache := factory(t)
			t.Cleanup(func() {
				_ = cache.Clear(ctx)
				_ = cache.Close()
			})
			require.NoError(t, cache.Clear(ctx))

			got, err := cache.Get(ctx, "last_profile")
			require.NoError(t, err)
			assert.Nil(t, got, "absent key returns nil")

			require.NoError(t, cache.Put(ctx, "last_profile", []byte(`{"name":"Ada"}`)))
			got, err = cache.Get(ctx, "last_profile")
			require.NoError(t, err)
			assert.Equal(t, `{"name":"Ada"}`, string(got))

			require.NoError(t, cache.Put(ctx, "last_profile", []byte(`{"name":"Grace"}`)))
			got, err = cache.Get(ctx, "last_profile")
			require.NoError(t, err)
			assert.Equal(t, `{"name":"Grace"}`, string(got), "put overwrites the whole record")

			require.NoError(t, cache.Put(ctx, "last_report", []byte(`{}`)))
			require.NoError(t, cache.Clear(ctx))
			for _, key := range []string{"last_profile", "last_report"} {
				got, err = cache.Get(ctx, key)
				require.NoError(t, err)
				assert.Nil(t, got, key)
			}

			assert.ErrorIs(t, cache.Put(ctx, "../escape", []byte("x")), ErrInvalidKey)
			_, err = cache.Get(ctx, "a b")
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestMemoryCache_CopiesValues(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache()
	value := []byte("abc")
	require.NoError(t, cache.Put(ctx, "k", value))
	value[0] = 'z'

	got, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
	got[0] = 'y'

	again, _ := cache.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestFileCache_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "session")

	first, err := NewFileCache(dir)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, KeyReport, []byte(`{"ok":true}`)))
	require.NoError(t, first.Close())

	second, err := NewFileCache(dir)
	require.NoError(t, err)
	defer second.Close()
	got, err := second.Get(ctx, KeyReport)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-", "no temp files left behind")
	}
}

func TestFileCache_ConcurrentReadersWithWriter(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	values := map[string]bool{`{"v":1}`: true, `{"v":2}`: true}

	readers, err := NewFileCache(dir)
	require.NoError(t, err)
	defer readers.Close()
	writer, err := NewFileCache(dir)
	require.NoError(t, err)
	defer writer.Close()
	require.NoError(t, writer.Put(ctx, KeyProfile, []byte(`{"v":1}`)))

	var wg sync.WaitGroup
	errs := make(chan error, 200)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got, err := readers.Get(ctx, KeyProfile)
				if err != nil {
					errs <- err
					return
				}
				if !values[string(got)] {
					errs <- assert.AnError
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 20; j++ {
			value := `{"v":1}`
			if j%2 == 0 {
				value = `{"v":2}`
			}
			if err := writer.Put(ctx, KeyProfile, []byte(value)); err != nil {
				errs <- err
				return
			}
		}
	}()
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestSQLiteCache_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	a, err := NewSQLiteCache(path, "alpha")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewSQLiteCache(path, "beta")
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Put(ctx, "k", []byte("from-a")))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, b.Clear(ctx))
	got, err = a.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "from-a", string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		want    any
		wantErr bool
	}{
		{"memory", config.CacheConfig{Driver: config.DriverMemory}, &MemoryCache{}, false},
		{"file", config.CacheConfig{Driver: config.DriverFile, Path: t.TempDir()}, &FileCache{}, false},
		{"sqlite", config.CacheConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "s.db")}, &SQLiteCache{}, false},
		{"unknown", config.CacheConfig{Driver: "etcd"}, nil, true},
		{"file without path", config.CacheConfig{Driver: config.DriverFile}, nil, true},
		{"bad redis url", config.CacheConfig{Driver: config.DriverRedis, DSN: "not-a-url"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, err := Open(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer cache.Close()
			assert.IsType(t, tt.want, cache)
		})
	}
}
