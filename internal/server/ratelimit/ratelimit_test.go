package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/career-assessor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.Now
	return l, clock
}

func TestLimiter_Allow(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("127.0.0.1", "/assessment", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
		assert.Equal(t, 10-i-1, info.Remaining)
	}

	allowed, info := limiter.Allow("127.0.0.1", "/assessment", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter.Round(time.Second))
}

func TestLimiter_Refill(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  60,
		DefaultWindow: time.Minute,
		DefaultBurst:  1,
	})
	defer limiter.Stop()

	allowed, _ := limiter.Allow("c", "/assessment", "GET")
	require.True(t, allowed)
	allowed, _ = limiter.Allow("c", "/assessment", "GET")
	require.False(t, allowed)

	clock.Advance(time.Second)
	allowed, _ = limiter.Allow("c", "/assessment", "GET")
	assert.True(t, allowed, "one token refills per second")
}

func TestLimiter_Whitelist(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"10.0.0.1": true},
	})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/assessment", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter, _ := newTestLimiter(NewConfig(config.RateLimitConfig{Enabled: false}))
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		allowed, info := limiter.Allow("c", "/assessment/profile", "POST")
		require.True(t, allowed)
		assert.Zero(t, info.Limit)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	limiter, _ := newTestLimiter(NewConfig(config.RateLimitConfig{
		Enabled:             true,
		RequestsPerMinute:   100,
		Burst:               50,
		GenerationPerMinute: 6,
	}))
	defer limiter.Stop()

	// Generation endpoints allow a burst of two.
	for i := 0; i < 2; i++ {
		allowed, info := limiter.Allow("c", "/assessment/profile", "POST")
		require.True(t, allowed)
		assert.Equal(t, 6, info.Limit)
	}
	allowed, _ := limiter.Allow("c", "/assessment/profile", "POST")
	assert.False(t, allowed)

	// Buckets are per endpoint.
	allowed, _ = limiter.Allow("c", "/assessment/complete", "POST")
	assert.True(t, allowed)
	allowed, info := limiter.Allow("c", "/assessment/answers", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	// And per client.
	allowed, _ = limiter.Allow("other", "/assessment/profile", "POST")
	assert.True(t, allowed)
}

func TestLimiter_UnlimitedEndpoints(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow("c", "/health", "GET")
		assert.True(t, allowed)
		allowed, _ = limiter.Allow("c", "/metrics", "GET")
		assert.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("c", "/assessment", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowedCount)
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter, clock := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		IdleTimeout:   time.Minute,
	})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		limiter.Allow(fmt.Sprintf("client-%d", i), "/assessment", "GET")
	}
	clock.Advance(2 * time.Minute)
	limiter.Allow("fresh", "/assessment", "GET")

	limiter.cleanupVisitors()

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "fresh:/assessment:GET")
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Minute})
	limiter.Stop()
	assert.NotPanics(t, limiter.Stop)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("c", "/assessment", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/assessment/profile", Method: "POST", Limit: 1},
		{Path: "/admin/", Method: "POST", Limit: 2},
	}

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"exact", "/assessment/profile", "POST", 1, false},
		{"method mismatch", "/assessment/profile", "GET", 0, true},
		{"prefix", "/admin/reset", "POST", 2, false},
		{"health", "/health", "GET", 0, false},
		{"no match", "/assessment", "GET", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.RateLimitConfig{
		Enabled:             true,
		RequestsPerMinute:   120,
		Burst:               20,
		GenerationPerMinute: 1,
		Whitelist:           []string{" 127.0.0.1 ", ""},
	})

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 120, cfg.DefaultLimit)
	assert.Equal(t, 20, cfg.DefaultBurst)
	assert.Equal(t, map[string]bool{"127.0.0.1": true}, cfg.Whitelist)
	require.Len(t, cfg.EndpointConfigs, 2)
	assert.Equal(t, 1, cfg.EndpointConfigs[0].Burst, "burst never exceeds the limit")
}
