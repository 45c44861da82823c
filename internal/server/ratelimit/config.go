package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/jonathan/career-assessor/internal/config"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	DefaultBurst    int
	CleanupInterval time.Duration
	// IdleTimeout is how long an unused bucket is kept.
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds the limiter configuration from the server settings.
func NewConfig(cfg config.RateLimitConfig) *Config {
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    cfg.RequestsPerMinute,
		DefaultWindow:   time.Minute,
		DefaultBurst:    cfg.Burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(cfg.Whitelist),
		EndpointConfigs: DefaultEndpointConfigs(cfg.GenerationPerMinute),
	}
}

// DefaultEndpointConfigs returns the tighter limits for the two endpoints
// that call a generation service.
func DefaultEndpointConfigs(generationPerMinute int) []EndpointConfig {
	burst := min(2, generationPerMinute)
	return []EndpointConfig{
		{Path: "/assessment/profile", Method: http.MethodPost, Limit: generationPerMinute, Window: time.Minute, Burst: burst},
		{Path: "/assessment/complete", Method: http.MethodPost, Limit: generationPerMinute, Window: time.Minute, Burst: burst},
	}
}

// parseIPList turns a list of addresses into a lookup set.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool, len(list))
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
