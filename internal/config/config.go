// Package config provides configuration loading and validation for the assessor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/career-assessor/internal/llm"
	"github.com/jonathan/career-assessor/internal/scoring"
	"github.com/jonathan/career-assessor/internal/types"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. ASSESSOR_CACHE_DRIVER.
const EnvPrefix = "ASSESSOR"

// Cache drivers
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config is the full assessor configuration. It can be loaded from a JSON or
// YAML file and every key can be overridden from the environment.
type Config struct {
	LLM           LLMConfig           `json:"llm" mapstructure:"llm"`
	Assessment    AssessmentConfig    `json:"assessment" mapstructure:"assessment"`
	ProfilePolicy types.ProfilePolicy `json:"profile_policy" mapstructure:"profile_policy"`
	Cache         CacheConfig         `json:"cache" mapstructure:"cache"`
	Log           LogConfig           `json:"log" mapstructure:"log"`
	Server        ServerConfig        `json:"server" mapstructure:"server"`
}

// LLMConfig selects the generation backend
type LLMConfig struct {
	APIKey         string            `json:"api_key,omitempty" mapstructure:"api_key"`
	Offline        bool              `json:"offline" mapstructure:"offline"`
	QuestionTier   string            `json:"question_tier" mapstructure:"question_tier"`
	ReportTier     string            `json:"report_tier" mapstructure:"report_tier"`
	Models         map[string]string `json:"models,omitempty" mapstructure:"models"`
	Temperature    float32           `json:"temperature,omitempty" mapstructure:"temperature"`
	TimeoutSeconds int               `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// AssessmentConfig holds the question plan and normalization ceilings
type AssessmentConfig struct {
	// Limits is keyed by category name. Keys are matched case-insensitively
	// because viper folds map keys to lower case.
	Limits       map[string]scoring.CategoryLimit `json:"limits" mapstructure:"limits"`
	Language     string                           `json:"language" mapstructure:"language"`
	QuestionBank string                           `json:"question_bank,omitempty" mapstructure:"question_bank"`
}

// CacheConfig selects and addresses the session cache backend
type CacheConfig struct {
	Driver    string `json:"driver" mapstructure:"driver"`
	Path      string `json:"path,omitempty" mapstructure:"path"`
	DSN       string `json:"dsn,omitempty" mapstructure:"dsn"`
	Namespace string `json:"namespace" mapstructure:"namespace"`
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level      string `json:"level" mapstructure:"level"`
	File       string `json:"file,omitempty" mapstructure:"file"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
}

// ServerConfig controls the HTTP adapter
type ServerConfig struct {
	Port           int             `json:"port" mapstructure:"port"`
	AllowedOrigins []string        `json:"allowed_origins,omitempty" mapstructure:"allowed_origins"`
	RateLimit      RateLimitConfig `json:"rate_limit" mapstructure:"rate_limit"`
}

// RateLimitConfig sets token-bucket sizes per client
type RateLimitConfig struct {
	Enabled             bool `json:"enabled" mapstructure:"enabled"`
	RequestsPerMinute   int  `json:"requests_per_minute" mapstructure:"requests_per_minute"`
	Burst               int  `json:"burst" mapstructure:"burst"`
	GenerationPerMinute int  `json:"generation_per_minute" mapstructure:"generation_per_minute"`

	// Whitelist lists client IPs that are never limited.
	Whitelist []string `json:"whitelist,omitempty" mapstructure:"whitelist"`
}

// Default returns the built-in configuration.
func Default() Config {
	limits := make(map[string]scoring.CategoryLimit)
	for cat, limit := range scoring.DefaultLimits() {
		limits[string(cat)] = limit
	}
	return Config{
		LLM: LLMConfig{
			QuestionTier:   string(llm.TierStandard),
			ReportTier:     string(llm.TierAdvanced),
			TimeoutSeconds: int(llm.DefaultRequestTimeout / time.Second),
		},
		Assessment: AssessmentConfig{
			Limits:   limits,
			Language: "en",
		},
		ProfilePolicy: types.DefaultProfilePolicy(),
		Cache: CacheConfig{
			Driver:    DriverFile,
			Path:      DefaultCachePath(),
			Namespace: "assessor",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:             true,
				RequestsPerMinute:   120,
				Burst:               20,
				GenerationPerMinute: 6,
			},
		},
	}
}

// DefaultCachePath places the session cache under the user's config directory.
func DefaultCachePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return filepath.Join(".assessor", "session")
	}
	return filepath.Join(dir, "career-assessor", "session")
}

// LoadConfig reads path (JSON or YAML, by extension) on top of the defaults
// and applies ASSESSOR_* environment overrides. An empty path loads defaults
// and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("cache.dsn", EnvPrefix+"_CACHE_DSN", "DATABASE_URL")

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.offline", d.LLM.Offline)
	v.SetDefault("llm.question_tier", d.LLM.QuestionTier)
	v.SetDefault("llm.report_tier", d.LLM.ReportTier)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.timeout_seconds", d.LLM.TimeoutSeconds)

	limits := make(map[string]any, len(d.Assessment.Limits))
	for name, limit := range d.Assessment.Limits {
		limits[name] = map[string]any{"questions": limit.Questions, "max_points": limit.MaxPoints}
	}
	v.SetDefault("assessment.limits", limits)
	v.SetDefault("assessment.language", d.Assessment.Language)
	v.SetDefault("assessment.question_bank", d.Assessment.QuestionBank)

	v.SetDefault("profile_policy.require_name", d.ProfilePolicy.RequireName)
	v.SetDefault("profile_policy.require_contact", d.ProfilePolicy.RequireContact)
	v.SetDefault("profile_policy.require_education", d.ProfilePolicy.RequireEducation)
	v.SetDefault("profile_policy.min_skills", d.ProfilePolicy.MinSkills)
	v.SetDefault("profile_policy.min_interests", d.ProfilePolicy.MinInterests)

	v.SetDefault("cache.driver", d.Cache.Driver)
	v.SetDefault("cache.path", d.Cache.Path)
	v.SetDefault("cache.dsn", d.Cache.DSN)
	v.SetDefault("cache.namespace", d.Cache.Namespace)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)

	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)
	v.SetDefault("server.rate_limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate_limit.requests_per_minute", d.Server.RateLimit.RequestsPerMinute)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("server.rate_limit.generation_per_minute", d.Server.RateLimit.GenerationPerMinute)
	v.SetDefault("server.rate_limit.whitelist", []string{})
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if _, err := c.Assessment.ScoringLimits(); err != nil {
		return err
	}

	for _, tier := range []string{c.LLM.QuestionTier, c.LLM.ReportTier} {
		if !validTier(tier) {
			return fmt.Errorf("config error: unknown model tier %q", tier)
		}
	}
	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'llm.timeout_seconds' must be non-negative")
	}

	if c.ProfilePolicy.MinSkills < 0 || c.ProfilePolicy.MinInterests < 0 {
		return fmt.Errorf("config error: profile policy minimums must be non-negative")
	}

	switch c.Cache.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("config error: cache driver %q requires 'cache.path'", c.Cache.Driver)
		}
	case DriverPostgres, DriverRedis:
		if c.Cache.DSN == "" {
			return fmt.Errorf("config error: cache driver %q requires 'cache.dsn'", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("config error: unknown cache driver %q", c.Cache.Driver)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.Log.Level)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 0 and 65535")
	}
	rl := c.Server.RateLimit
	if rl.Enabled && (rl.RequestsPerMinute <= 0 || rl.Burst <= 0 || rl.GenerationPerMinute <= 0) {
		return fmt.Errorf("config error: rate limits must be positive when enabled")
	}

	return nil
}

func validTier(tier string) bool {
	switch llm.ModelTier(tier) {
	case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		return true
	}
	return false
}

// ScoringLimits resolves the configured limits to categories. Every
// category must be present and non-negative.
func (a AssessmentConfig) ScoringLimits() (scoring.Limits, error) {
	limits := make(scoring.Limits, len(a.Limits))
	for name, limit := range a.Limits {
		cat, ok := lookupCategory(name)
		if !ok {
			return nil, fmt.Errorf("config error: unknown category %q in 'assessment.limits'", name)
		}
		if limit.Questions < 0 || limit.MaxPoints < 0 {
			return nil, fmt.Errorf("config error: limits for %s must be non-negative", cat)
		}
		limits[cat] = limit
	}
	for _, cat := range types.AllCategories() {
		if _, ok := limits[cat]; !ok {
			return nil, fmt.Errorf("config error: 'assessment.limits' is missing %s", cat)
		}
	}
	if limits.TotalQuestions() == 0 {
		return nil, fmt.Errorf("config error: 'assessment.limits' allocates no questions")
	}
	return limits, nil
}

func lookupCategory(name string) (types.Category, bool) {
	for _, cat := range types.AllCategories() {
		if strings.EqualFold(string(cat), name) {
			return cat, true
		}
	}
	return "", false
}

// ModelConfig builds the LLM client configuration with any model overrides applied.
func (l LLMConfig) ModelConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	for tier, model := range l.Models {
		if model != "" {
			cfg = cfg.WithModel(llm.ModelTier(strings.ToLower(tier)), model)
		}
	}
	if l.Temperature > 0 {
		cfg.Temperature = l.Temperature
	}
	if l.TimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(l.TimeoutSeconds) * time.Second
	}
	return cfg
}

// UseOffline reports whether the offline generators should be used.
func (l LLMConfig) UseOffline() bool {
	return l.Offline || l.APIKey == ""
}

// MergeWithDefaults returns a copy with zero-valued fields filled from defaults.
// Boolean fields cannot distinguish unset from false and are not merged.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.LLM.QuestionTier == "" {
		result.LLM.QuestionTier = defaults.LLM.QuestionTier
	}
	if result.LLM.ReportTier == "" {
		result.LLM.ReportTier = defaults.LLM.ReportTier
	}
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.LLM.TimeoutSeconds == 0 {
		result.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}

	if len(result.Assessment.Limits) == 0 {
		result.Assessment.Limits = make(map[string]scoring.CategoryLimit, len(defaults.Assessment.Limits))
		for k, v := range defaults.Assessment.Limits {
			result.Assessment.Limits[k] = v
		}
	}
	if result.Assessment.Language == "" {
		result.Assessment.Language = defaults.Assessment.Language
	}
	if result.Assessment.QuestionBank == "" {
		result.Assessment.QuestionBank = defaults.Assessment.QuestionBank
	}

	if result.Cache.Driver == "" {
		result.Cache.Driver = defaults.Cache.Driver
	}
	if result.Cache.Path == "" {
		result.Cache.Path = defaults.Cache.Path
	}
	if result.Cache.DSN == "" {
		result.Cache.DSN = defaults.Cache.DSN
	}
	if result.Cache.Namespace == "" {
		result.Cache.Namespace = defaults.Cache.Namespace
	}

	if result.Log.Level == "" {
		result.Log.Level = defaults.Log.Level
	}
	if result.Log.File == "" {
		result.Log.File = defaults.Log.File
	}
	if result.Log.MaxSizeMB == 0 {
		result.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if result.Log.MaxBackups == 0 {
		result.Log.MaxBackups = defaults.Log.MaxBackups
	}
	if result.Log.MaxAgeDays == 0 {
		result.Log.MaxAgeDays = defaults.Log.MaxAgeDays
	}

	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if result.Server.RateLimit.RequestsPerMinute == 0 {
		result.Server.RateLimit.RequestsPerMinute = defaults.Server.RateLimit.RequestsPerMinute
	}
	if result.Server.RateLimit.Burst == 0 {
		result.Server.RateLimit.Burst = defaults.Server.RateLimit.Burst
	}
	if result.Server.RateLimit.GenerationPerMinute == 0 {
		result.Server.RateLimit.GenerationPerMinute = defaults.Server.RateLimit.GenerationPerMinute
	}

	return result
}
