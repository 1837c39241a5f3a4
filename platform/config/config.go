// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerSec() float64
	GetRateLimitBurst() int
	GetMaxUploadBytes() int64
}

// RedisConfig provides settings for the Redis-backed intent cache.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	IsRedisEnabled() bool
}

// IntentConfig provides settings for the intent classifier.
type IntentConfig interface {
	GetIntentAPIKey() string
	GetIntentBaseURL() string
	GetIntentModel() string
	GetIntentTimeout() time.Duration
	GetIntentRatePerSec() float64
	GetIntentCacheTTL() time.Duration
	IsLLMIntentEnabled() bool
}

// ScoringConfig provides settings for the scoring engine.
type ScoringConfig interface {
	GetScoringRulesFile() string
	GetPhoneDefaultRegion() string
}

// TierConfig provides tier thresholds and the intent downgrade policy.
type TierConfig interface {
	GetTierHotMin() int
	GetTierMediumMin() int
	GetTierLowMin() int
	GetIntentDowngradeLabels() []string
}

// ProcessingConfig provides batch processing limits.
type ProcessingConfig interface {
	GetScoringConcurrency() int
}

// MinIOConfig provides settings for archiving uploaded files to S3-compatible storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketLeadUploads() string
	IsMinIOEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string `validate:"required"`
	HTTPAddr               string `validate:"required"`
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	RateLimitPerSec        float64 `validate:"gte=0"`
	RateLimitBurst         int     `validate:"gte=0"`
	MaxUploadBytes         int64   `validate:"gt=0"`
	DatabaseURL            string
	RedisURL               string
	RedisTLSInsecure       bool
	IntentAPIKey           string
	IntentBaseURL          string `validate:"omitempty,url"`
	IntentModel            string
	IntentTimeout          time.Duration `validate:"gt=0"`
	IntentRatePerSec       float64       `validate:"gte=0"`
	IntentCacheTTL         time.Duration `validate:"gte=0"`
	ScoringRulesFile       string
	PhoneDefaultRegion     string `validate:"omitempty,len=2"`
	TierHotMin             int    `validate:"gt=0,lte=100"`
	TierMediumMin          int    `validate:"gt=0,ltfield=TierHotMin"`
	TierLowMin             int    `validate:"gt=0,ltfield=TierMediumMin"`
	IntentDowngradeLabels  []string
	ScoringConcurrency     int `validate:"gte=1,lte=256"`
	MinIOEndpoint          string
	MinIOAccessKey         string
	MinIOSecretKey         string
	MinIOUseSSL            bool
	MinioBucketLeadUploads string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string  { return c.DatabaseURL }
func (c *Config) IsDatabaseEnabled() bool { return c.DatabaseURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string         { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool       { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string    { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool     { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerSec() float64 { return c.RateLimitPerSec }
func (c *Config) GetRateLimitBurst() int      { return c.RateLimitBurst }
func (c *Config) GetMaxUploadBytes() int64    { return c.MaxUploadBytes }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }
func (c *Config) IsRedisEnabled() bool      { return c.RedisURL != "" }

// IntentConfig implementation
func (c *Config) GetIntentAPIKey() string          { return c.IntentAPIKey }
func (c *Config) GetIntentBaseURL() string         { return c.IntentBaseURL }
func (c *Config) GetIntentModel() string           { return c.IntentModel }
func (c *Config) GetIntentTimeout() time.Duration  { return c.IntentTimeout }
func (c *Config) GetIntentRatePerSec() float64     { return c.IntentRatePerSec }
func (c *Config) GetIntentCacheTTL() time.Duration { return c.IntentCacheTTL }
func (c *Config) IsLLMIntentEnabled() bool         { return c.IntentAPIKey != "" }

// ScoringConfig implementation
func (c *Config) GetScoringRulesFile() string   { return c.ScoringRulesFile }
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// TierConfig implementation
func (c *Config) GetTierHotMin() int                 { return c.TierHotMin }
func (c *Config) GetTierMediumMin() int              { return c.TierMediumMin }
func (c *Config) GetTierLowMin() int                 { return c.TierLowMin }
func (c *Config) GetIntentDowngradeLabels() []string { return c.IntentDowngradeLabels }

// ProcessingConfig implementation
func (c *Config) GetScoringConcurrency() int { return c.ScoringConcurrency }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string          { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string         { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string         { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool              { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketLeadUploads() string { return c.MinioBucketLeadUploads }
func (c *Config) IsMinIOEnabled() bool              { return c.MinIOEndpoint != "" }

// Load reads configuration from environment variables, after loading a .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an environment lookup function.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	env := func(key, fallback string) string {
		if val, ok := lookup(key); ok {
			return val
		}
		return fallback
	}

	corsOrigins := splitCSV(env("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(env("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	apiKey := env("OPENROUTER_API_KEY", "")
	if apiKey == "" {
		apiKey = env("OPENAI_API_KEY", "")
	}

	cfg := &Config{
		Env:                    env("APP_ENV", "development"),
		HTTPAddr:               env("HTTP_ADDR", ":8000"),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         strings.EqualFold(env("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitPerSec:        mustFloat(env("RATE_LIMIT_PER_SEC", "20")),
		RateLimitBurst:         mustInt(env("RATE_LIMIT_BURST", "40")),
		MaxUploadBytes:         mustInt64(env("MAX_UPLOAD_BYTES", "10485760")),
		DatabaseURL:            env("DATABASE_URL", ""),
		RedisURL:               env("REDIS_URL", ""),
		RedisTLSInsecure:       strings.EqualFold(env("REDIS_TLS_INSECURE", "false"), "true"),
		IntentAPIKey:           apiKey,
		IntentBaseURL:          env("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		IntentModel:            env("INTENT_MODEL", "openai/gpt-4o-mini"),
		IntentTimeout:          mustDuration(env("INTENT_TIMEOUT", "8s")),
		IntentRatePerSec:       mustFloat(env("INTENT_RATE_PER_SEC", "5")),
		IntentCacheTTL:         mustDuration(env("INTENT_CACHE_TTL", "24h")),
		ScoringRulesFile:       env("SCORING_RULES_FILE", ""),
		PhoneDefaultRegion:     strings.ToUpper(env("PHONE_DEFAULT_REGION", "")),
		TierHotMin:             mustInt(env("TIER_HOT_MIN", "80")),
		TierMediumMin:          mustInt(env("TIER_MEDIUM_MIN", "60")),
		TierLowMin:             mustInt(env("TIER_LOW_MIN", "30")),
		IntentDowngradeLabels:  splitCSV(env("INTENT_DOWNGRADE_LABELS", "spam,not_relevant")),
		ScoringConcurrency:     mustInt(env("SCORING_CONCURRENCY", "8")),
		MinIOEndpoint:          env("MINIO_ENDPOINT", ""),
		MinIOAccessKey:         env("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:         env("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:            strings.EqualFold(env("MINIO_USE_SSL", "false"), "true"),
		MinioBucketLeadUploads: env("MINIO_BUCKET_LEAD_UPLOADS", "lead-uploads"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.IsMinIOEnabled() && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required when MINIO_ENDPOINT is set")
	}

	return cfg, nil
}

// mustDuration returns 0 on parse failure so validation rejects the value.
func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return -1
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
