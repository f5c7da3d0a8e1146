// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// MigrationConfig controls startup schema migrations.
type MigrationConfig interface {
	DatabaseConfig
	GetRunMigrations() bool
}

// JWTConfig provides JWT validation settings for middleware.
// An empty secret disables token checks.
type JWTConfig interface {
	GetJWTSecret() string
	IsAuthEnabled() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// RateLimitConfig provides per-IP limits for the analysis endpoints.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// StorageConfig provides settings for S3-compatible object storage.
type StorageConfig interface {
	GetStorageEndpoint() string
	GetStorageAccessKey() string
	GetStorageSecretKey() string
	GetStorageUseSSL() bool
	GetStorageRegion() string
	GetStorageFaceBucket() string
	GetSignedURLTTL() time.Duration
	IsStorageEnabled() bool
}

// LLMConfig provides settings for the chat-completion API.
type LLMConfig interface {
	GetLLMAPIKey() string
	GetLLMBaseURL() string
	GetLLMModel() string
	GetLLMTimeout() time.Duration
	IsLLMEnabled() bool
}

// UPCConfig provides settings for the barcode lookup API.
type UPCConfig interface {
	GetUPCLookupURL() string
	GetUPCAPIKey() string
	GetUPCTimeout() time.Duration
}

// RedisConfig provides the optional Redis connection.
type RedisConfig interface {
	GetRedisURL() string
}

// URLCacheConfig sizes the signed URL cache.
type URLCacheConfig interface {
	GetURLCacheTTL() time.Duration
	GetURLCacheCapacity() int
}

// RetryConfig provides the retry policy for transient upstream failures.
type RetryConfig interface {
	GetRetryMaxAttempts() int
	GetRetryBaseDelay() time.Duration
	GetRetryMaxDelay() time.Duration
	GetRetryJitterPercent() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	DatabaseURL        string
	RunMigrations      bool
	JWTSecret          string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	RateLimitRPS       float64
	RateLimitBurst     int
	StorageEndpoint    string
	StorageAccessKey   string
	StorageSecretKey   string
	StorageUseSSL      bool
	StorageRegion      string
	StorageFaceBucket  string
	SignedURLTTL       time.Duration
	LLMAPIKey          string
	LLMBaseURL         string
	LLMModel           string
	LLMTimeout         time.Duration
	UPCLookupURL       string
	UPCAPIKey          string
	UPCTimeout         time.Duration
	RedisURL           string
	URLCacheTTL        time.Duration
	URLCacheCapacity   int
	RetryMaxAttempts   int
	RetryBaseDelay     time.Duration
	RetryMaxDelay      time.Duration
	RetryJitterPercent int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }
func (c *Config) GetRunMigrations() bool { return c.RunMigrations }

// JWTConfig implementation
func (c *Config) GetJWTSecret() string { return c.JWTSecret }
func (c *Config) IsAuthEnabled() bool  { return c.JWTSecret != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// StorageConfig implementation
func (c *Config) GetStorageEndpoint() string     { return c.StorageEndpoint }
func (c *Config) GetStorageAccessKey() string    { return c.StorageAccessKey }
func (c *Config) GetStorageSecretKey() string    { return c.StorageSecretKey }
func (c *Config) GetStorageUseSSL() bool         { return c.StorageUseSSL }
func (c *Config) GetStorageRegion() string       { return c.StorageRegion }
func (c *Config) GetStorageFaceBucket() string   { return c.StorageFaceBucket }
func (c *Config) GetSignedURLTTL() time.Duration { return c.SignedURLTTL }
func (c *Config) IsStorageEnabled() bool {
	return c.StorageEndpoint != "" && c.StorageAccessKey != "" && c.StorageSecretKey != ""
}

// LLMConfig implementation
func (c *Config) GetLLMAPIKey() string         { return c.LLMAPIKey }
func (c *Config) GetLLMBaseURL() string        { return c.LLMBaseURL }
func (c *Config) GetLLMModel() string          { return c.LLMModel }
func (c *Config) GetLLMTimeout() time.Duration { return c.LLMTimeout }
func (c *Config) IsLLMEnabled() bool           { return c.LLMAPIKey != "" }

// UPCConfig implementation
func (c *Config) GetUPCLookupURL() string      { return c.UPCLookupURL }
func (c *Config) GetUPCAPIKey() string         { return c.UPCAPIKey }
func (c *Config) GetUPCTimeout() time.Duration { return c.UPCTimeout }

// RedisConfig implementation
func (c *Config) GetRedisURL() string { return c.RedisURL }

// URLCacheConfig implementation
func (c *Config) GetURLCacheTTL() time.Duration { return c.URLCacheTTL }
func (c *Config) GetURLCacheCapacity() int      { return c.URLCacheCapacity }

// RetryConfig implementation
func (c *Config) GetRetryMaxAttempts() int         { return c.RetryMaxAttempts }
func (c *Config) GetRetryBaseDelay() time.Duration { return c.RetryBaseDelay }
func (c *Config) GetRetryMaxDelay() time.Duration  { return c.RetryMaxDelay }
func (c *Config) GetRetryJitterPercent() int       { return c.RetryJitterPercent }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment without reading .env.
func FromEnv() (*Config, error) {
	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	signedURLTTL := durationOr(getEnv("SIGNED_URL_TTL", ""), time.Hour)

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RunMigrations:      strings.EqualFold(getEnv("RUN_MIGRATIONS", "true"), "true"),
		JWTSecret:          getEnv("AUTH_JWT_SECRET", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:       floatOr(getEnv("RATE_LIMIT_RPS", ""), 1),
		RateLimitBurst:     intOr(getEnv("RATE_LIMIT_BURST", ""), 5),
		StorageEndpoint:    getEnv("STORAGE_ENDPOINT", ""),
		StorageAccessKey:   getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey:   getEnv("STORAGE_SECRET_KEY", ""),
		StorageUseSSL:      strings.EqualFold(getEnv("STORAGE_USE_SSL", "true"), "true"),
		StorageRegion:      getEnv("STORAGE_REGION", ""),
		StorageFaceBucket:  getEnv("STORAGE_FACE_BUCKET", "face-images"),
		SignedURLTTL:       signedURLTTL,
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:           getEnv("LLM_MODEL", "gpt-4o"),
		LLMTimeout:         durationOr(getEnv("LLM_TIMEOUT", ""), 60*time.Second),
		UPCLookupURL:       getEnv("UPC_LOOKUP_URL", "https://api.upcitemdb.com/prod/trial/lookup"),
		UPCAPIKey:          getEnv("UPC_API_KEY", ""),
		UPCTimeout:         durationOr(getEnv("UPC_TIMEOUT", ""), 10*time.Second),
		RedisURL:           getEnv("REDIS_URL", ""),
		URLCacheTTL:        durationOr(getEnv("URL_CACHE_TTL", ""), defaultURLCacheTTL(signedURLTTL)),
		URLCacheCapacity:   intOr(getEnv("URL_CACHE_CAPACITY", ""), 512),
		RetryMaxAttempts:   intOr(getEnv("RETRY_MAX_ATTEMPTS", ""), 3),
		RetryBaseDelay:     durationOr(getEnv("RETRY_BASE_DELAY", ""), 250*time.Millisecond),
		RetryMaxDelay:      durationOr(getEnv("RETRY_MAX_DELAY", ""), 2*time.Second),
		RetryJitterPercent: intOr(getEnv("RETRY_JITTER_PERCENT", ""), 20),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.RetryMaxAttempts < 1 {
		return nil, fmt.Errorf("RETRY_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.RetryJitterPercent < 0 || cfg.RetryJitterPercent > 100 {
		return nil, fmt.Errorf("RETRY_JITTER_PERCENT must be between 0 and 100")
	}
	if cfg.SignedURLTTL <= 0 {
		return nil, fmt.Errorf("SIGNED_URL_TTL must be positive")
	}
	if cfg.URLCacheTTL <= 0 || cfg.URLCacheTTL >= cfg.SignedURLTTL {
		return nil, fmt.Errorf("URL_CACHE_TTL must be positive and shorter than SIGNED_URL_TTL")
	}

	return cfg, nil
}

// defaultURLCacheTTL keeps cached URLs ten minutes short of expiry, or half
// their lifetime when they are signed for twenty minutes or less.
func defaultURLCacheTTL(signedURLTTL time.Duration) time.Duration {
	if signedURLTTL > 20*time.Minute {
		return signedURLTTL - 10*time.Minute
	}
	return signedURLTTL / 2
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func durationOr(value string, fallback time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func intOr(value string, fallback int) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return result
}

func floatOr(value string, fallback float64) float64 {
	result, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
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
