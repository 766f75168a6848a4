// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// the HTTP server, session storage, rate limiting, and the appointment sink.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Webhook Configuration
	WebhookTimeout time.Duration // Timeout for processing a single inbound message

	// Rate Limits (Token Bucket Algorithm)
	UserRateLimitBurst        float64 // Maximum burst tokens per sender (default: 15)
	UserRateLimitRefillPerSec float64 // Tokens refilled per second (default: 0.5)

	// Session Configuration
	RedisAddr     string        // Redis address; empty = in-process session store
	RedisPassword string        //
	RedisDB       int           //
	SessionTTL    time.Duration // Expiry for Redis-backed sessions (default: 24h)

	// Data Configuration
	DataDir string // Data directory for the SQLite event journal

	// Sink Configuration (S3-compatible appointment mirror)
	SinkEnabled         bool
	SinkEndpoint        string
	SinkAccessKeyID     string
	SinkSecretAccessKey string
	SinkBucket          string
	SinkTimeout         time.Duration // Per-call bound for sink writes (default: 5s)

	// Sentry Configuration
	SentryToken       string // Empty disables error reporting
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv("PORT", "5005"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		// Webhook Configuration
		WebhookTimeout: getDurationEnv("WEBHOOK_TIMEOUT", 10*time.Second),

		// Rate Limits
		UserRateLimitBurst:        getFloatEnv("USER_RATE_LIMIT_BURST", 15.0),
		UserRateLimitRefillPerSec: getFloatEnv("USER_RATE_LIMIT_REFILL_PER_SEC", 0.5),

		// Session Configuration
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		SessionTTL:    getDurationEnv("SESSION_TTL", 24*time.Hour),

		// Data Configuration
		DataDir: getEnv("DATA_DIR", getDefaultDataDir()),

		// Sink Configuration
		SinkEnabled:         getBoolEnv("SINK_ENABLED", false),
		SinkEndpoint:        getEnv("SINK_ENDPOINT", ""),
		SinkAccessKeyID:     getEnv("SINK_ACCESS_KEY_ID", ""),
		SinkSecretAccessKey: getEnv("SINK_SECRET_ACCESS_KEY", ""),
		SinkBucket:          getEnv("SINK_BUCKET", ""),
		SinkTimeout:         getDurationEnv("SINK_TIMEOUT", 5*time.Second),

		// Sentry Configuration
		SentryToken:       getEnv("SENTRY_TOKEN", ""),
		SentryHost:        getEnv("SENTRY_HOST", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", "production"),
		SentrySampleRate:  getFloatEnv("SENTRY_SAMPLE_RATE", 1.0),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %v", c.ShutdownTimeout))
	}
	if c.WebhookTimeout <= 0 {
		errs = append(errs, fmt.Errorf("WEBHOOK_TIMEOUT must be positive, got %v", c.WebhookTimeout))
	}
	if c.UserRateLimitBurst <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_BURST must be positive, got %v", c.UserRateLimitBurst))
	}
	if c.UserRateLimitRefillPerSec <= 0 {
		errs = append(errs, fmt.Errorf("USER_RATE_LIMIT_REFILL_PER_SEC must be positive, got %v", c.UserRateLimitRefillPerSec))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_TTL must be positive, got %v", c.SessionTTL))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("DATA_DIR is required"))
	}
	if c.SinkEnabled {
		if c.SinkEndpoint == "" {
			errs = append(errs, errors.New("SINK_ENDPOINT is required when SINK_ENABLED=true"))
		}
		if c.SinkAccessKeyID == "" {
			errs = append(errs, errors.New("SINK_ACCESS_KEY_ID is required when SINK_ENABLED=true"))
		}
		if c.SinkSecretAccessKey == "" {
			errs = append(errs, errors.New("SINK_SECRET_ACCESS_KEY is required when SINK_ENABLED=true"))
		}
		if c.SinkBucket == "" {
			errs = append(errs, errors.New("SINK_BUCKET is required when SINK_ENABLED=true"))
		}
		if c.SinkTimeout <= 0 {
			errs = append(errs, fmt.Errorf("SINK_TIMEOUT must be positive, got %v", c.SinkTimeout))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getDefaultDataDir returns platform-specific default data directory
func getDefaultDataDir() string {
	if runtime.GOOS == "windows" {
		return "./data"
	}
	return "/data"
}

// JournalPath returns the full path to the SQLite event journal file
func (c *Config) JournalPath() string {
	return filepath.Join(c.DataDir, "journal.db")
}

// RedisEnabled returns true when a Redis-backed session store is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
