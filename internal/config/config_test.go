package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5005", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 15.0, cfg.UserRateLimitBurst)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.SinkTimeout)
	assert.False(t, cfg.SinkEnabled)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SHUTDOWN_TIMEOUT", "10s")
	t.Setenv("WEBHOOK_TIMEOUT", "3s")
	t.Setenv("USER_RATE_LIMIT_BURST", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SESSION_TTL", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 5.0, cfg.UserRateLimitBurst)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.RedisEnabled())
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	t.Setenv("REDIS_DB", "not-an-int")
	t.Setenv("USER_RATE_LIMIT_BURST", "not-a-float")
	t.Setenv("SINK_ENABLED", "not-a-bool")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 15.0, cfg.UserRateLimitBurst)
	assert.False(t, cfg.SinkEnabled)
}

func TestValidateSinkRequirements(t *testing.T) {
	t.Setenv("SINK_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "SINK_ENDPOINT"))
	assert.True(t, strings.Contains(err.Error(), "SINK_BUCKET"))
}

func TestValidateSinkComplete(t *testing.T) {
	t.Setenv("SINK_ENABLED", "true")
	t.Setenv("SINK_ENDPOINT", "https://storage.example.com")
	t.Setenv("SINK_ACCESS_KEY_ID", "key")
	t.Setenv("SINK_SECRET_ACCESS_KEY", "secret")
	t.Setenv("SINK_BUCKET", "appointments")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SinkEnabled)
	assert.Equal(t, "appointments", cfg.SinkBucket)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{
		Port:                      "",
		ShutdownTimeout:           -time.Second,
		WebhookTimeout:            0,
		UserRateLimitBurst:        0,
		UserRateLimitRefillPerSec: 0,
		SessionTTL:                0,
		DataDir:                   "",
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"PORT", "SHUTDOWN_TIMEOUT", "WEBHOOK_TIMEOUT", "USER_RATE_LIMIT_BURST", "SESSION_TTL", "DATA_DIR"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestJournalPath(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/triage"}
	assert.Equal(t, "/tmp/triage/journal.db", cfg.JournalPath())
}
