package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	var cfg PricingService
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, 9093, cfg.Port)
	assert.Equal(t, "data/pricing.db", cfg.DatabasePath)
	assert.True(t, cfg.ProcessOnStart)
	assert.Equal(t, 1000, cfg.MaxLineQuantity)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("GATEWAY_PORT", "9000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("OTEL_SERVICE_NAME", "edge")

	var cfg APIGateway
	require.NoError(t, ParseEnv(&cfg))

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "edge", cfg.ServiceName)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("PAYMENT_PORT", "not-an-int")
	t.Setenv("PAYMENT_ENCRYPTION_SECRET", "s3cret")

	var cfg PaymentService
	err := ParseEnv(&cfg)
	assert.ErrorContains(t, err, "parse env:")
}

func TestParseEnvRequired(t *testing.T) {
	var cfg PaymentService
	assert.Error(t, ParseEnv(&cfg))
}
