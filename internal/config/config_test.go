package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setEnvs is a helper that sets multiple env vars with test-scoped cleanup.
func setEnvs(t *testing.T, envs map[string]string) {
	t.Helper()
	for k, v := range envs {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnvs(t, map[string]string{
		"ENVIRONMENT": "development",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, "shopcart", cfg.PostgresDB)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
	assert.False(t, cfg.ProductCacheOff)
}

func TestLoad_Overrides(t *testing.T) {
	setEnvs(t, map[string]string{
		"HTTP_PORT":                 "9090",
		"KAFKA_BROKERS":             "kafka-1:9092,kafka-2:9092",
		"CORS_ALLOWED_ORIGINS":      "https://shop.example.com,https://admin.example.com",
		"PRODUCT_CACHE_TTL_SECONDS": "60",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.Minute, cfg.CacheTTL())
}

func TestLoad_InvalidPort(t *testing.T) {
	setEnvs(t, map[string]string{
		"HTTP_PORT": "0",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidSampleRate(t *testing.T) {
	setEnvs(t, map[string]string{
		"OTEL_SAMPLE_RATE": "1.5",
	})

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid OTEL sample rate")
}

func TestLoad_PostgresOverrides(t *testing.T) {
	setEnvs(t, map[string]string{
		"POSTGRES_HOST":     "db.internal",
		"POSTGRES_PORT":     "5433",
		"POSTGRES_USER":     "svc",
		"POSTGRES_PASSWORD": "s3cret",
		"POSTGRES_DB":       "storefront",
	})

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.PostgresHost)
	assert.Equal(t, 5433, cfg.PostgresPort)
	assert.Equal(t, "storefront", cfg.PostgresDB)
}
