package config

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, "TRIP_BACKEND_") {
			t.Setenv(key, "") // register restore
			_ = os.Unsetenv(key)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRIP_BACKEND_POSTGRES_DSN", "postgres://localhost/trips")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, "http://localhost:9100", cfg.OptimizerURL)
	assert.Equal(t, "http://localhost:9200", cfg.DirectionsURL)
	assert.Equal(t, 3, cfg.DefaultPOIPerDay)
	assert.Equal(t, "driving", cfg.DefaultTravelMode)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.False(t, cfg.IsTesting())
	assert.False(t, cfg.IsProduction())
}

func TestNew_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TRIP_BACKEND_POSTGRES_DSN", "postgres://localhost/trips")
	t.Setenv("TRIP_BACKEND_HTTP_PORT", "9999")
	t.Setenv("TRIP_BACKEND_OPTIMIZER_URL", "http://optimizer:8000")
	t.Setenv("TRIP_BACKEND_REDIS_ADDR", "redis:6379")
	t.Setenv("TRIP_BACKEND_ENVIRONMENT", "production")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, "http://optimizer:8000", cfg.OptimizerURL)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.True(t, cfg.IsProduction())
}

func TestNew_RequiresPostgresDSN(t *testing.T) {
	clearEnv(t)

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestValidate_POIPerDay(t *testing.T) {
	cfg := NewForTesting()
	cfg.DefaultPOIPerDay = 0
	assert.Error(t, cfg.Validate())
	cfg.DefaultPOIPerDay = 1
	assert.NoError(t, cfg.Validate())
}
