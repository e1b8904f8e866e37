package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(noDotenv(t))
	require.NoError(t, err)

	assert.Equal(t, ModeOffline, cfg.Mode)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORSOrigins())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.False(t, cfg.TrustProxy)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MODE", "online")
	t.Setenv("AUTH_HMAC_SECRET", "s3cret")
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("CORS_ORIGINS_ONLINE", "https://a.example, https://b.example ,")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := FromEnv(noDotenv(t))
	require.NoError(t, err)
	assert.Equal(t, ModeOnline, cfg.Mode)
	assert.Equal(t, 45*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.TrustProxy)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("SESSION_STORE", "etcd")
	_, err := FromEnv(noDotenv(t))
	assert.ErrorContains(t, err, "SESSION_STORE")
}

func TestOnlineNeedsSecret(t *testing.T) {
	t.Setenv("MODE", "online")
	_, err := FromEnv(noDotenv(t))
	assert.ErrorContains(t, err, "AUTH_HMAC_SECRET")
}

func TestDotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9999\nRATE_LIMIT_BURST=7\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("HTTP_ADDR")
		os.Unsetenv("RATE_LIMIT_BURST")
	})

	cfg, err := FromEnv(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, 7, cfg.RateLimitBurst)
}
