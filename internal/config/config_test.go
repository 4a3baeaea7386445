package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every STUDYHUB_ env var that Load() reads.
var allConfigKeys = []string{
	"STUDYHUB_LISTEN_ADDR",
	"STUDYHUB_DB_PATH",
	"STUDYHUB_SESSION_TTL",
	"STUDYHUB_GROUP_MAX_SIZE",
	"STUDYHUB_RATE_LIMIT_WINDOW",
	"STUDYHUB_RATE_LIMIT_MAX",
}

// isolateConfigEnv saves and unsets all STUDYHUB_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "studyhub.db", cfg.DBPath)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.GroupMaxSize)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.RateLimitMax)
}

func TestLoad_Overrides(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STUDYHUB_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("STUDYHUB_DB_PATH", "/tmp/test.db")
	t.Setenv("STUDYHUB_SESSION_TTL", "12h")
	t.Setenv("STUDYHUB_GROUP_MAX_SIZE", "25")
	t.Setenv("STUDYHUB_RATE_LIMIT_WINDOW", "30s")
	t.Setenv("STUDYHUB_RATE_LIMIT_MAX", "10")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 25, cfg.GroupMaxSize)
	assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 10, cfg.RateLimitMax)
}

func TestLoad_InvalidSessionTTL(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STUDYHUB_SESSION_TTL", "not-a-duration")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STUDYHUB_SESSION_TTL")
}

func TestLoad_InvalidGroupMaxSize(t *testing.T) {
	isolateConfigEnv(t)

	for _, v := range []string{"zero", "0", "-3"} {
		t.Setenv("STUDYHUB_GROUP_MAX_SIZE", v)

		cfg, err := Load()

		assert.Nil(t, cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "STUDYHUB_GROUP_MAX_SIZE")
	}
}

func TestLoad_InvalidRateLimitWindow(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STUDYHUB_RATE_LIMIT_WINDOW", "soon")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STUDYHUB_RATE_LIMIT_WINDOW")
}

func TestLoad_InvalidRateLimitMax(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("STUDYHUB_RATE_LIMIT_MAX", "0")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STUDYHUB_RATE_LIMIT_MAX")
}
