package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{"HTTP_ADDR", "RATE_LIMIT", "LOG_LEVEL", "LOG_FORMAT", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		prev, ok := os.LookupEnv(k)
		require.NoError(t, os.Unsetenv(k))
		k := k
		t.Cleanup(func() {
			if ok {
				os.Setenv(k, prev)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("RATE_LIMIT", "5")
	t.Setenv("SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("READ_TIMEOUT", "not-a-duration")
	t.Setenv("WRITE_TIMEOUT", "3s")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 5, cfg.RateLimit)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)
	assert.Equal(t, 5*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
}

func TestLoadInvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT", "lots")
	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Equal(t, 100, cfg.RateLimit)
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:7070\nLOG_LEVEL=debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "error")

	cfg := Load(path)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	base := Config{HTTPAddr: ":8080", ReadTimeout: time.Second, WriteTimeout: time.Second, ShutdownTimeout: time.Second}
	require.NoError(t, base.Validate())

	tests := map[string]func(c *Config){
		"emptyAddr":        func(c *Config) { c.HTTPAddr = "" },
		"negativeRate":     func(c *Config) { c.RateLimit = -1 },
		"zeroRead":         func(c *Config) { c.ReadTimeout = 0 },
		"zeroWrite":        func(c *Config) { c.WriteTimeout = 0 },
		"negativeShutdown": func(c *Config) { c.ShutdownTimeout = -time.Second },
	}
	for name, mutate := range tests {
		c := base
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}
