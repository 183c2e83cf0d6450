package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5001", cfg.Server.Port)
	assert.Equal(t, "http://localhost:5173", cfg.Server.AllowedOrigin)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "notes", cfg.Database.Collection)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, KeyStrategyFixed, cfg.RateLimit.KeyStrategy)
	assert.Equal(t, "my-limit-key", cfg.RateLimit.Key)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/notes.db")
	t.Setenv("RATE_LIMIT_BACKEND", "memory")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "client-ip")
	t.Setenv("MCP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/notes.db", cfg.Database.SQLitePath)
	assert.Equal(t, LimiterMemory, cfg.RateLimit.Backend)
	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 10*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, KeyStrategyClientIP, cfg.RateLimit.KeyStrategy)
	assert.False(t, cfg.MCP.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for name, env := range map[string][2]string{
		"UnknownDriver":   {"STORE_DRIVER", "postgres"},
		"UnknownBackend":  {"RATE_LIMIT_BACKEND", "memcached"},
		"UnknownStrategy": {"RATE_LIMIT_KEY_STRATEGY", "per-user"},
		"ZeroRequests":    {"RATE_LIMIT_REQUESTS", "0"},
		"BadPort":         {"PORT", "http"},
		"BadEnv":          {"APP_ENV", "staging"},
		"BadLogFormat":    {"LOG_FORMAT", "xml"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
