package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBaseURL)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, "/", cfg.ShellPath)
	assert.Equal(t, "@every 5m", cfg.SyncSchedule)
	assert.Equal(t, 15*time.Second, cfg.ProbeInterval)
	assert.Equal(t, 4, cfg.SyncConcurrency)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL())
	assert.Equal(t, filepath.Join(".pantau", "fieldagent.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(".pantau", "agent.sock"), cfg.SocketPath())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FIELD_API_BASE_URL", "https://pantau.example.id/")
	t.Setenv("FIELD_API_PREFIX", "/v2/api/")
	t.Setenv("FIELD_CLIENT_VERSION", "v7")
	t.Setenv("FIELD_SYNC_SCHEDULE", "*/10 * * * *")
	t.Setenv("FIELD_SYNC_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://pantau.example.id/v2/api", cfg.APIURL())
	assert.Equal(t, "v7", cfg.ClientVersion)
	assert.Equal(t, 2, cfg.SyncConcurrency)
}

func TestLoad_InvalidSchedule(t *testing.T) {
	t.Setenv("FIELD_SYNC_SCHEDULE", "whenever")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			APIBaseURL:      "http://localhost:8080",
			DataDir:         t.TempDir(),
			ClientVersion:   "v1",
			APIPrefix:       "/api",
			ProbeInterval:   time.Second,
			RequestTimeout:  time.Second,
			SyncSchedule:    "@every 1m",
			SyncConcurrency: 1,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.APIBaseURL = " " }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"empty version", func(c *Config) { c.ClientVersion = "" }},
		{"prefix without slash", func(c *Config) { c.APIPrefix = "api" }},
		{"zero probe interval", func(c *Config) { c.ProbeInterval = 0 }},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }},
		{"zero concurrency", func(c *Config) { c.SyncConcurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
