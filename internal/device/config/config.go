// Package config loads the field agent configuration from the environment.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	appconfig "github.com/heartmarshall/pantau-subsidi/internal/config"
)

// Config controls how the field agent reaches the API and where it keeps
// its durable state.
type Config struct {
	APIBaseURL      string        `env:"FIELD_API_BASE_URL"      envDefault:"http://localhost:8080"`
	DataDir         string        `env:"FIELD_DATA_DIR"          envDefault:".pantau"`
	ClientVersion   string        `env:"FIELD_CLIENT_VERSION"    envDefault:"v1"`
	APIPrefix       string        `env:"FIELD_API_PREFIX"        envDefault:"/api"`
	ShellPath       string        `env:"FIELD_SHELL_PATH"        envDefault:"/"`
	ProbeInterval   time.Duration `env:"FIELD_PROBE_INTERVAL"    envDefault:"15s"`
	RequestTimeout  time.Duration `env:"FIELD_REQUEST_TIMEOUT"   envDefault:"10s"`
	SyncSchedule    string        `env:"FIELD_SYNC_SCHEDULE"     envDefault:"@every 5m"`
	SyncConcurrency int           `env:"FIELD_SYNC_CONCURRENCY"  envDefault:"4"`
	LogLevel        string        `env:"FIELD_LOG_LEVEL"         envDefault:"warn"`
	LogFormat       string        `env:"FIELD_LOG_FORMAT"        envDefault:"text"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api base url is required")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data dir is required")
	}
	if strings.TrimSpace(c.ClientVersion) == "" {
		return fmt.Errorf("client version is required")
	}
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		return fmt.Errorf("api prefix must start with / (got %q)", c.APIPrefix)
	}
	if c.ProbeInterval <= 0 {
		return fmt.Errorf("probe interval must be > 0 (got %s)", c.ProbeInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be > 0 (got %s)", c.RequestTimeout)
	}
	if c.SyncConcurrency <= 0 {
		return fmt.Errorf("sync concurrency must be > 0 (got %d)", c.SyncConcurrency)
	}
	if _, err := cron.ParseStandard(c.SyncSchedule); err != nil {
		return fmt.Errorf("sync schedule %q: %w", c.SyncSchedule, err)
	}
	return nil
}

// APIURL is the base URL every API path is resolved against.
func (c Config) APIURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + strings.TrimRight(c.APIPrefix, "/")
}

// SocketPath is the control socket a running agent listens on.
func (c Config) SocketPath() string {
	return filepath.Join(c.DataDir, "agent.sock")
}

// DBPath is the location of the durable device database.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "fieldagent.db")
}

// Log adapts the logging fields to the shared logger constructor.
func (c Config) Log() appconfig.LogConfig {
	return appconfig.LogConfig{Level: c.LogLevel, Format: c.LogFormat}
}
