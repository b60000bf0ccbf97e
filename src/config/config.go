// Package config holds the settings shared by the protocol_backup commands.
// Values are resolved in order: defaults, YAML file, environment, flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jiaming2012/protocol-backup/src/backupsink"
	"github.com/jiaming2012/protocol-backup/src/logger"
)

const (
	EnvDatabase = "PROTOCOL_BACKUP_DB"
	EnvTimezone = "PROTOCOL_BACKUP_TZ"
	EnvLogLevel = "PROTOCOL_BACKUP_LOG_LEVEL"
)

var ErrNoDatabase = errors.New("no database configured")

type Config struct {
	Database      string `yaml:"database"`
	BusyTimeoutMs int    `yaml:"busy_timeout_ms"`

	// Timezone names the zone for loaded timestamps and naive document times. Empty means local.
	Timezone string `yaml:"timezone"`

	LogLevel           string        `yaml:"log_level"`
	LogJSON            bool          `yaml:"log_json"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`

	Otel bool `yaml:"otel"`

	SampleRate SampleRateConfig    `yaml:"sample_rate"`
	S3         backupsink.S3Config `yaml:"s3"`
}

type SampleRateConfig struct {
	Expected  float64 `yaml:"expected"`
	Tolerance float64 `yaml:"tolerance"`
}

func Default() Config {
	return Config{
		BusyTimeoutMs:      5000,
		LogLevel:           "info",
		SlowQueryThreshold: logger.DefaultSlowThreshold,
		SampleRate: SampleRateConfig{
			Tolerance: 0.05,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides settings from PROTOCOL_BACKUP_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDatabase); v != "" {
		c.Database = v
	}

	if v := os.Getenv(EnvTimezone); v != "" {
		c.Timezone = v
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	return loc, nil
}

func (c Config) Validate() error {
	if c.Database == "" {
		return fmt.Errorf("%w: use --db or %s", ErrNoDatabase, EnvDatabase)
	}

	return nil
}
