package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	LogLevel string         `toml:"log_level"`
	Remote   RemoteConfig   `toml:"remote"`
	Sync     SyncConfig     `toml:"sync"`
	Database DatabaseConfig `toml:"database"`
	Display  DisplayConfig  `toml:"display"`
	Feed     FeedConfig     `toml:"feed"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// RemoteConfig points at the shared playlist backend.
type RemoteConfig struct {
	BaseURL           string  `toml:"base_url"`
	SessionID         string  `toml:"session_id"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SyncConfig controls the periodic pull.
type SyncConfig struct {
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// DisplayConfig contains settings for the terminal display.
type DisplayConfig struct {
	DefaultDurationSeconds int    `toml:"default_duration_seconds"`
	LogFile                string `toml:"log_file"`
}

// FeedConfig contains feed import settings.
type FeedConfig struct {
	MaxItems        int `toml:"max_items"`
	DurationSeconds int `toml:"duration_seconds"`
	TimeoutSeconds  int `toml:"timeout_seconds"`
}

// MetricsConfig contains the status server address.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// PollInterval returns the periodic pull cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Sync.PollIntervalSeconds) * time.Second
}

// RemoteTimeout returns the per-request timeout for the backend.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}

// FeedTimeout returns the per-fetch timeout for feeds.
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.Feed.TimeoutSeconds) * time.Second
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Remote.BaseURL) == "":
		return fmt.Errorf("%w: remote.base_url is required", ErrInvalidConfig)
	case c.Sync.PollIntervalSeconds <= 0:
		return fmt.Errorf("%w: sync.poll_interval_seconds must be positive", ErrInvalidConfig)
	case c.Remote.TimeoutSeconds <= 0:
		return fmt.Errorf("%w: remote.timeout_seconds must be positive", ErrInvalidConfig)
	case c.Remote.RequestsPerSecond < 0:
		return fmt.Errorf("%w: remote.requests_per_second cannot be negative", ErrInvalidConfig)
	case c.Database.Path == "":
		return fmt.Errorf("%w: database.path is required", ErrInvalidConfig)
	case c.Display.DefaultDurationSeconds <= 0:
		return fmt.Errorf("%w: display.default_duration_seconds must be positive", ErrInvalidConfig)
	case c.Feed.DurationSeconds <= 0:
		return fmt.Errorf("%w: feed.duration_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
