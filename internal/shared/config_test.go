package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./waitroom.db" {
			t.Errorf("expected database path ./waitroom.db, got %s", config.Database.Path)
		}

		if config.Remote.BaseURL != "http://localhost:5000/api" {
			t.Errorf("expected remote base URL http://localhost:5000/api, got %s", config.Remote.BaseURL)
		}

		if config.PollInterval() != 3*time.Second {
			t.Errorf("expected 3s poll interval, got %s", config.PollInterval())
		}

		if config.Remote.SessionID != "global_default" {
			t.Errorf("expected session id global_default, got %s", config.Remote.SessionID)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should validate: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `log_level = "debug"

[remote]
base_url = "https://lobby.example.com/api"
requests_per_second = 2

[sync]
poll_interval_seconds = 7

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Remote.BaseURL != "https://lobby.example.com/api" {
			t.Errorf("expected custom base URL, got %s", config.Remote.BaseURL)
		}
		if config.PollInterval() != 7*time.Second {
			t.Errorf("expected 7s poll interval, got %s", config.PollInterval())
		}
		if config.LogLevel != "debug" {
			t.Errorf("expected log level debug, got %s", config.LogLevel)
		}

		t.Run("keeps defaults for missing keys", func(t *testing.T) {
			if config.Remote.TimeoutSeconds != 10 {
				t.Errorf("expected default timeout 10, got %d", config.Remote.TimeoutSeconds)
			}
			if config.Feed.MaxItems != 10 {
				t.Errorf("expected default feed max items 10, got %d", config.Feed.MaxItems)
			}
		})
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Invalid Values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[sync]\npoll_interval_seconds = 0\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig Malformed TOML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[remote\nbase_url ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); err == nil {
			t.Error("expected parse error")
		}
	})
}
