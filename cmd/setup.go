package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing, initializes the local database and prints
// this display's identity. With --reset the local database is rolled back and re-created first.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		config, err := shared.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		r.config = config
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
		}
		r.config = shared.DefaultConfig()
	}
	r.configPath = configPath

	r.logger.Info("initializing database", "path", r.config.Database.Path)
	store, err := r.openStore()
	if err != nil {
		return err
	}

	if cmd.Bool("reset") {
		r.logger.Warn("resetting local database", "path", r.config.Database.Path)
		if err := shared.ResetDatabase(r.db); err != nil {
			return fmt.Errorf("failed to reset database: %w", err)
		}
	}

	version, err := shared.CurrentVersion(r.db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	r.writePlainHeader("Setup complete")
	r.writePlain("Config:         %s\n", configPath)
	r.writePlain("Database:       %s (schema v%d)\n", r.config.Database.Path, version)
	r.writePlain("Display ID:     %s\n", store.DisplayID())
	r.writePlain("Backend:        %s\n", r.config.Remote.BaseURL)
	r.writePlainln("Run 'waitroom display' to start the display.")
	return nil
}
