package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/waitroom/internal/server"
	"github.com/desertthunder/waitroom/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SyncStatus reports the backend connection after a startup load.
func (r *Runner) SyncStatus(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	view := engine.View()
	if cmd.Bool("json") {
		return r.writeJSON(view, cmd.Bool("pretty"))
	}

	online := "offline"
	if view.Sync.IsOnline {
		online = "online"
	}

	r.writePlainHeader("Sync Status")
	r.writePlain("Backend:    %s (%s)\n", r.config.Remote.BaseURL, online)
	r.writePlain("Display ID: %s\n", r.store.DisplayID())
	r.writePlain("Current:    %s (%d items)\n", view.Current, view.Counts[view.Current])
	r.writePlain("Playlists:  %d\n", len(view.Names))
	r.writePlain("Poll every: %s\n", r.config.PollInterval())
	return nil
}

// SyncWatch runs the periodic pull headless and prints every engine event until interrupted.
func (r *Runner) SyncWatch(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates := make(chan tasks.Update, 32)
	engine, err := r.open(ctx, updates)
	if err != nil {
		return err
	}

	interval := cmd.Duration("interval")
	if interval <= 0 {
		interval = r.config.PollInterval()
	}

	poller := engine.Watch(interval)
	poller.Start(ctx)
	defer poller.Stop()

	if addr := r.statusAddr(cmd); addr != "" {
		go func() {
			if err := server.Serve(ctx, addr, engine, r.logger); err != nil {
				r.logger.Error("status server stopped", "err", err)
			}
		}()
	}

	r.logger.Info("watching backend", "interval", interval, "current", engine.Current())
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopped watching")
			return nil
		case update := <-updates:
			if update.Err != nil {
				r.logger.Warn(update.Message, "phase", update.Phase, "err", update.Err)
				continue
			}
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}
}

// SyncReconnect retries the backend and either adopts its state or seeds it with local state.
func (r *Runner) SyncReconnect(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	if err := engine.Reconnect(ctx); err != nil {
		return fmt.Errorf("reconnect failed: %w", err)
	}

	view := engine.View()
	r.writePlain("✓ Connected to %s\n", r.config.Remote.BaseURL)
	r.writePlain("Current: %s (%d items)\n", view.Current, view.Counts[view.Current])
	return nil
}
