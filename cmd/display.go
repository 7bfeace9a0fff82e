package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/waitroom/internal/server"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/desertthunder/waitroom/internal/tasks"
	"github.com/desertthunder/waitroom/internal/ui"
	"github.com/urfave/cli/v3"
)

// Display launches the full-screen display with the periodic pull running in the background.
func (r *Runner) Display(ctx context.Context, cmd *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Display.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.LogLevel))
	r.SetLogger(fileLogger)

	updates := make(chan tasks.Update, 32)
	engine, err := r.open(ctx, updates)
	if err != nil {
		return err
	}

	poller := engine.Watch(r.config.PollInterval())
	poller.Start(ctx)
	defer poller.Stop()

	if addr := r.statusAddr(cmd); addr != "" {
		go func() {
			if err := server.Serve(ctx, addr, engine, r.logger); err != nil {
				r.logger.Error("status server stopped", "err", err)
			}
		}()
	}

	model := ui.NewModel(ctx, ui.Options{
		Controller:      engine,
		Updates:         updates,
		DefaultDuration: time.Duration(r.config.Display.DefaultDurationSeconds) * time.Second,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running display: %w", err)
	}

	return nil
}

// statusAddr prefers the --addr flag over metrics.addr from config.
func (r *Runner) statusAddr(cmd *cli.Command) string {
	if addr := cmd.String("addr"); addr != "" {
		return addr
	}
	return r.config.Metrics.Addr
}
