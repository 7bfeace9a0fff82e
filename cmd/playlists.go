package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/waitroom/internal/formatter"
	"github.com/desertthunder/waitroom/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistsList prints every playlist with its item count, marking the current one.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	view := engine.View()
	if cmd.Bool("json") {
		return r.writeJSON(engine.Snapshot(), cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(view.Names)))
	for _, name := range view.Names {
		marker := " "
		if name == view.Current {
			marker = "●"
		}
		r.writePlain("%s %-24s %d items\n", marker, name, view.Counts[name])
	}
	r.writeSyncFooter(view)
	return nil
}

// PlaylistsCreate creates an empty playlist and selects it.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	if err := engine.CreatePlaylist(ctx, name); err != nil {
		return fmt.Errorf("failed to create playlist %q: %w", name, err)
	}
	r.writePlain("✓ Created and selected playlist: %s\n", strings.TrimSpace(name))
	r.writeSyncFooter(engine.View())
	return nil
}

// PlaylistsSwitch selects an existing playlist.
func (r *Runner) PlaylistsSwitch(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	if err := engine.SwitchPlaylist(ctx, name); err != nil {
		return fmt.Errorf("failed to switch to %q: %w", name, err)
	}
	r.writePlain("✓ Current playlist: %s\n", name)
	r.writeSyncFooter(engine.View())
	return nil
}

// PlaylistsDelete removes a playlist other than default.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	if err := engine.DeletePlaylist(ctx, name); err != nil {
		return fmt.Errorf("failed to delete %q: %w", name, err)
	}
	r.writePlain("✓ Deleted playlist: %s (current: %s)\n", name, engine.Current())
	r.writeSyncFooter(engine.View())
	return nil
}

// PlaylistsExport writes every playlist to its own file plus a manifest.
func (r *Runner) PlaylistsExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	if !slices.Contains(formatter.Formats, format) {
		return fmt.Errorf("unsupported format %q (use one of: %s)", format, strings.Join(formatter.Formats, ", "))
	}

	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	progress := make(chan tasks.Update, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Err != nil {
				r.writePlain("  ✗ %s\n", update.Message)
			} else {
				r.writePlain("  ✓ %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Export(ctx, progress, tasks.ExportOpts{
		Format:     format,
		OutputDir:  cmd.String("out"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progress)
	<-done

	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Format:    %s\n", result.Format)
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported:  %d/%d\n", result.Succeeded, result.Total)
	r.writePlain("Manifest:  %s\n", result.ManifestPath)
	if result.Failed > 0 {
		return fmt.Errorf("%d playlist(s) failed to export", result.Failed)
	}
	return nil
}

// writeSyncFooter reports whether changes reached the backend.
func (r *Runner) writeSyncFooter(view tasks.View) {
	if view.Sync.IsOnline {
		r.writePlainln("Backend: online")
		return
	}
	r.writePlainln("Backend: offline (changes saved on this display only)")
}
