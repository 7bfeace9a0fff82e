package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/formatter"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/urfave/cli/v3"
)

// ItemsList prints the current playlist in the requested format.
func (r *Runner) ItemsList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	export := &formatter.PlaylistExport{Name: engine.Current(), Items: engine.Items()}
	data, err := formatter.Export(export, cmd.String("format"))
	if err != nil {
		return fmt.Errorf("failed to format playlist: %w", err)
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// ItemsAdd appends a content item to the current playlist. Ticker URLs are
// reclassified regardless of --type.
func (r *Runner) ItemsAdd(ctx context.Context, cmd *cli.Command) error {
	typ := models.ItemType(cmd.String("type"))
	if !typ.Valid() {
		return fmt.Errorf("%w: unknown item type %q", shared.ErrInvalidArgument, typ)
	}

	duration := cmd.Int("duration")
	if duration <= 0 {
		duration = r.config.Display.DefaultDurationSeconds
	}

	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	item, err := engine.AddItem(ctx, content.Draft{
		Type:            typ,
		URL:             cmd.StringArg("url"),
		Title:           cmd.String("title"),
		DurationSeconds: duration,
	})
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	if item.Type != typ {
		r.writePlain("✓ Added %s (detected from URL) to %s, id=%d\n", item.Type, engine.Current(), item.ID)
	} else {
		r.writePlain("✓ Added %s to %s, id=%d\n", item.Type, engine.Current(), item.ID)
	}
	r.writeSyncFooter(engine.View())
	return nil
}

// ItemsRemove deletes an item by id from the current playlist.
func (r *Runner) ItemsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := strconv.ParseInt(cmd.StringArg("id"), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: item id must be an integer", shared.ErrInvalidArgument)
	}

	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	if err := engine.RemoveItem(ctx, id); err != nil {
		return fmt.Errorf("failed to remove item %d: %w", id, err)
	}
	r.writePlain("✓ Removed item %d from %s\n", id, engine.Current())
	r.writeSyncFooter(engine.View())
	return nil
}

// ItemsClear empties the current playlist.
func (r *Runner) ItemsClear(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	current := engine.Current()
	if err := engine.ClearPlaylist(ctx); err != nil {
		return err
	}
	r.writePlain("✓ Cleared %s\n", current)
	r.writeSyncFooter(engine.View())
	return nil
}
