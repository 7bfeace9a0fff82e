package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/urfave/cli/v3"
)

// Classify prints the type a URL would be stored as. It never touches the network.
func (r *Runner) Classify(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	selected := models.ItemType(cmd.String("type"))
	if !selected.Valid() {
		return fmt.Errorf("%w: unknown item type %q", shared.ErrInvalidArgument, selected)
	}

	typ := content.Classify(url, selected)
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"url":      url,
			"selected": selected,
			"type":     typ,
			"ticker":   typ == models.TypeRSSTicker,
		}, false)
	}

	if typ == models.TypeRSSTicker {
		return r.writePlain("%s (ticker overlay, not part of the rotation)\n", typ)
	}
	return r.writePlain("%s\n", typ)
}
