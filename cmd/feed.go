package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/waitroom/internal/content"
	"github.com/desertthunder/waitroom/internal/shared"
	"github.com/urfave/cli/v3"
)

// FeedFetch lists the entries a feed offers for import. Entries are numbered from 1.
func (r *Runner) FeedFetch(ctx context.Context, cmd *cli.Command) error {
	result, err := r.feeds().Fetch(ctx, cmd.StringArg("url"))
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Entries, cmd.Bool("pretty"))
	}

	title := result.Title
	if title == "" {
		title = cmd.StringArg("url")
	}
	r.writePlainHeader(fmt.Sprintf("%s (%s)", title, result.Source))
	for i, entry := range result.Entries {
		r.writePlain("%2d. %s\n    %s\n", i+1, entry.Title, entry.Link)
	}
	return nil
}

// FeedImport fetches a feed and appends the selected entries to the current playlist.
func (r *Runner) FeedImport(ctx context.Context, cmd *cli.Command) error {
	result, err := r.feeds().Fetch(ctx, cmd.StringArg("url"))
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	selected, err := selectEntries(result.Entries, cmd.IntSlice("index"))
	if err != nil {
		return err
	}

	engine, err := r.open(ctx, nil)
	if err != nil {
		return err
	}

	for _, entry := range selected {
		item, err := engine.ImportFeedEntry(ctx, entry)
		if err != nil {
			return fmt.Errorf("failed to import %q: %w", entry.Title, err)
		}
		r.writePlain("✓ Imported %s: %s\n", item.Type, item.Label())
	}
	r.writePlainln("Imported %d of %d entries into %s", len(selected), len(result.Entries), engine.Current())
	r.writeSyncFooter(engine.View())
	return nil
}

// selectEntries picks entries by 1-based index. No indexes selects everything.
func selectEntries(entries []content.FeedEntry, indexes []int) ([]content.FeedEntry, error) {
	if len(indexes) == 0 {
		return entries, nil
	}

	selected := make([]content.FeedEntry, 0, len(indexes))
	for _, i := range indexes {
		if i < 1 || i > len(entries) {
			return nil, fmt.Errorf("%w: index %d out of range 1-%d", shared.ErrInvalidArgument, i, len(entries))
		}
		selected = append(selected, entries[i-1])
	}
	return selected, nil
}
