// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/waitroom/internal/formatter"
	"github.com/desertthunder/waitroom/internal/models"
	"github.com/urfave/cli/v3"
)

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create config, initialize the local database and show the display ID",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Wipe the local playlist cache and display ID before initializing",
			},
		},
		Action: r.Setup,
	}
}

// displayCommand returns the top-level command that runs the display.
func displayCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "display",
		Aliases: []string{"play", "tui"},
		Usage:   "Run the full-screen display",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Serve /healthz, /state and /metrics on this address (overrides metrics.addr)",
			},
		},
		Action: r.Display,
	}
}

// playlistsCommand handles playlist management.
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Manage named playlists",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List playlists and item counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output the full registry as JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:      "create",
				Usage:     "Create an empty playlist and select it",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistsCreate,
			},
			{
				Name:      "switch",
				Aliases:   []string{"use"},
				Usage:     "Select an existing playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistsSwitch,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a playlist (default cannot be deleted)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistsDelete,
			},
			{
				Name:  "export",
				Usage: "Export every playlist to files",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: txt, csv, markdown or json",
						Value:   formatter.FormatJSON,
					},
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "Output directory (default: waitroom_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of concurrent writers",
						Value: 4,
					},
				},
				Action: r.PlaylistsExport,
			},
		},
	}
}

// itemsCommand handles content in the current playlist.
func itemsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "items",
		Usage: "Manage content in the current playlist",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List items in the current playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: txt, csv, markdown or json",
						Value:   formatter.FormatText,
					},
				},
				Action: r.ItemsList,
			},
			{
				Name:      "add",
				Usage:     "Add an image, website, slide deck, spreadsheet or ticker URL",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "Item type: image, website, slide, spreadsheet or rss-ticker",
						Value:   string(models.TypeImage),
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Optional display title",
					},
					&cli.IntFlag{
						Name:    "duration",
						Aliases: []string{"d"},
						Usage:   "Dwell time in seconds (default: display.default_duration_seconds)",
					},
				},
				Action: r.ItemsAdd,
			},
			{
				Name:      "remove",
				Aliases:   []string{"rm"},
				Usage:     "Remove an item by id",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.ItemsRemove,
			},
			{
				Name:   "clear",
				Usage:  "Remove every item from the current playlist",
				Action: r.ItemsClear,
			},
		},
	}
}

// feedCommand handles feed browsing and import.
func feedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Browse and import RSS/Atom feeds",
		Commands: []*cli.Command{
			{
				Name:      "fetch",
				Usage:     "List the entries a feed offers",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.FeedFetch,
			},
			{
				Name:      "import",
				Usage:     "Import feed entries into the current playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:    "index",
						Aliases: []string{"i"},
						Usage:   "Entry number from 'feed fetch' (repeatable; default: all)",
					},
				},
				Action: r.FeedImport,
			},
		},
	}
}

func classifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Show how a URL would be classified",
		Arguments: []cli.Argument{&cli.StringArg{Name: "url"}},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Type selected by the operator",
				Value:   string(models.TypeImage),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Classify,
	}
}

// syncCommand handles backend connectivity.
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Inspect and drive synchronization with the backend",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show backend connectivity and the loaded state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SyncStatus,
			},
			{
				Name:  "watch",
				Usage: "Run the periodic pull without the display",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "interval",
						Usage: "Pull interval (default: sync.poll_interval_seconds)",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Serve /healthz, /state and /metrics on this address (overrides metrics.addr)",
					},
				},
				Action: r.SyncWatch,
			},
			{
				Name:   "reconnect",
				Usage:  "Retry the backend and reconcile",
				Action: r.SyncReconnect,
			},
		},
	}
}
