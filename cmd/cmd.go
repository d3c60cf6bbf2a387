// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/plx/internal/shared"
	"github.com/urfave/cli/v3"
)

// newApp builds the root command. Global flags are read by [Runner.setup] before any action runs.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "plx",
		Usage:   "Browse your playlists and export them as CSV",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Backend base URL (overrides backend.base_url)",
				Sources: cli.EnvVars("PLX_API_BASE_URL"),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.setup,
		Commands: r.register(),
	}
}

// browseCommand launches the interactive playlist browser.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "browse",
		Aliases: []string{"ui", "tui"},
		Usage:   "Browse playlists and tracks in an interactive TUI",
		Action:  r.Browse,
	}
}

// loginCommand opens the backend's login flow in the browser.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "login",
		Usage:  "Open the backend login page in your browser",
		Action: r.Login,
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"ls"},
		Usage:   "List your playlists",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Usage:   "Fuzzy match playlist names",
			},
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
		Action: r.Playlists,
	}
}

func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "List the tracks of a playlist",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
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
		Action: r.Tracks,
	}
}

func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a playlist's tracks as CSV",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path, or - for stdout (default: export.dir/export.filename)",
			},
			&cli.StringFlag{
				Name:  "dialect",
				Usage: "CSV dialect: " + shared.DialectVerbatim + " or " + shared.DialectRFC4180,
			},
		},
		Action: r.Export,
	}
}

func exportAllCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export-all",
		Usage: "Export many playlists as CSV files with a manifest",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for the CSV files (default: plx_export_<epoch>)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent writers, max 10 (default: bulk.workers)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Track fetches per second (default: bulk.rate_limit)",
			},
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "Playlist ID to export, repeatable (default: all playlists)",
			},
		},
		Action: r.ExportAll,
	}
}

// sessionCommand manages the backend session cookie.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Manage the backend session",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Store the session cookie from a browser request copied as cURL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
				},
				Action: r.SessionImport,
			},
		},
	}
}

func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "Write the example configuration file",
				Action: r.ConfigInit,
			},
		},
	}
}
