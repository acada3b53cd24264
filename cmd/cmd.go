// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func accountFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "account",
		Aliases: []string{"a"},
		Usage:   "Spotcast account entry ID (defaults to the integration default)",
	}
}

// accountsCommand lists the spotcast accounts known to the host.
func accountsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "accounts",
		Usage:  "List configured Spotify accounts",
		Flags:  jsonFlags(),
		Action: r.Accounts,
	}
}

// devicesCommand lists Spotify Connect and cast devices.
func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List playback devices",
		Flags: append(jsonFlags(),
			accountFlag(),
			&cli.BoolFlag{
				Name:  "cast",
				Usage: "Include Chromecast devices",
			},
		),
		Action: r.Devices,
	}
}

// playerCommand shows the current playback state.
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "player",
		Aliases: []string{"now"},
		Usage:   "Show current playback state",
		Flags:   append(jsonFlags(), accountFlag()),
		Action:  r.Player,
	}
}

// viewCommand lists the entries of a browsing view.
func viewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "List a Spotify browsing view",
		Flags: append(jsonFlags(),
			accountFlag(),
			&cli.StringFlag{
				Name:  "url",
				Usage: "View location key",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of entries to return",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Include entries that are not playable playlists",
			},
		),
		Action: r.View,
	}
}

// browseCommand exposes the category catalog.
func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse the Spotify catalog",
		Commands: []*cli.Command{
			{
				Name:   "categories",
				Usage:  "List browse categories",
				Flags:  append(jsonFlags(), accountFlag()),
				Action: r.Categories,
			},
			{
				Name:  "playlists",
				Usage: "List playlists of a category",
				Flags: append(jsonFlags(),
					accountFlag(),
					&cli.StringFlag{
						Name:     "category",
						Usage:    "Category ID",
						Required: true,
					},
				),
				Action: r.CategoryPlaylists,
			},
		},
	}
}

// searchCommand searches the catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search Spotify",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: append(jsonFlags(),
			accountFlag(),
			&cli.StringFlag{
				Name:  "type",
				Usage: "Item type to search for (track or playlist)",
				Value: "track",
			},
		),
		Action: r.Search,
	}
}

// playCommand starts playback of a uri.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Start playback of a Spotify URI",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "uri",
			},
		},
		Flags:  []cli.Flag{accountFlag()},
		Action: r.Play,
	}
}

// likeCommand saves a track to the library.
func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "like",
		Usage: "Save a track to the Spotify library",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "uri",
			},
		},
		Action: r.Like,
	}
}

// exportCommand writes a playlist's tracks to a local file.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlist tracks to CSV, Markdown, text, or JSON",
		Flags: []cli.Flag{
			accountFlag(),
			&cli.StringFlag{
				Name:     "playlist",
				Aliases:  []string{"p"},
				Usage:    "Playlist ID to export",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format (csv, markdown, text, json)",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output path (base name for csv, directory for markdown)",
			},
		},
		Action: r.Export,
	}
}

// tuiCommand returns the top-level TUI command for interactive playback control.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playback widget",
		Action:  r.TUI,
	}
}
