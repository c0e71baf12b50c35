// submodule cmd contains command definitions
package main

import (
	"context"

	"github.com/urfave/cli/v3"
)

// app builds the root command. Running it without a subcommand starts the TUI.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "tvx",
		Usage:   "Browse a show's episodes and pick your favourites",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			r.loadConfig(cmd.String("config"))
			return ctx, nil
		},
		Action:   r.TUI,
		Commands: r.register(),
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		tuiCommand, episodesCommand, showCommand, serveCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// tuiCommand returns the interactive episode browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive episode browser",
		Action:  r.TUI,
	}
}

// episodesCommand prints the fetched episode list.
func episodesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "episodes",
		Aliases: []string{"eps", "ls"},
		Usage:   "Fetch and print the episode list",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv, md or json",
				Value:   "text",
			},
			&cli.IntFlag{
				Name:    "season",
				Aliases: []string{"s"},
				Usage:   "Only print episodes from this season",
			},
			&cli.StringFlag{
				Name:    "search",
				Aliases: []string{"q"},
				Usage:   "Only print episodes whose name fuzzily matches",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to file instead of stdout",
			},
		},
		Action: r.Episodes,
	}
}

// showCommand prints show metadata.
func showCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the configured show's details",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
				Value: true,
			},
		},
		Action: r.Show,
	}
}

// serveCommand starts the web UI.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the episode browser as a local web page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the page in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write the example configuration to --config",
				Action: r.SetupConfig,
			},
		},
	}
}
