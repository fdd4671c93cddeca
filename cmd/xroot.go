package cmd

import (
	"github.com/urfave/cli/v3"
)

// xCmd returns the non-interactive subcommand group
func xCmd() *cli.Command {
	return &cli.Command{
		Name:  "x",
		Usage: "Non-interactive commands (for scripts and CI)",
		Commands: []*cli.Command{
			xCreateCmd(),
		},
	}
}

func xCreateCmd() *cli.Command {
	flags := append(createFlags(),
		&cli.StringFlag{
			Name:    "log-level",
			Aliases: []string{"l"},
			Value:   "info",
			Usage:   "Minimum level to log (debug, info, warning, error)",
		},
	)

	return &cli.Command{
		Name:      "create",
		Usage:     "Scaffold a new Creatif application (non-interactive)",
		ArgsUsage: "[directory]",
		Flags:     flags,
		Action:    runXCreate,
	}
}
