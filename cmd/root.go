package cmd

import (
	"context"

	"github.com/olimci/create-creatif/pkg/version"
	"github.com/urfave/cli/v3"
)

var Version = version.String()

func Execute(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:      "create-creatif",
		Usage:     "Scaffold a new Creatif application",
		ArgsUsage: "[directory]",
		Flags:     createFlags(),
		Action:    runCreateInteractive,
		Commands: []*cli.Command{
			{
				Name:      "create",
				Usage:     "Scaffold a new Creatif application",
				ArgsUsage: "[directory]",
				Flags:     createFlags(),
				Action:    runCreateInteractive,
			},
			{
				Name:  "templates",
				Usage: "List the embedded template sets",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "files", Aliases: []string{"f"}, Usage: "Also list the files of each set"},
				},
				Action: runTemplates,
			},
			{
				Name:   "version",
				Usage:  "print version",
				Action: runVersion,
			},
			xCmd(),
		},
	}

	return app.Run(ctx, args)
}
