package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/olimci/create-creatif/pkg/config"
	"github.com/olimci/create-creatif/pkg/project"
	"github.com/urfave/cli/v3"
)

func createFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Project name (defaults to the app directory)"},
		&cli.BoolFlag{Name: "starter", Aliases: []string{"s"}, Usage: "Include the starter project"},
		&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Scaffold into a non-empty directory and overwrite existing files"},
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file (.toml, .yaml, .yml, .json)"},
		&cli.BoolFlag{Name: "plain-secret", Usage: "Write the generated database password instead of its bcrypt hash"},
	}
}

func loadCreateConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(strings.TrimSpace(cmd.String("config")))
	if err != nil {
		return nil, err
	}

	if cmd.Bool("plain-secret") {
		cfg.Secret.Hash = false
	}

	return cfg, nil
}

func createOptions(cmd *cli.Command) project.Options {
	return project.Options{
		AppDirectory:      strings.TrimSpace(cmd.Args().First()),
		ProjectName:       strings.TrimSpace(cmd.String("name")),
		HasStarterProject: cmd.Bool("starter"),
		Force:             cmd.Bool("force"),
	}
}

func newCreator(cfg *config.Config, opts ...project.Option) (*project.Creator, error) {
	s, err := scaffolder.Get()
	if err != nil {
		return nil, err
	}
	return project.New(cfg, s, opts...), nil
}

// validateAppDirectory accepts a blank answer, a missing path or an empty directory.
func validateAppDirectory(force bool) func(string) error {
	return func(dir string) error {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			return nil
		}

		entries, err := os.ReadDir(dir)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil
		case err != nil:
			if info, serr := os.Stat(dir); serr == nil && !info.IsDir() {
				return fmt.Errorf("%s exists and is not a directory", dir)
			}
			return err
		case len(entries) > 0 && !force:
			return fmt.Errorf("%s already exists and is not empty", dir)
		}

		return nil
	}
}

func validateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return project.ValidateProjectName(strings.TrimSpace(name))
}
