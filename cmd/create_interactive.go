package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/olimci/create-creatif/pkg/pipeline"
	"github.com/olimci/create-creatif/pkg/project"
	"github.com/urfave/cli/v3"
)

func runCreateInteractive(ctx context.Context, cmd *cli.Command) error {
	styles := newStyles()

	cfg, err := loadCreateConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	opts := createOptions(cmd)
	if err := promptCreateOptions(ctx, &opts); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println(styles.muted.Render("Cancelled"))
			return nil
		}
		return cli.Exit(err.Error(), 1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui := newStageUI(os.Stdout, cancel, newLogPrinter(logOutputRich, os.Stderr))
	collector := pipeline.NewCollector(
		pipeline.WithMinLevel(pipeline.LevelDebug),
		pipeline.WithOnReport(ui.Report),
	)

	creator, err := newCreator(cfg,
		project.WithDiagnosticSink(collector),
		project.WithWrapper(ui.Wrap),
	)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println()
	res, err := creator.Create(ctx, opts)
	if err != nil {
		return createFailed(styles, res, err)
	}

	printOutro(os.Stdout, styles, cfg, opts, res)
	return nil
}

func promptCreateOptions(ctx context.Context, opts *project.Options) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("App directory").
				Description("Leave blank to create the project in the current directory").
				Placeholder("my-creatif-app").
				Value(&opts.AppDirectory).
				Validate(validateAppDirectory(opts.Force)),
			huh.NewInput().
				Title("Project name").
				Description("Leave blank to use the app directory").
				CharLimit(project.MaxProjectNameLength).
				Value(&opts.ProjectName).
				Validate(validateProjectName),
			huh.NewConfirm().
				Title("Include the starter project?").
				Description("A small real estate manager built on Creatif").
				Affirmative("Yes").
				Negative("No").
				Value(&opts.HasStarterProject),
		),
	).
		WithTheme(huh.ThemeCatppuccin()).
		WithAccessible(!isTerminal(os.Stdin))

	if err := form.RunWithContext(ctx); err != nil {
		return err
	}

	opts.AppDirectory = strings.TrimSpace(opts.AppDirectory)
	opts.ProjectName = strings.TrimSpace(opts.ProjectName)
	return nil
}

func createFailed(styles uiStyles, res *project.Result, err error) error {
	fmt.Println()

	if errors.Is(err, context.Canceled) {
		fmt.Println(styles.muted.Render("Cancelled"))
	} else {
		fmt.Println(styles.failure.Render("Creating the project failed"))
	}

	if res != nil && res.RolledBack {
		fmt.Println(styles.muted.Render("Removed everything this run created in " + res.WorkingDirectory))
	}

	return cli.Exit(err.Error(), 1)
}
