package cmd

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/olimci/create-creatif/pkg/pipeline"
	"github.com/olimci/create-creatif/pkg/project"
	"github.com/urfave/cli/v3"
)

func runXCreate(ctx context.Context, cmd *cli.Command) error {
	level, err := pipeline.ParseLevel(cmd.String("log-level"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	cfg, err := loadCreateConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           logLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	collector := pipeline.NewCollector(
		pipeline.WithMinLevel(level),
		pipeline.WithOnReport(func(d pipeline.Diagnostic) {
			logDiagnostic(logger, d)
		}),
	)

	opts := createOptions(cmd)
	creator, err := newCreator(cfg,
		project.WithDiagnosticSink(collector),
		project.WithWrapper(stageLogger(logger)),
	)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	res, err := creator.Create(ctx, opts)
	if err != nil {
		if res != nil && res.RolledBack {
			logger.Info("rolled back", "dir", res.WorkingDirectory)
		}
		return cli.Exit(err.Error(), 1)
	}

	logger.Info("project created",
		"dir", res.WorkingDirectory,
		"files", len(res.FilesCreated),
		"took", res.Report.Duration().Truncate(time.Millisecond),
		"diagnostics", collector.Summary(),
	)

	printOutro(os.Stdout, newStyles(), cfg, opts, res)
	return nil
}

func stageLogger(logger *log.Logger) pipeline.Wrapper {
	return func(stage pipeline.Stage, run func() error) error {
		logger.Info(stage.Title, "stage", stage.ID)

		start := time.Now()
		err := run()
		took := time.Since(start).Truncate(time.Millisecond)

		if err != nil {
			logger.Error("stage failed", "stage", stage.ID, "took", took, "err", err)
			return err
		}

		logger.Debug("stage done", "stage", stage.ID, "took", took)
		return nil
	}
}

func logDiagnostic(logger *log.Logger, d pipeline.Diagnostic) {
	var kv []any
	if d.StageID != "" {
		kv = append(kv, "stage", d.StageID)
	}
	if d.Source != "" {
		kv = append(kv, "source", d.Source)
	}
	if d.Err != nil {
		kv = append(kv, "err", d.Err)
	}

	logger.Log(logLevel(d.Level), d.Message, kv...)
}

func logLevel(level pipeline.Level) log.Level {
	switch level {
	case pipeline.LevelDebug:
		return log.DebugLevel
	case pipeline.LevelWarning:
		return log.WarnLevel
	case pipeline.LevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
