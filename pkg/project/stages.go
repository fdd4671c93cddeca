package project

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"

	"github.com/olimci/create-creatif/pkg/archive"
	"github.com/olimci/create-creatif/pkg/pipeline"
	"github.com/olimci/create-creatif/pkg/scaffold"
	"github.com/olimci/create-creatif/pkg/utils/fileutils"
	"github.com/olimci/create-creatif/templates"
)

const (
	StageFetch    = "fetch"
	StageExtract  = "extract"
	StageRelocate = "relocate"
	StageScaffold = "scaffold"
	StageEnv      = "env"
	StageStarter  = "starter"
)

func (r *run) stages() []pipeline.Stage {
	stages := []pipeline.Stage{
		pipeline.StageFunc(StageFetch, "Downloading backend files", r.fetch),
		pipeline.StageFunc(StageExtract, "Extracting backend files", r.extract),
		pipeline.StageFunc(StageRelocate, "Preparing backend directory", r.relocate),
		pipeline.StageFunc(StageScaffold, "Preparing project", r.scaffold),
		pipeline.StageFunc(StageEnv, "Writing environment files", r.env),
	}

	if r.opts.HasStarterProject {
		stages = append(stages, pipeline.StageFunc(StageStarter, "Creating starter project", r.starter))
	}

	return stages
}

func (r *run) fetch(sc *pipeline.StageContext) error {
	url := r.creator.cfg.Archive.URL
	sc.Debugf(url, "downloading to %s", r.rel(r.archivePath))

	n, err := r.creator.downloader.Download(sc.Ctx, url, r.archivePath)
	if err != nil {
		return sc.Error(url, "downloading backend repository", err)
	}

	sc.Infof(r.rel(r.archivePath), "downloaded %s", humanize.Bytes(uint64(n)))
	return nil
}

func (r *run) extract(sc *pipeline.StageContext) error {
	res, err := archive.Extract(r.archivePath, r.backendDir)
	if err != nil {
		return sc.Error(r.rel(r.archivePath), "extracting backend repository", err)
	}

	for _, name := range res.Skipped {
		sc.Warnf(name, "skipped archive entry (not a regular file or directory)")
	}

	sc.Infof(BackendDir, "extracted %d files", res.Files)
	return nil
}

func (r *run) relocate(sc *pipeline.StageContext) error {
	zipRel := r.rel(r.archivePath)
	if err := os.Remove(r.archivePath); err != nil {
		sc.Warn(zipRel, "could not remove the backend archive, remove it manually", err)
	}

	root, err := archive.SingleRoot(r.backendDir, ArchiveName)
	if err != nil {
		return sc.Error(BackendDir, "locating extracted repository", err)
	}

	moved, err := archive.Flatten(r.backendDir, root)
	if err != nil {
		return sc.Error(BackendDir+"/"+root, "moving backend files", err)
	}
	sc.Debugf(BackendDir, "moved %d entries out of %s", len(moved), root)

	if err := os.Remove(filepath.Join(r.backendDir, root)); err != nil {
		sc.Warn(BackendDir+"/"+root, "could not remove the extracted directory, remove it manually", err)
	}

	for _, err := range archive.Prune(r.backendDir, r.creator.cfg.Archive.Prune) {
		source := BackendDir
		var pe *archive.PruneError
		if errors.As(err, &pe) {
			source = BackendDir + "/" + pe.Path
		}
		sc.Warn(source, "could not fully prepare the backend directory, remove it manually", err)
	}

	return nil
}

func (r *run) scaffold(sc *pipeline.StageContext) error {
	return r.render(sc, templates.Base)
}

func (r *run) starter(sc *pipeline.StageContext) error {
	return r.render(sc, templates.Starter)
}

func (r *run) render(sc *pipeline.StageContext, name string) error {
	res, err := r.creator.scaffolder.Scaffold(sc.Ctx, name, r.workDir, r.vars,
		scaffold.WithForce(r.opts.Force),
		scaffold.WithOnFile(func(e scaffold.FileEvent) {
			verb := "created"
			if e.Replaced {
				verb = "replaced"
			}
			sc.Debugf(e.Path, "%s (%s)", verb, humanize.Bytes(uint64(e.Size)))
		}),
	)
	if res != nil {
		r.dirs = append(r.dirs, res.DirsCreated...)
		for _, f := range res.FilesCreated {
			r.created.Add(f)
		}
		for _, f := range res.Files() {
			r.files.Add(f)
		}
	}
	if err != nil {
		return sc.Error(name, "rendering templates", err)
	}

	sc.Infof(name, "wrote %d files", len(res.Files()))
	return nil
}

func (r *run) env(sc *pipeline.StageContext) error {
	s, err := r.creator.secrets.Generate()
	if err != nil {
		return sc.Error("DATABASE_PASSWORD", "generating database password", err)
	}

	r.secretHashed = s.Hashed
	if s.Hashed {
		sc.Warn("DATABASE_PASSWORD", "the written value is a bcrypt hash of the generated secret, use --plain-secret to write the secret itself", nil)
	}

	cfg := r.creator.cfg
	database := map[string]string{
		"DATABASE_PASSWORD": s.Value,
		"DATABASE_USER":     cfg.Database.User,
		"DATABASE_HOST":     cfg.Database.Host,
		"DATABASE_NAME":     cfg.Database.Name,
		"DATABASE_PORT":     fmt.Sprint(cfg.Database.Port),
	}

	backend := map[string]string{
		"APP_ENV":          cfg.Server.AppEnv,
		"SERVER_HOST":      cfg.Server.Host,
		"SERVER_PORT":      fmt.Sprint(cfg.Server.Port),
		"LOG_DIRECTORY":    cfg.Paths.LogDirectory,
		"ASSETS_DIRECTORY": cfg.Paths.AssetsDirectory,
	}
	for k, v := range database {
		backend[k] = v
	}

	frontend := map[string]string{
		"VITE_API_HOST": cfg.Frontend.APIHost,
	}
	for k, v := range database {
		frontend[k] = v
	}

	for _, f := range []struct {
		path string
		env  map[string]string
	}{
		{filepath.Join(r.workDir, EnvFile), frontend},
		{filepath.Join(r.backendDir, EnvFile), backend},
	} {
		_, statErr := os.Stat(f.path)
		if err := r.writeEnv(f.path, f.env); err != nil {
			return sc.Error(r.rel(f.path), "writing environment file", err)
		}
		if errors.Is(statErr, fs.ErrNotExist) {
			r.created.Add(r.rel(f.path))
		}
		r.files.Add(r.rel(f.path))
		sc.Debugf(r.rel(f.path), "wrote %d variables", len(f.env))
	}

	return nil
}

func (r *run) writeEnv(path string, env map[string]string) error {
	if _, err := os.Stat(path); err == nil && !r.opts.Force {
		return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, r.rel(path))
	}

	content, err := godotenv.Marshal(env)
	if err != nil {
		return err
	}

	return fileutils.AtomicWrite(path, 0o600, func(w io.Writer) error {
		_, err := io.WriteString(w, strings.TrimRight(content, "\n")+"\n")
		return err
	})
}
