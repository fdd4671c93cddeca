package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olimci/create-creatif/pkg/archive"
	"github.com/olimci/create-creatif/pkg/config"
	"github.com/olimci/create-creatif/pkg/pipeline"
	"github.com/olimci/create-creatif/pkg/scaffold"
	"github.com/olimci/create-creatif/pkg/secret"
	"github.com/olimci/create-creatif/pkg/utils/fileutils"
	"github.com/olimci/create-creatif/pkg/utils/set"
	"github.com/olimci/create-creatif/pkg/version"
)

const (
	BackendDir  = "backend"
	ArchiveName = "backend.zip"
	EnvFile     = ".env"
)

var (
	ErrCreateFailed    = errors.New("creating project failed")
	ErrDirectoryExists = errors.New("directory already exists")
	ErrFileExists      = errors.New("file already exists")
)

// Creator scaffolds new Creatif projects.
type Creator struct {
	cfg        *config.Config
	scaffolder *scaffold.Scaffolder
	downloader *archive.Downloader
	secrets    *secret.Generator
	options    *creatorOptions
}

func New(cfg *config.Config, scaffolder *scaffold.Scaffolder, opts ...Option) *Creator {
	o := defaultOptions().apply(opts...)

	downloader := archive.NewDownloader(
		archive.WithHTTPClient(o.httpClient),
		archive.WithTimeout(cfg.Archive.Timeout),
		archive.WithRetries(cfg.Archive.Retries),
	)

	secretOpts := []secret.Option{
		secret.WithLength(cfg.Secret.Length),
		secret.WithHash(cfg.Secret.Hash),
		secret.WithRand(o.rand),
	}
	if o.bcryptCost > 0 {
		secretOpts = append(secretOpts, secret.WithCost(o.bcryptCost))
	}

	return &Creator{
		cfg:        cfg,
		scaffolder: scaffolder,
		downloader: downloader,
		secrets:    secret.NewGenerator(secretOpts...),
		options:    o,
	}
}

type Result struct {
	WorkingDirectory string
	ProjectName      string
	// FilesCreated lists written files, slash-separated and relative to WorkingDirectory.
	// Files unpacked from the backend archive are not included.
	FilesCreated []string
	SecretHashed bool
	Report       *pipeline.Report
	RolledBack   bool
}

// Create runs every stage for opts. On failure whatever the run created is removed again
// and the returned error wraps ErrCreateFailed.
func (c *Creator) Create(ctx context.Context, opts Options) (*Result, error) {
	baseDir := c.options.baseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
		}
		baseDir = wd
	}

	name := opts.ResolveProjectName(baseDir)
	if err := ValidateProjectName(name); err != nil {
		return nil, err
	}

	r := &run{
		creator: c,
		opts:    opts,
		workDir: resolveWorkDir(baseDir, opts.AppDirectory),
		files:   set.New[string](),
		created: set.New[string](),
	}
	r.backendDir = filepath.Join(r.workDir, BackendDir)
	r.archivePath = filepath.Join(r.backendDir, ArchiveName)
	r.vars = scaffold.NewVariables(scaffold.VariablesConfig{
		Directory:    r.workDir,
		ProjectName:  name,
		Version:      version.String(),
		ServerPort:   c.cfg.Server.Port,
		FrontendPort: c.cfg.Frontend.Port,
		APIHost:      c.cfg.Frontend.APIHost,
	})

	result := &Result{
		WorkingDirectory: r.workDir,
		ProjectName:      name,
	}

	if err := r.prepare(); err != nil {
		return result, c.fail(r, result, err)
	}

	report, err := pipeline.Run(ctx, r.stages(),
		pipeline.WithDiagnosticSink(c.options.sink),
		pipeline.WithWrapper(c.options.wrapper),
	)
	result.Report = report
	result.SecretHashed = r.secretHashed

	if err != nil {
		return result, c.fail(r, result, err)
	}

	result.FilesCreated = set.Sorted(r.files)

	return result, nil
}

func (c *Creator) fail(r *run, result *Result, cause error) error {
	if err := r.rollback(); err != nil {
		c.options.sink.Report(pipeline.Diagnostic{
			Level:   pipeline.LevelError,
			Source:  r.workDir,
			Message: "rollback incomplete, remove leftover files manually",
			Err:     err,
		})
	} else {
		result.RolledBack = true
	}

	return fmt.Errorf("%w: %w", ErrCreateFailed, cause)
}

func resolveWorkDir(baseDir, appDir string) string {
	appDir = strings.TrimSpace(appDir)
	if appDir == "" {
		return filepath.Clean(baseDir)
	}
	if filepath.IsAbs(appDir) {
		return filepath.Clean(appDir)
	}
	return filepath.Join(baseDir, appDir)
}

// run is the state of a single Create call.
type run struct {
	creator *Creator
	opts    Options
	vars    *scaffold.Variables

	workDir     string
	backendDir  string
	archivePath string

	// createdRoot is the outermost directory this run created, if any.
	createdRoot string
	// before holds the working directory's entries when it already existed.
	before *set.Set[string]
	// backendExisted is set when an empty backend/ was already there.
	backendExisted bool

	// files holds every path the run wrote, created holds the ones that did not exist before.
	// Both are slash-separated and relative to workDir.
	files   *set.Set[string]
	created *set.Set[string]
	// dirs lists directories the run created inside workDir, parents first.
	dirs []string

	secretHashed bool
}

// prepare makes sure the working directory and an empty backend/ exist.
func (r *run) prepare() error {
	info, err := os.Stat(r.workDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		root, err := outermostMissing(r.workDir)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(r.workDir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", r.workDir, err)
		}
		r.createdRoot = root
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", ErrDirectoryExists, r.workDir)
	default:
		entries, err := fileutils.Entries(r.workDir)
		if err != nil {
			return err
		}
		if r.opts.AppDirectory != "" && entries.Len() > 0 && !r.opts.Force {
			return fmt.Errorf("%w: %s is not empty (use --force to scaffold into it)", ErrDirectoryExists, r.workDir)
		}
		if entries.Has(EnvFile) && !r.opts.Force {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrFileExists, EnvFile)
		}
		r.before = entries
	}

	if entries, err := fileutils.Entries(r.backendDir); err == nil {
		if entries.Len() > 0 {
			return fmt.Errorf("%w: %s is not empty", ErrDirectoryExists, r.backendDir)
		}
		r.backendExisted = true
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := os.Mkdir(r.backendDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", r.backendDir, err)
	}
	return nil
}

// rollback removes what the run added. Files that existed before are left alone,
// including those replaced under Force.
func (r *run) rollback() error {
	if r.createdRoot != "" {
		return os.RemoveAll(r.createdRoot)
	}

	var errs []error
	for _, rel := range set.Sorted(r.created) {
		if err := os.Remove(filepath.Join(r.workDir, filepath.FromSlash(rel))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	for _, rel := range slices.Backward(r.dirs) {
		dir := filepath.Join(r.workDir, filepath.FromSlash(rel))
		if entries, err := os.ReadDir(dir); err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			errs = append(errs, err)
		}
	}

	if r.before == nil {
		return errors.Join(errs...)
	}

	current, err := fileutils.Entries(r.workDir)
	if err != nil {
		return errors.Join(append(errs, err)...)
	}

	for _, name := range set.Sorted(current.Difference(r.before)) {
		if err := os.RemoveAll(filepath.Join(r.workDir, name)); err != nil {
			errs = append(errs, err)
		}
	}

	if r.backendExisted {
		if entries, err := fileutils.Entries(r.backendDir); err == nil {
			for _, name := range entries.Values() {
				if err := os.RemoveAll(filepath.Join(r.backendDir, name)); err != nil {
					errs = append(errs, err)
				}
			}
		}
	}

	return errors.Join(errs...)
}

func outermostMissing(dir string) (string, error) {
	missing := dir
	for {
		parent := filepath.Dir(missing)
		if parent == missing {
			return missing, nil
		}

		_, err := os.Stat(parent)
		if err == nil {
			return missing, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		missing = parent
	}
}

func (r *run) rel(path string) string {
	rel, err := filepath.Rel(r.workDir, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
