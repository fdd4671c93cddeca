package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/olimci/create-creatif/pkg/utils/fileutils"
)

var ErrTemplateExists = errors.New("file already exists")

// Scaffolder renders template sets from a registry into target directories.
type Scaffolder struct {
	registry *TemplateRegistry
}

func NewScaffolder(registry *TemplateRegistry) *Scaffolder {
	return &Scaffolder{
		registry: registry,
	}
}

// NewScaffolderWithEmbedded loads every set under rootDir of fsys.
func NewScaffolderWithEmbedded(fsys fs.FS, rootDir string) (*Scaffolder, error) {
	registry := NewTemplateRegistry()

	if err := registry.LoadFromFS(fsys, rootDir); err != nil {
		return nil, fmt.Errorf("loading embedded templates: %w", err)
	}

	return NewScaffolder(registry), nil
}

func (s *Scaffolder) Registry() *TemplateRegistry {
	return s.registry
}

type FileEvent struct {
	Path     string // slash-separated, relative to the target
	Size     int
	Replaced bool
}

type ScaffoldResult struct {
	FilesCreated  []string
	FilesReplaced []string
	// DirsCreated lists directories that did not exist before, parents first.
	DirsCreated []string
}

// Files returns every path written, created or replaced.
func (r *ScaffoldResult) Files() []string {
	return append(append([]string{}, r.FilesCreated...), r.FilesReplaced...)
}

type plannedFile struct {
	dest    string
	content []byte
	exists  bool
}

// Scaffold renders the set called name into target, which must exist.
// Every file is rendered and checked before anything is written.
func (s *Scaffolder) Scaffold(ctx context.Context, name, target string, vars *Variables, opts ...Option) (*ScaffoldResult, error) {
	o := defaultOptions().apply(opts...)

	tmpl, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q; available templates: %s",
			ErrUnknownTemplate, name, strings.Join(s.registry.List(), ", "))
	}

	if vars == nil {
		return nil, fmt.Errorf("%w: %s: no variables", ErrRender, name)
	}

	plan, err := s.plan(ctx, tmpl, target, vars, o.force)
	if err != nil {
		return nil, err
	}

	result := &ScaffoldResult{
		FilesCreated:  make([]string, 0, len(plan)),
		FilesReplaced: make([]string, 0),
	}

	for _, f := range plan {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		destPath := filepath.Join(target, filepath.FromSlash(f.dest))
		dirs, err := mkdirs(target, path.Dir(f.dest))
		result.DirsCreated = append(result.DirsCreated, dirs...)
		if err != nil {
			return result, fmt.Errorf("creating parent directory for %s: %w", f.dest, err)
		}

		write := fileutils.AtomicWrite
		if f.exists {
			write = fileutils.AtomicEdit
		}

		content := f.content
		if err := write(destPath, 0o644, func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(content))
			return err
		}); err != nil {
			return result, fmt.Errorf("writing %s: %w", f.dest, err)
		}

		if f.exists {
			result.FilesReplaced = append(result.FilesReplaced, f.dest)
		} else {
			result.FilesCreated = append(result.FilesCreated, f.dest)
		}

		o.onFile(FileEvent{Path: f.dest, Size: len(content), Replaced: f.exists})
	}

	return result, nil
}

// mkdirs creates the slash-separated dir under target and returns the directories it had
// to create, outermost first.
func mkdirs(target, dir string) ([]string, error) {
	var missing []string
	for d := dir; d != "." && d != "/"; d = path.Dir(d) {
		if _, err := os.Stat(filepath.Join(target, filepath.FromSlash(d))); err == nil {
			break
		}
		missing = append(missing, d)
	}
	slices.Reverse(missing)

	var created []string
	for _, d := range missing {
		err := os.Mkdir(filepath.Join(target, filepath.FromSlash(d)), 0o755)
		switch {
		case errors.Is(err, fs.ErrExist):
			continue
		case err != nil:
			return created, err
		}
		created = append(created, d)
	}
	return created, nil
}

func (s *Scaffolder) plan(ctx context.Context, tmpl *Template, target string, vars *Variables, force bool) ([]plannedFile, error) {
	files, err := tmpl.Files()
	if err != nil {
		return nil, fmt.Errorf("listing template %s: %w", tmpl.Manifest.Name, err)
	}

	plan := make([]plannedFile, 0, len(files))
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := fs.ReadFile(tmpl.FS, path.Join(tmpl.BasePath, rel))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}

		if tmpl.ShouldProcessAsTemplate(rel) {
			content, err = render(tmpl, rel, content, vars)
			if err != nil {
				return nil, err
			}
		}

		dest := tmpl.DestinationPath(rel)
		if err := validateOutput(dest, content); err != nil {
			return nil, err
		}

		exists := false
		if info, err := os.Stat(filepath.Join(target, filepath.FromSlash(dest))); err == nil {
			if info.IsDir() {
				return nil, fmt.Errorf("%w: %s is a directory", ErrTemplateExists, dest)
			}
			if !force && !tmpl.AllowsOverwrite(dest) {
				return nil, fmt.Errorf("%w: %s (use --force to overwrite)", ErrTemplateExists, dest)
			}
			exists = true
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		plan = append(plan, plannedFile{dest: dest, content: content, exists: exists})
	}

	return plan, nil
}

type TemplateInfo struct {
	Name        string
	Description string
	Version     string
}

func (s *Scaffolder) ListTemplates() []TemplateInfo {
	templates := s.registry.All()
	infos := make([]TemplateInfo, 0, len(templates))

	for _, t := range templates {
		infos = append(infos, TemplateInfo{
			Name:        t.Manifest.Name,
			Description: t.Manifest.Description,
			Version:     t.Manifest.Version,
		})
	}

	return infos
}
