package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"

	"github.com/olimci/create-creatif/pkg/version"
)

var (
	ErrUnknownTemplate      = errors.New("unknown template")
	ErrDuplicateTemplate    = errors.New("duplicate template")
	ErrIncompatibleTemplate = errors.New("incompatible template")
)

type TemplateRegistry struct {
	templates map[string]*Template
	version   version.Version
}

func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*Template),
		version:   version.Current(),
	}
}

// LoadFromFS registers every directory under rootDir as a template set.
func (r *TemplateRegistry) LoadFromFS(fsys fs.FS, rootDir string) error {
	entries, err := fs.ReadDir(fsys, rootDir)
	if err != nil {
		return fmt.Errorf("reading scaffold directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t, err := loadTemplate(fsys, path.Join(rootDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("loading template %q: %w", entry.Name(), err)
		}
		if err := r.Register(t); err != nil {
			return err
		}
	}

	return nil
}

// Register adds a template set, checking it against the running version.
func (r *TemplateRegistry) Register(t *Template) error {
	name := t.Manifest.Name

	if _, ok := r.templates[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTemplate, name)
	}

	ok, err := r.version.Supports(t.Manifest.CreatifVersion)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidManifest, name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s requires create-creatif %s or newer (running %s)",
			ErrIncompatibleTemplate, name, t.Manifest.CreatifVersion, r.version)
	}

	r.templates[name] = t
	return nil
}

func (r *TemplateRegistry) Get(name string) (*Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// List returns the registered names, sorted.
func (r *TemplateRegistry) List() []string {
	return slices.Sorted(maps.Keys(r.templates))
}

func (r *TemplateRegistry) All() []*Template {
	all := make([]*Template, 0, len(r.templates))
	for _, name := range r.List() {
		all = append(all, r.templates[name])
	}
	return all
}
