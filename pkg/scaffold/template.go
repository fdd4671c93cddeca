package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/olimci/create-creatif/pkg/utils/decode"
)

// ManifestFiles are the names a template set's manifest may have, in lookup order.
var ManifestFiles = []string{"template.toml", "template.yaml", "template.yml", "template.json"}

var defaultDelims = []string{"{{", "}}"}

var ErrInvalidManifest = errors.New("invalid template manifest")

type TemplateManifest struct {
	Name        string `toml:"name" yaml:"name" json:"name"`
	Description string `toml:"description" yaml:"description" json:"description"`
	Version     string `toml:"version" yaml:"version" json:"version"`

	// CreatifVersion is the lowest create-creatif version able to render this set.
	CreatifVersion   string            `toml:"creatif_version" yaml:"creatif_version" json:"creatif_version"`
	Delims           []string          `toml:"delims" yaml:"delims" json:"delims"`
	TemplatePatterns []string          `toml:"template_patterns" yaml:"template_patterns" json:"template_patterns"`
	Overwrite        []string          `toml:"overwrite" yaml:"overwrite" json:"overwrite"`
	Renames          map[string]string `toml:"renames" yaml:"renames" json:"renames"`
}

func (m *TemplateManifest) validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}

	switch len(m.Delims) {
	case 0:
		m.Delims = slices.Clone(defaultDelims)
	case 2:
		if m.Delims[0] == "" || m.Delims[1] == "" {
			return fmt.Errorf("%w: delims must not be empty", ErrInvalidManifest)
		}
	default:
		return fmt.Errorf("%w: delims must be a [left, right] pair", ErrInvalidManifest)
	}

	if m.Renames == nil {
		m.Renames = make(map[string]string)
	}

	return nil
}

// Template is one set of files sharing a manifest.
type Template struct {
	Manifest     TemplateManifest
	FS           fs.FS
	BasePath     string
	ManifestFile string
}

func loadTemplate(fsys fs.FS, basePath string) (*Template, error) {
	for _, name := range ManifestFiles {
		manifestPath := path.Join(basePath, name)

		f, err := fsys.Open(manifestPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, fmt.Errorf("opening manifest: %w", err)
		}

		var manifest TemplateManifest
		format, err := decode.FormatOf(name)
		if err == nil {
			err = decode.Strict(format, f, &manifest)
		}
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, manifestPath, err)
		}

		if err := manifest.validate(); err != nil {
			return nil, err
		}

		return &Template{
			Manifest:     manifest,
			FS:           fsys,
			BasePath:     basePath,
			ManifestFile: name,
		}, nil
	}

	return nil, fmt.Errorf("%w: no manifest in %s (looked for %s)", ErrInvalidManifest, basePath, strings.Join(ManifestFiles, ", "))
}

// ShouldProcessAsTemplate reports whether the file at relPath (source side) is rendered.
func (t *Template) ShouldProcessAsTemplate(relPath string) bool {
	return matchesGlobs(relPath, t.Manifest.TemplatePatterns)
}

// AllowsOverwrite reports whether the destination relPath may replace an existing file.
func (t *Template) AllowsOverwrite(relPath string) bool {
	return matchesGlobs(relPath, t.Manifest.Overwrite)
}

// DestinationPath maps a source path to its destination. Renames are keyed by the full
// source path or the base name; otherwise a leading "_" in the base name becomes ".".
func (t *Template) DestinationPath(relPath string) string {
	if dest, ok := t.Manifest.Renames[relPath]; ok {
		return dest
	}

	dir, base := path.Split(relPath)
	if dest, ok := t.Manifest.Renames[base]; ok {
		base = dest
	} else if strings.HasPrefix(base, "_") && len(base) > 1 {
		base = "." + base[1:]
	}

	return path.Join(dir, base)
}

// Files lists the slash-separated source paths of the set, without the manifest, sorted.
func (t *Template) Files() ([]string, error) {
	var files []string

	err := fs.WalkDir(t.FS, t.BasePath, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := p
		if t.BasePath != "." {
			rel = strings.TrimPrefix(p, t.BasePath+"/")
		}
		if rel == t.ManifestFile {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}
