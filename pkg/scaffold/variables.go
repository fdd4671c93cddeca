package scaffold

import (
	"path/filepath"
	"regexp"
	"strings"
)

const fallbackSlug = "creatif-app"

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// Variables is the data every template is rendered with.
type Variables struct {
	ProjectName  string
	ProjectSlug  string
	Version      string
	ServerPort   int
	FrontendPort int
	APIHost      string
}

type VariablesConfig struct {
	Directory    string
	ProjectName  string
	Version      string
	ServerPort   int
	FrontendPort int
	APIHost      string
}

func NewVariables(cfg VariablesConfig) *Variables {
	name := strings.TrimSpace(cfg.ProjectName)
	if name == "" {
		name = deriveProjectName(cfg.Directory)
	}

	slug := toSlug(name)
	if slug == "" {
		slug = fallbackSlug
	}

	return &Variables{
		ProjectName:  name,
		ProjectSlug:  slug,
		Version:      cfg.Version,
		ServerPort:   cfg.ServerPort,
		FrontendPort: cfg.FrontendPort,
		APIHost:      cfg.APIHost,
	}
}

func deriveProjectName(dir string) string {
	if dir == "" {
		return fallbackSlug
	}

	name := filepath.Base(filepath.Clean(dir))
	if name == "." || name == string(filepath.Separator) {
		return fallbackSlug
	}

	return name
}

// toSlug lowercases s and collapses everything outside [a-z0-9] into single dashes.
// The result is usable as an npm package and compose project name.
func toSlug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	s = nonSlugChars.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
