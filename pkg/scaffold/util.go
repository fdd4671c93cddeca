package scaffold

import (
	"path"
	"path/filepath"
	"strings"
)

// matchesGlobs reports whether relPath matches any pattern. Patterns without a slash
// match the base name; a "**" segment matches any number of directories.
func matchesGlobs(relPath string, patterns []string) bool {
	name := strings.Split(filepath.ToSlash(relPath), "/")

	for _, pattern := range patterns {
		pattern = strings.Trim(filepath.ToSlash(pattern), "/")
		if pattern == "" {
			continue
		}

		if !strings.Contains(pattern, "/") && pattern != "**" {
			if ok, err := path.Match(pattern, name[len(name)-1]); err == nil && ok {
				return true
			}
			continue
		}

		if matchSegments(strings.Split(pattern, "/"), name) {
			return true
		}
	}

	return false
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(name); i++ {
				if matchSegments(pattern[1:], name[i:]) {
					return true
				}
			}
			return false
		}

		if len(name) == 0 {
			return false
		}
		if ok, err := path.Match(pattern[0], name[0]); err != nil || !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}

	return len(name) == 0
}
