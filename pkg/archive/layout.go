package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var ErrArchiveLayout = errors.New("unexpected archive layout")

// SingleRoot returns the name of the only entry in dir, which must be a directory.
// Entries named in ignore are left out.
func SingleRoot(dir string, ignore ...string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	entries = slices.DeleteFunc(entries, func(e os.DirEntry) bool {
		return slices.Contains(ignore, e.Name())
	})

	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		slices.Sort(names)
		return "", fmt.Errorf("%w: expected one top-level directory, found %d entries [%s]",
			ErrArchiveLayout, len(entries), strings.Join(names, ", "))
	}

	if !entries[0].IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrArchiveLayout, entries[0].Name())
	}

	return entries[0].Name(), nil
}

// Flatten moves the contents of dir/root up into dir. The emptied root is left in place.
func Flatten(dir, root string) ([]string, error) {
	src := filepath.Join(dir, root)

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, err
	}

	moved := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == root {
			return moved, fmt.Errorf("%w: %s contains an entry with its own name", ErrArchiveLayout, root)
		}

		to := filepath.Join(dir, name)
		if _, err := os.Lstat(to); err == nil {
			return moved, fmt.Errorf("%w: %s already exists", ErrArchiveLayout, to)
		}

		if err := os.Rename(filepath.Join(src, name), to); err != nil {
			return moved, err
		}
		moved = append(moved, name)
	}

	return moved, nil
}

// PruneError reports a path that could not be removed.
type PruneError struct {
	Path string
	Err  error
}

func (e *PruneError) Error() string {
	return fmt.Sprintf("prune %s: %v", e.Path, e.Err)
}

func (e *PruneError) Unwrap() error {
	return e.Err
}

// Prune removes each of paths (relative to dir) recursively. Missing paths are not an error.
// Every path is attempted; failures are returned together.
func Prune(dir string, paths []string) []error {
	var errs []error

	for _, p := range paths {
		target, err := safeJoin(dir, filepath.ToSlash(p))
		if err == nil && filepath.Clean(target) == filepath.Clean(dir) {
			err = fmt.Errorf("%w: %q", ErrUnsafePath, p)
		}
		if err != nil {
			errs = append(errs, &PruneError{Path: p, Err: err})
			continue
		}

		if err := os.RemoveAll(target); err != nil {
			errs = append(errs, &PruneError{Path: p, Err: err})
		}
	}

	return errs
}
