package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var ErrUnsafePath = errors.New("unsafe path in archive")

type ExtractResult struct {
	Files int
	Dirs  int
	// Skipped lists entries that were not extracted, such as symlinks.
	Skipped []string
}

// Extract unpacks the zip archive at src into dest, which must exist.
// Entries resolving outside dest are rejected before anything is written for them.
func Extract(src, dest string) (*ExtractResult, error) {
	r, err := zip.OpenReader(src)
	if errors.Is(err, zip.ErrInsecurePath) {
		_ = r.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnsafePath, err)
	} else if err != nil {
		return nil, err
	}
	defer r.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, err
	}

	res := &ExtractResult{}
	for _, f := range r.File {
		target, err := safeJoin(root, f.Name)
		if err != nil {
			return res, err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0o755); err != nil {
				return res, err
			}
			res.Dirs++
		case mode&fs.ModeSymlink != 0:
			res.Skipped = append(res.Skipped, f.Name)
		default:
			if err := extractFile(f, target); err != nil {
				return res, fmt.Errorf("%s: %w", f.Name, err)
			}
			res.Files++
		}
	}

	return res, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, rc)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

func safeJoin(root, name string) (string, error) {
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") || strings.Contains(name, `\`) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	target := filepath.Join(root, filepath.FromSlash(name))
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}

	return target, nil
}
