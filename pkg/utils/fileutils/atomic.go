package fileutils

import (
	"bytes"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// AtomicWrite writes the output of gen to path through a temp file in the same directory,
// so readers see either the old file or the complete new one.
func AtomicWrite(path string, perm fs.FileMode, gen func(w io.Writer) error) error {
	tmp, err := writeTemp(path, perm, gen)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}
	return nil
}

// AtomicEdit is AtomicWrite for replacing a file. path is left alone when neither its
// content nor its permissions would change.
func AtomicEdit(path string, perm fs.FileMode, gen func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := gen(&buf); err != nil {
		return err
	}

	if unchanged(path, perm, buf.Bytes()) {
		return nil
	}

	return AtomicWrite(path, perm, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func unchanged(path string, perm fs.FileMode, content []byte) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if info.Mode().Perm() != perm || info.Size() != int64(len(content)) {
		return false
	}

	current, err := os.ReadFile(path)
	return err == nil && bytes.Equal(current, content)
}

func writeTemp(path string, perm fs.FileMode, gen func(w io.Writer) error) (name string, err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", err
	}

	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(f.Name())
			name = ""
		}
	}()

	if err = gen(f); err != nil {
		return "", err
	}
	if err = f.Chmod(perm); err != nil {
		return "", err
	}
	if err = f.Sync(); err != nil {
		return "", err
	}

	return f.Name(), nil
}
