package fileutils

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeString(s string) func(w io.Writer) error {
	return func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	}
}

func TestAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")

	if err := AtomicWrite(path, 0o644, writeString(`{"name":"demo"}`)); err != nil {
		t.Fatalf("AtomicWrite: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if string(data) != `{"name":"demo"}` {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o644 {
		t.Errorf("perm = %o, want 644", got)
	}

	assertNoTempFiles(t, dir)
}

func TestAtomicWrite_GeneratorError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.txt")
	boom := errors.New("boom")

	err := AtomicWrite(path, 0o644, func(w io.Writer) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("destination should not exist, stat err = %v", err)
	}

	assertNoTempFiles(t, dir)
}

func TestAtomicEdit_UnchangedKeepsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "App.tsx")

	if err := AtomicWrite(path, 0o644, writeString("same")); err != nil {
		t.Fatal(err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := AtomicEdit(path, 0o644, writeString("same")); err != nil {
		t.Fatalf("AtomicEdit: %v", err)
	}
	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !os.SameFile(before, after) {
		t.Error("unchanged content should not replace the file")
	}

	if err := AtomicEdit(path, 0o644, writeString("different")); err != nil {
		t.Fatalf("AtomicEdit: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "different" {
		t.Errorf("content = %q, want %q", data, "different")
	}

	assertNoTempFiles(t, dir)
}

func TestAtomicEdit_MissingTarget(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.txt")

	if err := AtomicEdit(path, 0o644, writeString("hello")); err != nil {
		t.Fatalf("AtomicEdit: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "hello" {
		t.Errorf("content = %q", data)
	}
}

func TestAtomicEdit_PermissionChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	if err := AtomicWrite(path, 0o644, writeString("A=1\n")); err != nil {
		t.Fatal(err)
	}
	if err := AtomicEdit(path, 0o600, writeString("A=1\n")); err != nil {
		t.Fatalf("AtomicEdit: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0o600 {
		t.Errorf("perm = %o, want 600", got)
	}
}

func TestEntries(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"a.txt", "src/index.tsx", "src/css/root.module.css"} {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := Entries(dir)
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if entries.Len() != 2 || !entries.Has("a.txt") || !entries.Has("src") {
		t.Errorf("Entries = %v", entries.Values())
	}

	if _, err := Entries(filepath.Join(dir, "missing")); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Entries(missing) error = %v, want ErrNotExist", err)
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}
