package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildZip returns an in-memory zip; names ending in "/" become directories.
func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		if content != "" {
			_, err = w.Write([]byte(content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "backend.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, files), 0o644))
	return path
}

func TestDownload(t *testing.T) {
	payload := buildZip(t, map[string]string{"Creatif-creatif-backend-abc123/go.mod": "module x\n"})

	var userAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "backend.zip")
	n, err := NewDownloader(WithUserAgent("create-creatif/test")).Download(context.Background(), srv.URL, dest)
	require.NoError(t, err)

	assert.Equal(t, int64(len(payload)), n)
	assert.Equal(t, "create-creatif/test", userAgent)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDownload_UnexpectedStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			dest := filepath.Join(t.TempDir(), "backend.zip")
			_, err := NewDownloader().Download(context.Background(), srv.URL, dest)
			require.ErrorIs(t, err, ErrUnexpectedStatus)

			_, statErr := os.Stat(dest)
			assert.True(t, os.IsNotExist(statErr), "no file should be written on a bad status")
		})
	}
}

func TestDownload_Retries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := NewDownloader(WithRetries(2), WithRetryWait(time.Millisecond, 2*time.Millisecond))

	dest := filepath.Join(t.TempDir(), "backend.zip")
	_, err := d.Download(context.Background(), srv.URL, dest)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDownload_NoRetriesByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "backend.zip")
	_, err := NewDownloader().Download(context.Background(), srv.URL, dest)
	require.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDownload_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	dest := filepath.Join(t.TempDir(), "backend.zip")
	_, err := NewDownloader().Download(context.Background(), url, dest)
	require.ErrorIs(t, err, ErrDownloadFailed)
}

func TestExtract(t *testing.T) {
	src := writeZip(t, map[string]string{
		"root/":                   "",
		"root/go.mod":             "module backend\n",
		"root/cmd/main.go":        "package main\n",
		"root/pgx_ulid/README":    "ulid",
		"root/docker-compose.yml": "services: {}\n",
	})

	dest := t.TempDir()
	res, err := Extract(src, dest)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Files)
	assert.Equal(t, 1, res.Dirs)
	assert.Empty(t, res.Skipped)

	data, err := os.ReadFile(filepath.Join(dest, "root", "cmd", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(data))
}

func TestExtract_RejectsEscapingEntries(t *testing.T) {
	for _, name := range []string{"../evil.txt", "root/../../evil.txt", "/abs/evil.txt"} {
		t.Run(name, func(t *testing.T) {
			src := writeZip(t, map[string]string{name: "boom"})

			parent := t.TempDir()
			dest := filepath.Join(parent, "backend")
			require.NoError(t, os.Mkdir(dest, 0o755))

			_, err := Extract(src, dest)
			require.ErrorIs(t, err, ErrUnsafePath)

			_, statErr := os.Stat(filepath.Join(parent, "evil.txt"))
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}

func TestExtract_NotAZip(t *testing.T) {
	src := filepath.Join(t.TempDir(), "backend.zip")
	require.NoError(t, os.WriteFile(src, []byte("<html>not found</html>"), 0o644))

	_, err := Extract(src, t.TempDir())
	require.Error(t, err)
}

func TestSingleRootAndFlatten(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "Creatif-creatif-backend-abc123")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "cmd"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module x\n"), 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "backend.zip"), nil, 0o644))

	name, err := SingleRoot(dir, "backend.zip")
	require.NoError(t, err)
	assert.Equal(t, "Creatif-creatif-backend-abc123", name)

	moved, err := Flatten(dir, name)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cmd", "go.mod"}, moved)
	assert.FileExists(t, filepath.Join(dir, "backend.zip"))

	assert.FileExists(t, filepath.Join(dir, "go.mod"))
	assert.DirExists(t, filepath.Join(dir, "cmd"))

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSingleRoot_Layouts(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{"empty", func(t *testing.T, dir string) {}},
		{"two directories", func(t *testing.T, dir string) {
			require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o755))
			require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
		}},
		{"single file", func(t *testing.T, dir string) {
			require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), nil, 0o644))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.setup(t, dir)

			_, err := SingleRoot(dir)
			assert.ErrorIs(t, err, ErrArchiveLayout)
		})
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pgx_ulid", "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Dockerfile"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), nil, 0o644))

	errs := Prune(dir, []string{"pgx_ulid", "Dockerfile", "docker-compose.yml", "../outside", "."})
	require.Len(t, errs, 2)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrUnsafePath)
	}

	assert.NoDirExists(t, filepath.Join(dir, "pgx_ulid"))
	assert.NoFileExists(t, filepath.Join(dir, "Dockerfile"))
	assert.FileExists(t, filepath.Join(dir, "go.mod"))
}
