package testsupport

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to path, creating parent directories. An empty
// content string writes a single placeholder byte so the file is never empty.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if content == "" {
		content = "B"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TouchFiles creates placeholder files with the given names inside dir.
func TouchFiles(t testing.TB, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		WriteFile(t, filepath.Join(dir, name), "")
	}
}

// WriteZip builds a zip archive at path containing the named members, in the
// order given. Names ending in "/" become directory entries.
func WriteZip(t testing.TB, path string, members ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip member %s: %v", name, err)
		}
		if name[len(name)-1] == '/' {
			continue
		}
		if _, err := w.Write([]byte("rom:" + name)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip %s: %v", path, err)
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t testing.TB, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
