package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lplmaker/internal/logging"
)

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(context.Background(), dir, "*.lpl", time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestCleanStaleRemovesOldMatchingFiles(t *testing.T) {
	tmpDir := t.TempDir()
	oldTime := time.Now().Add(-2 * time.Hour)

	write := func(name string, modTime time.Time) string {
		t.Helper()
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if err := os.Chtimes(path, modTime, modTime); err != nil {
			t.Fatalf("chtimes %s: %v", name, err)
		}
		return path
	}

	stale := write("lplmaker-123.lpl", oldTime)
	recent := write("lplmaker-456.lpl", time.Now())
	foreign := write("other-789.lpl", oldTime)
	if err := os.Mkdir(filepath.Join(tmpDir, "lplmaker-dir.lpl"), 0o755); err != nil {
		t.Fatal(err)
	}

	result := CleanStale(context.Background(), tmpDir, "lplmaker-*.lpl", time.Hour, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != stale {
		t.Fatalf("removed = %v, want only %s", result.Removed, stale)
	}
	for _, keep := range []string{recent, foreign, filepath.Join(tmpDir, "lplmaker-dir.lpl")} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("%s should remain: %v", keep, err)
		}
	}
}
