package testsupport

import (
	"context"
	"testing"
	"time"

	"lplmaker/internal/config"
	"lplmaker/internal/history"
)

// MustOpenHistory opens a history.Store for tests and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordGeneration stores a finished generation of catalog in run runID and
// returns its row id.
func RecordGeneration(t testing.TB, store *history.Store, runID, catalog, state string, entries int) int64 {
	t.Helper()

	finished := time.Now()
	id, err := store.RecordGeneration(context.Background(), history.Generation{
		RunID:      runID,
		Catalog:    catalog,
		OutputPath: "/playlists/" + catalog + ".lpl",
		State:      state,
		Entries:    entries,
		StartedAt:  finished.Add(-time.Second),
		FinishedAt: finished,
	})
	if err != nil {
		t.Fatalf("store.RecordGeneration: %v", err)
	}
	return id
}
