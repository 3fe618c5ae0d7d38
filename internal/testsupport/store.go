package testsupport

import (
	"context"
	"testing"
	"time"

	"subfit/internal/config"
	"subfit/internal/history"
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

// RecordRun inserts a succeeded resegment run started at the given time.
func RecordRun(t testing.TB, store *history.Store, input string, started time.Time) history.Run {
	t.Helper()

	run, err := store.Record(context.Background(), history.Run{
		Command:      "resegment",
		InputPath:    input,
		MaxWidth:     40,
		Policy:       "truncate",
		InputBlocks:  2,
		OutputBlocks: 3,
		Status:       history.StatusSucceeded,
		StartedAt:    started,
		FinishedAt:   started.Add(time.Second),
	})
	if err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return run
}
