package testsupport

import (
	"context"
	"testing"

	"bookfinder/internal/config"
	"bookfinder/internal/library"
	"bookfinder/internal/metadata"
)

// MustOpenLibrary opens a library.Store for tests and registers cleanup.
func MustOpenLibrary(t testing.TB, cfg *config.Config) *library.Store {
	t.Helper()

	store, err := library.Open(cfg)
	if err != nil {
		t.Fatalf("library.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// MustAdd stores record and fails the test on error.
func MustAdd(t testing.TB, store *library.Store, record metadata.Record) *library.Entry {
	t.Helper()

	entry, err := store.Add(context.Background(), record)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return entry
}
