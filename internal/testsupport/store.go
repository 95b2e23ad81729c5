package testsupport

import (
	"testing"

	"admkit/internal/config"
	"admkit/internal/flowstore"
)

// MustOpenFlowStore opens a flowstore.Store for tests and registers cleanup.
func MustOpenFlowStore(t testing.TB, cfg *config.Config) *flowstore.Store {
	t.Helper()

	store, err := flowstore.Open(cfg)
	if err != nil {
		t.Fatalf("flowstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
