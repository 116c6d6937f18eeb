package testsupport

import (
	"testing"

	"relief/internal/config"
	"relief/internal/staging"
)

// MustOpenStaging opens the staging store for cfg and registers cleanup.
func MustOpenStaging(t testing.TB, cfg *config.Config) *staging.Store {
	t.Helper()

	store, err := staging.Open(cfg.StagingDBPath(), cfg.StagingLockPath())
	if err != nil {
		t.Fatalf("staging.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
