package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/julianstephens/habitown/internal/constants"
	"github.com/julianstephens/habitown/internal/storage"
	"github.com/julianstephens/habitown/internal/storage/storagetest"
)

// TestStore_Integration runs the provider checks against a real database.
// Set HABITOWN_TEST_POSTGRES to run it, e.g.
// HABITOWN_TEST_POSTGRES="postgres://habitown@localhost:5432/habitown_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv(constants.EnvTestPostgres)
	if connStr == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", constants.EnvTestPostgres)
	}

	storagetest.RunProviderTests(t, func(t *testing.T) storage.Provider {
		store := New(connStr)
		if err := store.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		t.Cleanup(func() {
			store.db.Exec("DELETE FROM blobs")
			store.SaveSettings(storage.DefaultSettings())
			store.Close()
		})
		// Each subtest expects an empty store with default settings.
		if _, err := store.db.ExecContext(context.Background(), "DELETE FROM blobs"); err != nil {
			t.Fatalf("failed to clear blobs: %v", err)
		}
		if err := store.SaveSettings(storage.DefaultSettings()); err != nil {
			t.Fatalf("failed to reset settings: %v", err)
		}
		return store
	})
}
