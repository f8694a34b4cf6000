// Package dbtest provides a migrated in-memory SQLite database for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/uptrace/bun"

	"github.com/redmonkez12/taskmanager-api/internal/database"
)

// New opens a fresh in-memory database with foreign keys enforced and all
// migrations applied. It is closed when the test ends.
func New(t testing.TB) *bun.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, ":memory:?_foreign_keys=1")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	if _, err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
