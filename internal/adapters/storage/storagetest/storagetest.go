// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"trainerweb/internal/adapters/storage"
)

// Open returns a TimedDB over a fresh, fully migrated in-memory SQLite database.
// PRE: called from a test
// POST: the database is closed on test cleanup
func Open(t testing.TB) *storage.TimedDB {
	t.Helper()
	db, err := sql.Open(storage.DriverSQLite, ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := storage.MigrateDB(db, storage.DriverSQLite); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return storage.NewTimedDB(db, storage.DriverSQLite, nil)
}
