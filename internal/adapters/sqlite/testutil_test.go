// Package sqlite_test exercises the SQLite repositories against a real
// in-memory database built from db.GetSchemaSQL().
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/folio/internal/db"
)

// setupTestDB opens a fresh in-memory database with the saved-section schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// every connection to :memory: is a separate database
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedSavedItem inserts a saved section with a fixed creation time.
func seedSavedItem(t *testing.T, db *sql.DB, id, name, createdAt string) {
	t.Helper()
	_, err := db.Exec("INSERT INTO saved_items (id, name, payload, created_at) VALUES (?, ?, ?, ?)", id, name, []byte{0xa0}, createdAt)
	if err != nil {
		t.Fatalf("failed to seed saved item: %v", err)
	}
}
