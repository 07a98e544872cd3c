package db

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
)

// Migration is one schema step.
type Migration struct {
	Version int
	Name    string
	Up      func(tx *sql.Tx) error
}

// migrations must stay sorted by Version.
var migrations = []Migration{
	{1, "create_saved_items", migrationV1},
	{2, "index_saved_items_created_at", migrationV2},
}

func latestVersion() int {
	return migrations[len(migrations)-1].Version
}

// RunMigrations brings conn up to the latest schema version. Each migration
// runs in its own transaction together with its schema_version row.
func RunMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var current int
	if err := conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		log.Info("applying migration", "version", m.Version, "name", m.Name)
		if err := apply(conn, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

func apply(conn *sql.DB, m Migration) (err error) {
	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = m.Up(tx); err != nil {
		return err
	}
	if _, err = tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
		return fmt.Errorf("record version: %w", err)
	}
	return tx.Commit()
}

// migrationV1 creates the saved_items table.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS saved_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			payload BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// migrationV2 indexes saved_items by creation time for ordered listing.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_saved_items_created_at ON saved_items(created_at)")
	return err
}
