package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "folio.db")

	conn, err := Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var version int
	require.NoError(t, conn.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&version))
	assert.Equal(t, latestVersion(), version)

	require.NoError(t, SeedFixtures(conn))
	require.NoError(t, SeedFixtures(conn))
	var count int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM saved_items").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestOpenMigratesUntrackedDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.db")

	conn, err := Open(path)
	require.NoError(t, err)
	_, err = conn.Exec("DROP TABLE schema_version")
	require.NoError(t, err)
	_, err = conn.Exec("DROP INDEX idx_saved_items_created_at")
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	conn, err = Open(path)
	require.NoError(t, err)
	defer conn.Close()

	var applied int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&applied))
	assert.Equal(t, len(migrations), applied)

	var indexes int
	require.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_saved_items_created_at'").Scan(&indexes))
	assert.Equal(t, 1, indexes)
}

func TestGetDBRejectsSecondPath(t *testing.T) {
	dir := t.TempDir()
	t.Cleanup(func() { Close() })

	first, err := GetDB(filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	again, err := GetDB(filepath.Join(dir, "a.db"))
	require.NoError(t, err)
	assert.Same(t, first, again)

	_, err = GetDB(filepath.Join(dir, "b.db"))
	assert.Error(t, err)
}
