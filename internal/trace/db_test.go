package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")
	for i := 0; i < 3; i++ {
		db, err := Open(path)
		require.NoError(t, err, "open #%d", i)
		require.NoError(t, db.Close())
	}

	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()

	for _, index := range []string{"idx_dispatch_events_store", "idx_dispatch_events_action"} {
		var name string
		err := db.db.QueryRow("SELECT name FROM sqlite_master WHERE type='index' AND name=?", index).Scan(&name)
		assert.NoError(t, err, "index %s", index)
	}
}

func TestOpen_Pragmas(t *testing.T) {
	db := openTestDB(t)

	tests := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1",
		"busy_timeout": "5000",
		"foreign_keys": "1",
		"user_version": "1",
	}
	for name, want := range tests {
		got, err := db.pragma(name)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "trace.db"))
	assert.Error(t, err)
}

func TestClose_Nil(t *testing.T) {
	var db DB
	assert.NoError(t, db.Close())
}
