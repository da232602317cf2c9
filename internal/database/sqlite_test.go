package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "field.db")
	db, err := Open(Config{Path: path})
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&n))
	assert.Equal(t, 2, n)

	for _, table := range []string{"records", "layers"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, table)
	}
	db.Close()

	// reopening applies nothing new
	db, err = Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&n))
	assert.Equal(t, 2, n)
	db.Close()
}

func TestLoadMigrationsSkipsBadNames(t *testing.T) {
	db, err := Open(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	files := fstest.MapFS{
		"010_b.sql":  {Data: []byte("CREATE TABLE b (id INTEGER)")},
		"003_a.sql":  {Data: []byte("CREATE TABLE a (id INTEGER)")},
		"notes.sql":  {Data: []byte("garbage")},
		"README.md":  {Data: []byte("# docs")},
	}
	migrations, err := NewMigrationManager(db).WithFiles(files).LoadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, 3, migrations[0].Version)
	assert.Equal(t, "010_b", migrations[1].Name)
}

func TestTransactionRollsBack(t *testing.T) {
	db, err := Open(Config{Path: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("boom")
	err = Transaction(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO records (latitude, longitude, created_at) VALUES (1, 1, 'now')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n))
	assert.Zero(t, n)

	err = Transaction(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO records (latitude, longitude, created_at) VALUES (1, 1, 'now')`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM records").Scan(&n))
	assert.Equal(t, 1, n)
}
