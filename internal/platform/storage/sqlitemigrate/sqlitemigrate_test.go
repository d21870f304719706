package sqlitemigrate

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestApplyRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE projections(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE projections;"),
		},
	}

	applied, err := Apply(context.Background(), db, migrations, "")
	require.NoError(t, err)
	require.Equal(t, []string{"001_create.sql"}, applied)
	require.EqualValues(t, 1, queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	require.True(t, tableExists(t, db, "projections"))
}

func TestApplySkipsAlreadyApplied(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{Data: []byte("CREATE TABLE projections(id TEXT PRIMARY KEY);")},
		"002_index.sql":  &fstest.MapFile{Data: []byte("CREATE INDEX idx_projections ON projections(id);")},
	}

	_, err := Apply(context.Background(), db, migrations, "")
	require.NoError(t, err)

	applied, err := Apply(context.Background(), db, migrations, "")
	require.NoError(t, err)
	require.Empty(t, applied)
	require.EqualValues(t, 2, queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestApplyDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)
	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREAT table things(id INT);")},
	}
	_, err := Apply(context.Background(), db, bad, "")
	require.Error(t, err)
	require.EqualValues(t, 0, queryInt64(t, db, "SELECT COUNT(*) FROM schema_migrations"))

	good := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{Data: []byte("-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);")},
	}
	applied, err := Apply(context.Background(), db, good, "")
	require.NoError(t, err)
	require.Len(t, applied, 1)
}

func TestApplyRespectsRoot(t *testing.T) {
	db := openInMemoryDB(t)
	migrations := fstest.MapFS{
		"projections/001_derived.sql": &fstest.MapFile{Data: []byte("CREATE TABLE derived(id TEXT PRIMARY KEY);")},
	}

	applied, err := Apply(context.Background(), db, migrations, "projections")
	require.NoError(t, err)
	require.Equal(t, []string{"projections/001_derived.sql"}, applied)
	require.True(t, tableExists(t, db, "derived"))
}

func TestApplyRequiresDB(t *testing.T) {
	_, err := Apply(context.Background(), nil, fstest.MapFS{}, "")
	require.Error(t, err)
}

func TestExtractUpMigration(t *testing.T) {
	require.Equal(t, "\nA;\n", ExtractUpMigration("-- +migrate Up\nA;\n-- +migrate Down\nB;"))
	require.Equal(t, "A;", ExtractUpMigration("A;"))
	require.Equal(t, "\nA;", ExtractUpMigration("-- +migrate Up\nA;"))
}

func TestIsAlreadyExistsError(t *testing.T) {
	require.True(t, IsAlreadyExistsError(errors.New("table x already exists")))
	require.True(t, IsAlreadyExistsError(errors.New("duplicate column name: y")))
	require.False(t, IsAlreadyExistsError(errors.New("syntax error")))
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func queryInt64(t *testing.T, db *sql.DB, query string) int64 {
	t.Helper()
	var value int64
	require.NoError(t, db.QueryRow(query).Scan(&value))
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	require.NoError(t, err)
	return name == tableName
}
