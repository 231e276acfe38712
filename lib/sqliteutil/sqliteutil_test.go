package sqliteutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `create table if not exists kv (
	key text primary key,
	value text not null
);`

func TestIsRemote(t *testing.T) {
	require.True(t, IsRemote("libsql://grants.turso.io"))
	require.True(t, IsRemote("https://grants.turso.io"))
	require.False(t, IsRemote("grants.db"))
	require.False(t, IsRemote(Memory))
	require.False(t, IsRemote("<dev_state>/grants.db"))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Config{Path: path}.OpenDB(testSchema)
	require.NoError(t, err)
	_, err = db.Exec("insert into kv (key, value) values ('a', 'b')")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening keeps the data and tolerates the schema being applied again
	db, err = Config{Path: path}.OpenDB(testSchema)
	require.NoError(t, err)
	defer db.Close()

	var value string
	err = db.QueryRow("select value from kv where key = 'a'").Scan(&value)
	require.NoError(t, err)
	require.Equal(t, "b", value)
}

func TestOpenMemory(t *testing.T) {
	db, err := Config{Path: Memory}.OpenDB(testSchema)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("insert into kv (key, value) values ('a', 'b')")
	require.NoError(t, err)

	var count int
	err = db.QueryRow("select count(*) from kv").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestOpenInvalid(t *testing.T) {
	_, err := Config{}.OpenDB(testSchema)
	require.Error(t, err)

	_, err = Config{Path: Memory}.OpenDB("not sql")
	require.Error(t, err)
}
