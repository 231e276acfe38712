package sqliteutil

import (
	"database/sql"
	"fmt"
	devenv "grantsync-backend/dev/env"
	"net/url"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const Memory = ":memory:"

// Config points at either a local sqlite file or a remote libsql database.
type Config struct {
	// a file path (which may start with <dev_state>), ":memory:" or a
	// libsql://, http:// or https:// url
	Path      string `json:"path"`
	AuthToken string `json:"auth_token"`
}

func IsRemote(path string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(path, scheme) {
			return true
		}
	}
	return false
}

func (config Config) open() (*sql.DB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path was not specified")
	}

	if IsRemote(config.Path) {
		dsn := config.Path
		if config.AuthToken != "" {
			values := url.Values{}
			values.Add("authToken", config.AuthToken)
			dsn += "?" + values.Encode()
		}
		return sql.Open("libsql", dsn)
	}

	if config.Path == Memory {
		db, err := sql.Open("sqlite", Memory)
		if err != nil {
			return nil, err
		}
		// every connection to :memory: is its own database
		db.SetMaxOpenConns(1)
		return db, nil
	}

	dbpath, err := devenv.ResolvePath(config.Path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)",
		dbpath,
	))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenDB opens the database and applies `schema` to it, the schema is
// expected to only contain `IF NOT EXISTS` statements.
func (config Config) OpenDB(schema string) (*sql.DB, error) {
	db, err := config.open()
	if err != nil {
		return nil, err
	}
	if schema == "" {
		return db, nil
	}
	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
