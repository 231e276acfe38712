package main

import (
	"fmt"
	devenv "grantsync-backend/dev/env"
	"grantsync-backend/lib/grantstore/db"
	"grantsync-backend/lib/sqliteutil"
	"log/slog"
	"os"
	"path/filepath"
)

const devConfig = `// written by dev/main.go, overrides config.json5
{
  output: "<dev_state>/grants.json",
  database: {
    path: "<dev_state>/grants.db",
  },
  delay: {
    min_seconds: 0.5,
    max_seconds: 2,
  },
  resty_output: "<dev_state>/resty/grantsync",
}
`

func createDb(filename, schema string) error {
	dbpath, err := devenv.ResolvePath(filepath.Join("<dev_state>", filename))
	if err != nil {
		return err
	}

	_, err = os.Stat(dbpath)
	if err == nil {
		fmt.Println("database already created at", dbpath)
		return nil
	}

	fmt.Println("creating database at", dbpath)
	database, err := sqliteutil.Config{Path: dbpath}.OpenDB(schema)
	if err != nil {
		return err
	}
	return database.Close()
}

func CreateEmptyDBs() error {
	return createDb("grants.db", db.Schema)
}

func WriteDevConfig() error {
	_, err := os.Stat("config.local.json5")
	if err == nil {
		fmt.Println("config.local.json5 already exists")
		return nil
	}
	fmt.Println("writing config.local.json5")
	return os.WriteFile("config.local.json5", []byte(devConfig), 0644)
}

func PrintConfigLocations() {
	slog.Info("grantsync-cli now reads and writes its state under dev/.state, remove config.local.json5 to go back to the defaults. telemetry is only exported once a telemetry.json5 is created.")
}
