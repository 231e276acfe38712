package testutil

import (
	"database/sql"
	"fmt"
	"grantsync-backend/lib/sqliteutil"
	"grantsync-backend/lib/telemetry"
	"testing"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will skip setting up a db
	DbSchema string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sql.DB
}

// SetupService sets up telemetry for a test and opens its database, the
// returned function cleans up both.
func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))
	if params.DbSchema == "" {
		return ServiceResult{}, cleanup
	}

	dbpath := params.DbPath
	if dbpath == "" {
		dbpath = sqliteutil.Memory
	}
	database, err := sqliteutil.Config{Path: dbpath}.OpenDB(params.DbSchema)
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{DB: database}, func() {
		database.Close()
		cleanup()
	}
}
