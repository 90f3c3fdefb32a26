package checkpoint

import (
	"context"
	"fmt"
	"os"

	"adaptercore/internal/infra/checkpoint/fs"
	"adaptercore/internal/infra/checkpoint/memory"
	"adaptercore/internal/infra/checkpoint/postgres"
	"adaptercore/internal/infra/checkpoint/s3"
	"adaptercore/internal/infra/checkpoint/sqlite"
)

// Open selects a Transport using environment variables.
//
//	ADAPTERCORE_CHECKPOINT_DRIVER: memory|fs|sqlite|postgres|s3 (default fs)
//	ADAPTERCORE_CHECKPOINT_FS_ROOT: directory root when driver=fs (default ./checkpoints)
//	ADAPTERCORE_SQLITE_PATH: database file when driver=sqlite (default adaptercore.db)
//	ADAPTERCORE_POSTGRES_DSN: connection string when driver=postgres
//	(S3 specific variables are documented in the s3 driver)
func Open(ctx context.Context) (Transport, error) {
	driver := os.Getenv("ADAPTERCORE_CHECKPOINT_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	return OpenDriver(ctx, Driver(driver))
}

// OpenDriver builds the named driver, reading its settings from the
// environment.
func OpenDriver(ctx context.Context, driver Driver) (Transport, error) {
	switch driver {
	case DriverFilesystem:
		return fs.New(os.Getenv("ADAPTERCORE_CHECKPOINT_FS_ROOT"))
	case DriverMemory:
		return memory.New(), nil
	case DriverSQLite:
		return sqlite.New(os.Getenv("ADAPTERCORE_SQLITE_PATH"))
	case DriverPostgres:
		return postgres.New(ctx, os.Getenv("ADAPTERCORE_POSTGRES_DSN"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown checkpoint driver %s", driver)
	}
}
