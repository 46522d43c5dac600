package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported driver names, as registered with database/sql.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const sqlitePragmas = "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"

// Open connects to the configured database and verifies the connection.
// PRE: driver is "sqlite" (dsn is a file path or ":memory:") or "postgres" (dsn is a URL)
// POST: Returns a pinged pool with driver-appropriate limits
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case DriverSQLite, "":
		driver = DriverSQLite
		db, err = sql.Open(DriverSQLite, sqliteDSN(dsn))
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if dsn == ":memory:" {
			// :memory: databases are private to one connection.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		if strings.TrimSpace(dsn) == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
		db, err = sql.Open(DriverPostgres, dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxIdleTime(5 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	if path == "" {
		path = "trainerweb.db"
	}
	if strings.Contains(path, "_pragma=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + sqlitePragmas
}
