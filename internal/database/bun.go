package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// sqliteDriverName is go-sqlite3 with LOWER and UPPER replaced by
// Unicode-aware versions. The built-ins only fold ASCII letters.
const sqliteDriverName = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("lower", strings.ToLower, true); err != nil {
				return fmt.Errorf("register lower: %w", err)
			}
			if err := conn.RegisterFunc("upper", strings.ToUpper, true); err != nil {
				return fmt.Errorf("register upper: %w", err)
			}
			return nil
		},
	})
}

// Open connects to the database behind dsn and returns a Bun DB instance.
// driver is either DriverPostgres or DriverSQLite.
func Open(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		// Verify connection
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		// Set connection pool settings
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)

		return bun.NewDB(sqlDB, pgdialect.New()), nil

	case DriverSQLite:
		sqlDB, err := sql.Open(sqliteDriverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}

		// SQLite allows a single writer; an in-memory database also lives
		// and dies with its one connection.
		sqlDB.SetMaxOpenConns(1)

		return bun.NewDB(sqlDB, sqlitedialect.New()), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}
