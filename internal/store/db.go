package store

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/kubev2v/datatables/pkg/datatable"
)

const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite3"
	DriverPgx    = "pgx"

	memoryDSN = ":memory:"
)

// NewDB opens a database with one of the supported drivers. Use ":memory:"
// with duckdb or sqlite3 for an in-memory database (useful for testing).
func NewDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverDuckDB:
		return openDuckDB(dsn)
	case DriverSQLite:
		return openSQLite(dsn)
	case DriverPgx:
		return openPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DialectFor returns the SQL dialect queries against driver are built with.
func DialectFor(driver string) datatable.Dialect {
	return datatable.DialectForDriver(driver)
}

func openDuckDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(DriverDuckDB, path)
	if err != nil {
		return nil, err
	}

	// DuckDB is single-writer; a single connection prevents idle pool
	// connections from blocking WAL checkpointing.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Keep extensions next to the database instead of ~/.duckdb, which may be read-only.
	if path != memoryDSN && path != "" {
		extDir := filepath.Dir(path)
		if _, err := conn.Exec(fmt.Sprintf("SET extension_directory = '%s'", extDir)); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("setting extension directory: %w", err)
		}
	}

	return conn, nil
}

func openSQLite(path string) (*sql.DB, error) {
	conn, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}

	// Every sqlite connection to :memory: is its own database.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	return conn, nil
}

func openPostgres(dsn string) (*sql.DB, error) {
	conn, err := sql.Open(DriverPgx, dsn)
	if err != nil {
		return nil, err
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}
