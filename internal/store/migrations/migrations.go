package migrations

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/kubev2v/datatables/pkg/datatable"
)

type migration struct {
	version    int
	name       string
	statements []string
}

// migrations are applied in order. Never edit an applied entry, append a new one.
var migrations = []migration{
	{
		version: 1,
		name:    "create_departments",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS departments (
				id INTEGER PRIMARY KEY,
				name VARCHAR NOT NULL
			)`,
		},
	},
	{
		version: 2,
		name:    "create_users",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY,
				first_name VARCHAR NOT NULL,
				last_name VARCHAR NOT NULL,
				email VARCHAR NOT NULL,
				department_id INTEGER REFERENCES departments (id),
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_users_department_id ON users (department_id)`,
		},
	},
}

const createSchemaMigrations = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name VARCHAR NOT NULL,
	applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Run applies every pending migration, each in its own transaction.
func Run(ctx context.Context, db *sql.DB, dialect datatable.Dialect) error {
	logger := zap.S().Named("migrations")

	if _, err := db.ExecContext(ctx, createSchemaMigrations); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := apply(ctx, db, dialect, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		logger.Infow("migration applied", "version", m.version, "name", m.name)
	}

	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	query, args, err := sq.Select("version").From("schema_migrations").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("reading schema_migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

func apply(ctx context.Context, db *sql.DB, dialect datatable.Dialect, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	query, args, err := sq.Insert("schema_migrations").
		Columns("version", "name").
		Values(m.version, m.name).
		PlaceholderFormat(dialect.Placeholder()).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return tx.Commit()
}
