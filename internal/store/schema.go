package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/datatables/pkg/datatable"
)

// SchemaStore answers catalog questions in a driver independent way.
type SchemaStore struct {
	db      QueryInterceptor
	dialect datatable.Dialect
}

func NewSchemaStore(db QueryInterceptor, dialect datatable.Dialect) *SchemaStore {
	return &SchemaStore{db: db, dialect: dialect}
}

func (s *SchemaStore) TableExists(ctx context.Context, table string) (bool, error) {
	var builder sq.SelectBuilder
	switch s.dialect.Name() {
	case datatable.DialectSQLite:
		builder = sq.Select("COUNT(*)").From("sqlite_master").
			Where(sq.Eq{"type": "table", "name": table})
	default:
		builder = sq.Select("COUNT(*)").From("information_schema.tables").
			Where(sq.Eq{"table_name": table})
	}

	query, args, err := builder.PlaceholderFormat(s.dialect.Placeholder()).ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// RowCount counts the rows of table.
func (s *SchemaStore) RowCount(ctx context.Context, table string) (int, error) {
	return countRows(ctx, s.db, table)
}
