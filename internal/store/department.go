package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/datatables/internal/models"
	"github.com/kubev2v/datatables/pkg/datatable"
)

type DepartmentStore struct {
	db      QueryInterceptor
	dialect datatable.Dialect
}

func NewDepartmentStore(db QueryInterceptor, dialect datatable.Dialect) *DepartmentStore {
	return &DepartmentStore{db: db, dialect: dialect}
}

func (s *DepartmentStore) Insert(ctx context.Context, departments ...models.Department) error {
	if len(departments) == 0 {
		return nil
	}

	builder := sq.Insert("departments").
		Columns("id", "name").
		PlaceholderFormat(s.dialect.Placeholder())
	for _, d := range departments {
		builder = builder.Values(d.ID, d.Name)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *DepartmentStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.db, "departments")
}
