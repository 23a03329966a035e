package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/datatables/internal/models"
	"github.com/kubev2v/datatables/pkg/datatable"
)

type UserStore struct {
	db      QueryInterceptor
	dialect datatable.Dialect
}

func NewUserStore(db QueryInterceptor, dialect datatable.Dialect) *UserStore {
	return &UserStore{db: db, dialect: dialect}
}

func (s *UserStore) Insert(ctx context.Context, users ...models.User) error {
	if len(users) == 0 {
		return nil
	}

	builder := sq.Insert("users").
		Columns("id", "first_name", "last_name", "email", "department_id").
		PlaceholderFormat(s.dialect.Placeholder())
	for _, u := range users {
		var department any
		if u.DepartmentID != nil {
			department = *u.DepartmentID
		}
		builder = builder.Values(u.ID, u.FirstName, u.LastName, u.Email, department)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

func (s *UserStore) Count(ctx context.Context) (int, error) {
	return countRows(ctx, s.db, "users")
}

func countRows(ctx context.Context, db QueryInterceptor, table string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
