package store

import (
	"database/sql"

	"github.com/kubev2v/datatables/pkg/datatable"
)

// Store provides access to all storage repositories.
type Store struct {
	db          *sql.DB
	interceptor *queryInterceptor
	dialect     datatable.Dialect
	users       *UserStore
	departments *DepartmentStore
	schema      *SchemaStore
}

// NewStore wraps db. driver selects the SQL dialect and is one of the
// Driver* constants.
func NewStore(db *sql.DB, driver string) *Store {
	interceptor := newQueryInterceptor(db, driver)
	dialect := DialectFor(driver)
	return &Store{
		db:          db,
		interceptor: interceptor,
		dialect:     dialect,
		users:       NewUserStore(interceptor, dialect),
		departments: NewDepartmentStore(interceptor, dialect),
		schema:      NewSchemaStore(interceptor, dialect),
	}
}

// DB returns the logging query surface grids run their statements on.
func (s *Store) DB() QueryInterceptor {
	return s.interceptor
}

func (s *Store) Dialect() datatable.Dialect {
	return s.dialect
}

func (s *Store) Users() *UserStore {
	return s.users
}

func (s *Store) Departments() *DepartmentStore {
	return s.departments
}

func (s *Store) Schema() *SchemaStore {
	return s.schema
}

func (s *Store) Close() error {
	return s.db.Close()
}
