package services

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/stoewer/go-strcase"

	"github.com/kubev2v/datatables/pkg/datatable"
)

// Grid is a named table definition served by the TableService.
type Grid struct {
	Name string
	// Source is a squirrel SelectBuilder or a datatable.Model. Builders are
	// immutable so one value serves every request.
	Source  any
	Columns []datatable.Column
	// DefaultOrder applies when a request carries no ordering.
	DefaultOrder []datatable.Order
	RowFormatter datatable.RowFormatter
	// Table is the base table whose rows the stats refresher counts.
	Table string
}

// DefaultGrids are the grids served over the demo schema.
func DefaultGrids() []Grid {
	return []Grid{
		{
			Name:   "users",
			Source: sq.Select("*").From("users").LeftJoin("departments d ON d.id = users.department_id"),
			Columns: []datatable.Column{
				datatable.Simple("users.id"),
				datatable.Concat("first_name", "last_name"),
				datatable.Simple("users.email"),
				datatable.Named("UPPER(d.name)", "department"),
			},
			DefaultOrder: []datatable.Order{{Column: 0, Direction: datatable.Asc}},
			Table:        "users",
		},
		{
			Name:   "departments",
			Source: sq.Select("*").From("departments"),
			Columns: []datatable.Column{
				datatable.Simple("departments.id"),
				datatable.Simple("departments.name"),
				datatable.Named("(SELECT COUNT(*) FROM users u WHERE u.department_id = departments.id)", "headcount"),
			},
			DefaultOrder: []datatable.Order{{Column: 1, Direction: datatable.Asc}},
			Table:        "departments",
		},
	}
}

// gridResolver lets filter expressions name grid columns by display name,
// in any case or in snake_case.
type gridResolver struct {
	columns []datatable.ResolvedColumn
	dialect datatable.Dialect
}

func (r gridResolver) Resolve(name string) (string, bool) {
	for _, c := range r.columns {
		if strings.EqualFold(c.Name, name) || strcase.SnakeCase(c.Name) == strings.ToLower(name) {
			return c.Expression, true
		}
	}
	return "", false
}

func (r gridResolver) Searchable(expression string) string {
	return r.dialect.Searchable(expression)
}
