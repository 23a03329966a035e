package datatable

import (
	"strings"

	"github.com/stoewer/go-strcase"
)

// ResolvedColumn pairs a column's display name with its dialect specific SQL
// expression.
type ResolvedColumn struct {
	Name       string
	Expression string
}

// Select returns the expression aliased to the quoted display name.
func (r ResolvedColumn) Select(d Dialect) string {
	return r.Expression + " AS " + d.Quote(r.Name)
}

// Resolve resolves every column against the dialect. The result is
// positionally aligned with columns.
func Resolve(columns []Column, d Dialect) ([]ResolvedColumn, error) {
	if err := ValidateColumns(columns); err != nil {
		return nil, err
	}

	resolved := make([]ResolvedColumn, 0, len(columns))
	for _, c := range columns {
		resolved = append(resolved, ResolvedColumn{
			Name:       ColumnName(c),
			Expression: Expression(c, d),
		})
	}
	return resolved, nil
}

// ColumnNames returns the display names of columns. Names do not depend on
// the dialect.
func ColumnNames(columns []Column) []string {
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, ColumnName(c))
	}
	return names
}

// ColumnName returns the display name of a column:
//
//	"email"                         -> email
//	"users.email"                   -> email
//	Named("COUNT(*)", "total")      -> total
//	Concat("u.first_name", "last_name") -> firstNameLastName
func ColumnName(c Column) string {
	switch c.kind {
	case NamedColumn:
		return c.name
	case CompositeColumn:
		return strcase.LowerCamelCase(strings.Join(leafNames(c), "_"))
	default:
		return lastSegment(c.ref)
	}
}

// leafNames flattens a column tree into the names of its leaves.
func leafNames(c Column) []string {
	switch c.kind {
	case CompositeColumn:
		var names []string
		for _, child := range c.children {
			names = append(names, leafNames(child)...)
		}
		return names
	case NamedColumn:
		return []string{lastSegment(c.name)}
	default:
		return []string{lastSegment(c.ref)}
	}
}

// Expression builds the raw SQL expression of a column for the dialect.
// Composite columns are resolved recursively.
func Expression(c Column, d Dialect) string {
	switch c.kind {
	case NamedColumn:
		return c.expression
	case CompositeColumn:
		parts := make([]string, 0, len(c.children))
		for _, child := range c.children {
			parts = append(parts, Expression(child, d))
		}
		if len(parts) == 0 {
			return ""
		}
		return d.Concat(parts)
	default:
		return d.Quote(c.ref)
	}
}

func lastSegment(ref string) string {
	if i := strings.LastIndex(ref, "."); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
