package datatable

import (
	"fmt"
	"strings"

	srvErrors "github.com/kubev2v/datatables/pkg/errors"
)

type ColumnKind int

const (
	SimpleColumn ColumnKind = iota
	NamedColumn
	CompositeColumn
)

func (k ColumnKind) String() string {
	switch k {
	case SimpleColumn:
		return "simple"
	case NamedColumn:
		return "named"
	case CompositeColumn:
		return "composite"
	default:
		return "unknown"
	}
}

// Column is a declarative column specification. It is one of:
//   - Simple: a column reference, optionally dotted ("users.email").
//   - Named: a raw SQL expression paired with its display name.
//   - Composite: an ordered list of columns concatenated into one.
//
// The position of a Column in the list handed to a DataTable is the index the
// grid client uses for searching and sorting.
type Column struct {
	kind       ColumnKind
	ref        string
	expression string
	name       string
	children   []Column
}

// Simple returns a plain column reference.
func Simple(ref string) Column {
	return Column{kind: SimpleColumn, ref: ref}
}

// Named returns a computed column: expression is used verbatim in SQL and
// name is the key it is selected as.
func Named(expression, name string) Column {
	return Column{kind: NamedColumn, expression: expression, name: name}
}

// Composite returns a column concatenating its children, separated by a space.
func Composite(children ...Column) Column {
	return Column{kind: CompositeColumn, children: children}
}

// Concat is a shorthand for a Composite of simple references.
func Concat(refs ...string) Column {
	children := make([]Column, 0, len(refs))
	for _, r := range refs {
		children = append(children, Simple(r))
	}
	return Composite(children...)
}

// Columns turns plain references into Simple columns.
func Columns(refs ...string) []Column {
	cols := make([]Column, 0, len(refs))
	for _, r := range refs {
		cols = append(cols, Simple(r))
	}
	return cols
}

func (c Column) Kind() ColumnKind {
	return c.kind
}

func (c Column) Children() []Column {
	return c.children
}

func (c Column) String() string {
	switch c.kind {
	case SimpleColumn:
		return c.ref
	case NamedColumn:
		return fmt.Sprintf("%s AS %s", c.expression, c.name)
	case CompositeColumn:
		parts := make([]string, 0, len(c.children))
		for _, child := range c.children {
			parts = append(parts, child.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// ValidateColumns rejects column lists that would produce invalid SQL:
// empty references, named columns without expression or name, and empty
// composites at any depth.
func ValidateColumns(columns []Column) error {
	for i, c := range columns {
		if err := validateColumn(c); err != nil {
			return srvErrors.NewInvalidColumnError(i, err.Error())
		}
	}
	return nil
}

func validateColumn(c Column) error {
	switch c.kind {
	case SimpleColumn:
		if strings.TrimSpace(c.ref) == "" {
			return fmt.Errorf("empty column reference")
		}
		if strings.HasSuffix(c.ref, ".") {
			return fmt.Errorf("column reference %q has no column segment", c.ref)
		}
	case NamedColumn:
		if strings.TrimSpace(c.expression) == "" {
			return fmt.Errorf("named column %q has an empty expression", c.name)
		}
		if strings.TrimSpace(c.name) == "" {
			return fmt.Errorf("expression %q has an empty name", c.expression)
		}
	case CompositeColumn:
		if len(c.children) == 0 {
			return fmt.Errorf("composite column has no children")
		}
		for _, child := range c.children {
			if err := validateColumn(child); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown column kind %d", c.kind)
	}
	return nil
}
