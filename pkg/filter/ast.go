package filter

import (
	"fmt"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// Resolver turns filter identifiers into SQL expressions. Identifiers it does
// not know are rejected, so only configured columns can be filtered.
type Resolver interface {
	// Resolve returns the SQL expression for name.
	Resolve(name string) (string, bool)
	// Searchable wraps an expression so it can be matched with LIKE.
	Searchable(expression string) string
}

// Columns is a Resolver over a fixed name to expression map. Names are matched
// case-insensitively.
type Columns map[string]string

func (c Columns) Resolve(name string) (string, bool) {
	if expr, ok := c[name]; ok {
		return expr, true
	}
	for k, expr := range c {
		if strings.EqualFold(k, name) {
			return expr, true
		}
	}
	return "", false
}

func (c Columns) Searchable(expression string) string {
	return expression
}

// UnknownFieldError is returned when a filter names a column the resolver
// does not know.
type UnknownFieldError struct {
	Name string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown filter field %q", e.Name)
}

// Expression is the abstract syntax tree for any expression.
type Expression interface {
	String() string
	// Sqlizer builds the squirrel predicate for the expression. Literal values
	// are always bound as arguments.
	Sqlizer(r Resolver) (sq.Sqlizer, error)
}

// binaryExpression is an expression like "a = b" or "a and b".
type binaryExpression struct {
	Left  Expression
	Op    Token
	Right Expression
}

func (e *binaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Op.String(), e.Right.String())
}

func (e *binaryExpression) Sqlizer(r Resolver) (sq.Sqlizer, error) {
	switch e.Op {
	case and, or:
		left, err := e.Left.Sqlizer(r)
		if err != nil {
			return nil, err
		}
		right, err := e.Right.Sqlizer(r)
		if err != nil {
			return nil, err
		}
		if e.Op == and {
			return sq.And{left, right}, nil
		}
		return sq.Or{left, right}, nil
	}

	v, ok := e.Left.(*varExpression)
	if !ok {
		return nil, fmt.Errorf("left side of %s must be a field", e.Op)
	}
	col, ok := r.Resolve(v.Name)
	if !ok {
		return nil, &UnknownFieldError{Name: v.Name}
	}
	lit, ok := e.Right.(literal)
	if !ok {
		return nil, fmt.Errorf("right side of %s must be a value", e.Op)
	}
	value := lit.value()

	switch e.Op {
	case equal:
		return sq.Eq{col: value}, nil
	case notEqual:
		return sq.NotEq{col: value}, nil
	case greater:
		return sq.Gt{col: value}, nil
	case gte:
		return sq.GtOrEq{col: value}, nil
	case less:
		return sq.Lt{col: value}, nil
	case lte:
		return sq.LtOrEq{col: value}, nil
	case like, notLike:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%s expects a string", e.Op)
		}
		pattern := "%" + s + "%"
		if e.Op == like {
			return sq.Like{r.Searchable(col): pattern}, nil
		}
		return sq.NotLike{r.Searchable(col): pattern}, nil
	default:
		return nil, fmt.Errorf("unsupported operator %s", e.Op)
	}
}

// literal is implemented by value expressions.
type literal interface {
	value() any
}

// stringExpression is a literal string like "foo".
type stringExpression struct {
	Value string
}

func (e *stringExpression) String() string {
	return strconv.Quote(e.Value)
}

func (e *stringExpression) Sqlizer(Resolver) (sq.Sqlizer, error) {
	return nil, fmt.Errorf("value %s is not a condition", e)
}

func (e *stringExpression) value() any {
	return e.Value
}

// varExpression is a column identifier like "email" or "users.email".
type varExpression struct {
	Name string
}

func (v *varExpression) String() string {
	return v.Name
}

func (v *varExpression) Sqlizer(Resolver) (sq.Sqlizer, error) {
	return nil, fmt.Errorf("field %s is not a condition", v.Name)
}

// booleanExpression is a boolean literal (true or false).
type booleanExpression struct {
	Value bool
}

func (b *booleanExpression) String() string {
	return strconv.FormatBool(b.Value)
}

func (b *booleanExpression) Sqlizer(Resolver) (sq.Sqlizer, error) {
	return nil, fmt.Errorf("value %s is not a condition", b)
}

func (b *booleanExpression) value() any {
	return b.Value
}

// numberExpression holds an integer or a decimal literal.
type numberExpression struct {
	Int     int64
	Float   float64
	Decimal bool
}

func newNumberExpression(val string) *numberExpression {
	if i, err := strconv.ParseInt(val, 10, 64); err == nil {
		return &numberExpression{Int: i}
	}
	f, _ := strconv.ParseFloat(val, 64)
	return &numberExpression{Float: f, Decimal: true}
}

func (n *numberExpression) String() string {
	if n.Decimal {
		return strconv.FormatFloat(n.Float, 'f', -1, 64)
	}
	return strconv.FormatInt(n.Int, 10)
}

func (n *numberExpression) Sqlizer(Resolver) (sq.Sqlizer, error) {
	return nil, fmt.Errorf("value %s is not a condition", n)
}

func (n *numberExpression) value() any {
	if n.Decimal {
		return n.Float
	}
	return n.Int
}

// nullExpression compares with IS NULL / IS NOT NULL.
type nullExpression struct{}

func (nullExpression) String() string {
	return "null"
}

func (nullExpression) Sqlizer(Resolver) (sq.Sqlizer, error) {
	return nil, fmt.Errorf("null is not a condition")
}

func (nullExpression) value() any {
	return nil
}
