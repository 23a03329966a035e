package datatable

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	stageCountTotal    = "count_total"
	stageCountFiltered = "count_filtered"
	stageFetch         = "fetch"
)

// Querier executes SQL. *sql.DB, *sql.Tx and the store's query interceptor
// satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Statement is a rendered query and its bound arguments.
type Statement struct {
	SQL  string
	Args []any
}

func (s Statement) String() string {
	return fmt.Sprintf("%s %v", s.SQL, s.Args)
}

// Plan holds the three statements a request runs, in execution order.
type Plan struct {
	CountTotal    Statement
	CountFiltered Statement
	Fetch         Statement
}

func (p Plan) Statements() []Statement {
	return []Statement{p.CountTotal, p.CountFiltered, p.Fetch}
}

type executor interface {
	count(ctx context.Context, stage string, b sq.SelectBuilder) (int, error)
	fetch(ctx context.Context, b sq.SelectBuilder) ([]Row, error)
}

// countStatement wraps the builder as a derived table so grouped and
// distinct sources count correctly. A distinct builder keeps its projection:
// the distinct rows are what gets counted.
func countStatement(b sq.SelectBuilder, d Dialect) (Statement, error) {
	inner := b
	if !isDistinct(b) {
		inner = b.RemoveColumns().Column("1")
	}

	query, args, err := sq.Select("COUNT(*)").
		FromSelect(inner, countAlias).
		PlaceholderFormat(d.Placeholder()).
		ToSql()
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: query, Args: args}, nil
}

func isDistinct(b sq.SelectBuilder) bool {
	query, _, err := b.ToSql()
	if err != nil {
		return false
	}
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT DISTINCT")
}

func fetchStatement(b sq.SelectBuilder) (Statement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return Statement{}, err
	}
	return Statement{SQL: query, Args: args}, nil
}

type queryExecutor struct {
	db      Querier
	dialect Dialect
}

func (e *queryExecutor) count(ctx context.Context, stage string, b sq.SelectBuilder) (int, error) {
	stmt, err := countStatement(b, e.dialect)
	if err != nil {
		return 0, fmt.Errorf("building %s query: %w", stage, err)
	}

	var n int
	if err := e.db.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (e *queryExecutor) fetch(ctx context.Context, b sq.SelectBuilder) ([]Row, error) {
	stmt, err := fetchStatement(b)
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", stageFetch, err)
	}

	rows, err := e.db.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// scanRows reads every row into a Row keyed by column name. []byte values
// are turned into strings.
func scanRows(rows *sql.Rows) ([]Row, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []Row
	for rows.Next() {
		values := make([]any, len(names))
		pointers := make([]any, len(names))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		row := make(Row, len(names))
		for i, name := range names {
			if b, ok := values[i].([]byte); ok {
				row[name] = string(b)
				continue
			}
			row[name] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return result, nil
}

// planRecorder renders statements instead of running them.
type planRecorder struct {
	dialect Dialect
	plan    Plan
}

func (p *planRecorder) count(_ context.Context, stage string, b sq.SelectBuilder) (int, error) {
	stmt, err := countStatement(b, p.dialect)
	if err != nil {
		return 0, fmt.Errorf("building %s query: %w", stage, err)
	}
	switch stage {
	case stageCountTotal:
		p.plan.CountTotal = stmt
	case stageCountFiltered:
		p.plan.CountFiltered = stmt
	}
	return 0, nil
}

func (p *planRecorder) fetch(_ context.Context, b sq.SelectBuilder) ([]Row, error) {
	stmt, err := fetchStatement(b)
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", stageFetch, err)
	}
	p.plan.Fetch = stmt
	return nil, nil
}
