package datatable

import (
	"strings"

	sq "github.com/Masterminds/squirrel"
)

const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectDuckDB   = "duckdb"
)

// Dialect captures the SQL differences the translation depends on.
type Dialect interface {
	// Name is the driver family, e.g. "sqlite".
	Name() string
	// Quote wraps an identifier, quoting each dot separated segment.
	Quote(identifier string) string
	// Concat joins expressions with a single space between them.
	Concat(parts []string) string
	// Searchable adapts an expression so it can be the left side of LIKE.
	Searchable(expression string) string
	Placeholder() sq.PlaceholderFormat
}

var (
	SQLite   Dialect = sqliteDialect{}
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
	DuckDB   Dialect = duckdbDialect{}
)

// DialectForDriver maps a database/sql driver name to its dialect. Unknown
// drivers get MySQL, whose CONCAT form is the generic one.
func DialectForDriver(driver string) Dialect {
	switch strings.ToLower(driver) {
	case "sqlite", "sqlite3":
		return SQLite
	case "postgres", "postgresql", "pgx", "pq":
		return Postgres
	case "duckdb":
		return DuckDB
	default:
		return MySQL
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DialectSQLite }

func (sqliteDialect) Quote(identifier string) string { return quoteWith(identifier, '"') }

func (sqliteDialect) Concat(parts []string) string {
	return "(" + strings.Join(parts, ` || " " || `) + ")"
}

func (sqliteDialect) Searchable(expression string) string { return expression }

func (sqliteDialect) Placeholder() sq.PlaceholderFormat { return sq.Question }

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return DialectMySQL }

func (mysqlDialect) Quote(identifier string) string { return quoteWith(identifier, '`') }

func (mysqlDialect) Concat(parts []string) string {
	return "CONCAT(" + strings.Join(parts, `, " ", `) + ")"
}

func (mysqlDialect) Searchable(expression string) string { return expression }

func (mysqlDialect) Placeholder() sq.PlaceholderFormat { return sq.Question }

// postgresDialect uses a single quoted separator: double quotes are
// identifiers in PostgreSQL.
type postgresDialect struct{}

func (postgresDialect) Name() string { return DialectPostgres }

func (postgresDialect) Quote(identifier string) string { return quoteWith(identifier, '"') }

func (postgresDialect) Concat(parts []string) string {
	return "CONCAT(" + strings.Join(parts, `, ' ', `) + ")"
}

func (postgresDialect) Searchable(expression string) string {
	return "CAST(" + expression + " AS TEXT)"
}

func (postgresDialect) Placeholder() sq.PlaceholderFormat { return sq.Dollar }

type duckdbDialect struct{}

func (duckdbDialect) Name() string { return DialectDuckDB }

func (duckdbDialect) Quote(identifier string) string { return quoteWith(identifier, '"') }

func (duckdbDialect) Concat(parts []string) string {
	return "CONCAT(" + strings.Join(parts, `, ' ', `) + ")"
}

func (duckdbDialect) Searchable(expression string) string {
	return "CAST(" + expression + " AS VARCHAR)"
}

func (duckdbDialect) Placeholder() sq.PlaceholderFormat { return sq.Question }

// quoteWith wraps each segment of a dotted identifier. "*" is left bare and
// embedded quote characters are doubled.
func quoteWith(identifier string, q byte) string {
	segments := strings.Split(identifier, ".")
	quote := string(q)
	for i, s := range segments {
		if s == "*" {
			continue
		}
		segments[i] = quote + strings.ReplaceAll(s, quote, quote+quote) + quote
	}
	return strings.Join(segments, ".")
}
