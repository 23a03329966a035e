package config

import "time"

//go:generate go run github.com/ecordell/optgen -output zz_generated.configuration.go . Configuration

type Configuration struct {
	Server    Server    `debugmap:"visible"`
	Database  Database  `debugmap:"visible"`
	DataTable DataTable `debugmap:"visible"`
	Stats     Stats     `debugmap:"visible"`
	Log       Log       `debugmap:"visible"`
}

type Server struct {
	HTTPPort   int    `default:"8000" validate:"min=1,max=65535"`
	ServerMode string `default:"dev" validate:"oneof=dev prod"`
	// CertOrganization is the subject organization of the self-signed
	// certificate served in prod mode.
	CertOrganization string `default:"datatables"`
}

type Database struct {
	Driver string `default:"duckdb" validate:"oneof=duckdb sqlite3 pgx"`
	DSN    string `default:":memory:" validate:"required"`
	Seed   bool   `default:"false"`
}

type DataTable struct {
	// DefaultLength is the page size used when a request carries none.
	DefaultLength int `default:"10" validate:"min=1"`
	// MaxLength caps the page size a client may ask for.
	MaxLength      int    `default:"1000" validate:"min=1"`
	AllowUnbounded bool   `default:"true"`
	Protocol       string `default:"auto" validate:"oneof=auto modern legacy"`
}

// Stats controls the background row counter feeding the table gauges.
type Stats struct {
	Interval time.Duration `default:"30s"`
	Workers  int           `default:"2" validate:"min=1"`
}

type Log struct {
	Level  string `default:"info" validate:"oneof=debug info warn error"`
	Format string `default:"console" validate:"oneof=console json"`
}
