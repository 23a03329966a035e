package cmd

import (
	"fmt"
	"io"
	"net/url"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kubev2v/datatables/internal/config"
	"github.com/kubev2v/datatables/internal/services"
	"github.com/kubev2v/datatables/internal/store"
	"github.com/kubev2v/datatables/pkg/datatable"
)

type explainOptions struct {
	table    string
	query    string
	filter   string
	protocol string
}

// NewExplainCommand prints the statements a grid request would run without
// connecting to a database.
func NewExplainCommand(cfg *config.Configuration) *cobra.Command {
	opts := &explainOptions{}

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the SQL a grid request runs",
		Example: `  datatables explain --table users --query 'draw=1&search[value]=john'
  datatables explain --table users --db-driver pgx --query 'sEcho=1&iSortCol_0=1&iSortingCols=1'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return explain(cmd.OutOrStdout(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.table, "table", "", "Name of the registered grid")
	cmd.Flags().StringVar(&opts.query, "query", "", "Request parameters as a URL query string")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "Filter expression over the grid columns")
	cmd.Flags().StringVar(&opts.protocol, "protocol", "", "Wire protocol: auto, modern or legacy (defaults to the configured one)")
	_ = cmd.MarkFlagRequired("table")

	registerDatabaseFlags(cmd, cfg)
	cmd.Flags().IntVar(&cfg.DataTable.DefaultLength, "default-page-length", cfg.DataTable.DefaultLength, "Page length used when a request carries none")
	cmd.Flags().IntVar(&cfg.DataTable.MaxLength, "max-page-length", cfg.DataTable.MaxLength, "Largest page length a request may ask for")

	return cmd
}

func explain(w io.Writer, cfg *config.Configuration, opts *explainOptions) error {
	values, err := url.ParseQuery(opts.query)
	if err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}

	tableSrv := services.NewTableService(cfg.DataTable, nil, store.DialectFor(cfg.Database.Driver), nil)
	if err := tableSrv.Register(services.DefaultGrids()...); err != nil {
		return err
	}

	plan, err := tableSrv.Explain(services.TableRequest{
		Table:    opts.table,
		Params:   datatable.ParamsFromValues(values),
		Protocol: datatable.Protocol(opts.protocol),
		Filter:   opts.filter,
	})
	if err != nil {
		return err
	}

	stage := color.New(color.FgCyan, color.Bold)
	args := color.New(color.FgYellow)

	for _, s := range []struct {
		name string
		stmt datatable.Statement
	}{
		{"count total", plan.CountTotal},
		{"count filtered", plan.CountFiltered},
		{"fetch", plan.Fetch},
	} {
		_, _ = stage.Fprintf(w, "-- %s\n", s.name)
		_, _ = fmt.Fprintln(w, s.stmt.SQL)
		if len(s.stmt.Args) > 0 {
			_, _ = args.Fprintf(w, "-- args: %v\n", s.stmt.Args)
		}
	}

	return nil
}
