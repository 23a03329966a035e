package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kubev2v/datatables/internal/config"
	"github.com/kubev2v/datatables/internal/handlers"
	"github.com/kubev2v/datatables/internal/server"
	"github.com/kubev2v/datatables/internal/services"
	"github.com/kubev2v/datatables/internal/store"
	"github.com/kubev2v/datatables/internal/store/migrations"
)

const shutdownTimeout = 10 * time.Second

// flagNames maps configuration fields to the flags setting them so
// validation errors name what the user typed.
var flagNames = map[string]string{
	"Configuration.Server.HTTPPort":         "server-http-port",
	"Configuration.Server.ServerMode":       "server-mode",
	"Configuration.Database.Driver":         "db-driver",
	"Configuration.Database.DSN":            "db-dsn",
	"Configuration.DataTable.DefaultLength": "default-page-length",
	"Configuration.DataTable.MaxLength":     "max-page-length",
	"Configuration.DataTable.Protocol":      "protocol",
	"Configuration.Stats.Workers":           "stats-workers",
	"Configuration.Log.Level":               "log-level",
	"Configuration.Log.Format":              "log-format",
}

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the DataTables server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			undo := zap.ReplaceGlobals(logger)
			defer undo()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return run(ctx, cfg)
		},
	}

	registerServerFlags(cmd, cfg)
	registerDatabaseFlags(cmd, cfg)
	registerDataTableFlags(cmd, cfg)

	cmd.Flags().BoolVar(&cfg.Database.Seed, "seed", cfg.Database.Seed, "Fill empty demo tables with sample data")
	cmd.Flags().DurationVar(&cfg.Stats.Interval, "stats-interval", cfg.Stats.Interval, "Interval between table row counts (0 counts once)")
	cmd.Flags().IntVar(&cfg.Stats.Workers, "stats-workers", cfg.Stats.Workers, "Number of workers counting table rows")
	cmd.Flags().StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: console or json")

	return cmd
}

func registerServerFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "Port the HTTP server listens on")
	cmd.Flags().StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "Server mode: dev or prod (prod serves TLS)")
}

func registerDatabaseFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "Database driver: duckdb, sqlite3 or pgx")
	cmd.Flags().StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "Database DSN or file path")
}

func registerDataTableFlags(cmd *cobra.Command, cfg *config.Configuration) {
	cmd.Flags().IntVar(&cfg.DataTable.DefaultLength, "default-page-length", cfg.DataTable.DefaultLength, "Page length used when a request carries none")
	cmd.Flags().IntVar(&cfg.DataTable.MaxLength, "max-page-length", cfg.DataTable.MaxLength, "Largest page length a request may ask for")
	cmd.Flags().BoolVar(&cfg.DataTable.AllowUnbounded, "allow-unbounded", cfg.DataTable.AllowUnbounded, "Allow length -1 to return every row")
	cmd.Flags().StringVar(&cfg.DataTable.Protocol, "protocol", cfg.DataTable.Protocol, "Wire protocol: auto, modern or legacy")
}

func run(ctx context.Context, cfg *config.Configuration) error {
	log := zap.S().Named("run")

	db, err := store.NewDB(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	st := store.NewStore(db, cfg.Database.Driver)
	defer func() {
		if err := st.Close(); err != nil {
			log.Errorw("failed to close store", "error", err)
		}
	}()

	if err := migrations.Run(ctx, db, st.Dialect()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if cfg.Database.Seed {
		if err := st.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tableSrv := services.NewTableService(cfg.DataTable, st.DB(), st.Dialect(), registry)
	if err := tableSrv.Register(services.DefaultGrids()...); err != nil {
		return fmt.Errorf("failed to register grids: %w", err)
	}

	statsSrv := services.NewStatsService(cfg.Stats, st.Schema(), tableSrv.Tables(), registry)
	statsSrv.Start(ctx)
	defer statsSrv.Stop()

	srv, err := server.NewServer(cfg, registry, handlers.New(tableSrv, statsSrv).Register)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server started", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode, "driver", cfg.Database.Driver, "tables", tableSrv.Tables())
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Stop(shutdownCtx)
	}

	return nil
}

func validateConfiguration(cfg *config.Configuration) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		fe := fieldErrs[0]
		name, ok := flagNames[fe.StructNamespace()]
		if !ok {
			name = fe.StructNamespace()
		}
		if fe.Tag() == "required" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return fmt.Errorf("invalid %s: %v", name, fe.Value())
	}

	if cfg.DataTable.DefaultLength > cfg.DataTable.MaxLength {
		return fmt.Errorf("default-page-length %d exceeds max-page-length %d", cfg.DataTable.DefaultLength, cfg.DataTable.MaxLength)
	}

	if cfg.Stats.Interval < 0 {
		return fmt.Errorf("invalid stats-interval: %s", cfg.Stats.Interval)
	}

	return nil
}
