package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stoewer/go-strcase"
	"go.uber.org/zap"

	"github.com/kubev2v/datatables/internal/config"
	"github.com/kubev2v/datatables/internal/export"
	"github.com/kubev2v/datatables/internal/models"
	"github.com/kubev2v/datatables/pkg/datatable"
	srvErrors "github.com/kubev2v/datatables/pkg/errors"
	"github.com/kubev2v/datatables/pkg/filter"
)

// TableRequest is one grid request as received from a client.
type TableRequest struct {
	Table  string
	Params datatable.Params
	// Protocol overrides the configured protocol when set.
	Protocol datatable.Protocol
	// Filter is an optional filter expression over the grid columns,
	// e.g. `department = "SALES" and id > 3`.
	Filter string
}

type registeredGrid struct {
	Grid
	resolved []datatable.ResolvedColumn
}

// TableService serves registered grids. It is safe for concurrent use: every
// request gets its own DataTable.
type TableService struct {
	db      datatable.Querier
	dialect datatable.Dialect
	cfg     config.DataTable
	metrics *tableMetrics
	logger  *zap.SugaredLogger

	mu    sync.RWMutex
	grids map[string]*registeredGrid
	names []string
}

func NewTableService(cfg config.DataTable, db datatable.Querier, dialect datatable.Dialect, reg prometheus.Registerer) *TableService {
	return &TableService{
		db:      db,
		dialect: dialect,
		cfg:     cfg,
		metrics: newTableMetrics(reg),
		logger:  zap.S().Named("table_service"),
		grids:   make(map[string]*registeredGrid),
	}
}

// Register adds grids. Columns are validated and resolved once here.
func (s *TableService) Register(grids ...Grid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range grids {
		if g.Name == "" {
			return srvErrors.NewInvalidRequestError("grid name cannot be empty")
		}
		if _, found := s.grids[g.Name]; found {
			return srvErrors.NewDuplicateResourceError("table", g.Name)
		}
		resolved, err := datatable.Resolve(g.Columns, s.dialect)
		if err != nil {
			return fmt.Errorf("grid %s: %w", g.Name, err)
		}
		if len(resolved) == 0 {
			return fmt.Errorf("grid %s: %w", g.Name, srvErrors.NewInvalidColumnError(-1, "no columns configured"))
		}

		s.grids[g.Name] = &registeredGrid{Grid: g, resolved: resolved}
		s.names = append(s.names, g.Name)
		s.logger.Debugw("grid registered", "table", g.Name, "columns", datatable.ColumnNames(g.Columns))
	}
	return nil
}

// List returns the registered grids in registration order.
func (s *TableService) List() []models.GridSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GridSummary, 0, len(s.names))
	for _, name := range s.names {
		g := s.grids[name]
		out = append(out, models.GridSummary{
			Name:    g.Name,
			Columns: datatable.ColumnNames(g.Columns),
		})
	}
	return out
}

// Tables returns the base tables of the registered grids.
func (s *TableService) Tables() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var tables []string
	for _, name := range s.names {
		t := s.grids[name].Table
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tables = append(tables, t)
	}
	return tables
}

// Query answers a grid request with the envelope of the request's protocol.
func (s *TableService) Query(ctx context.Context, req TableRequest) (*datatable.Response, error) {
	start := time.Now()

	dt, protocol, err := s.newDataTable(s.db, req)
	if err != nil {
		s.observe(req.Table, protocol, err, start)
		return nil, err
	}

	resp, err := dt.Make(ctx)
	s.observe(req.Table, protocol, err, start)
	if err != nil {
		s.logger.Errorw("failed to query grid", "table", req.Table, "error", err)
		return nil, err
	}

	s.metrics.filtered.WithLabelValues(req.Table).Set(float64(resp.RecordsFiltered))
	return resp, nil
}

// Export returns every row matching the request's searches, filter and
// ordering as an xlsx workbook. Paging parameters are ignored.
func (s *TableService) Export(ctx context.Context, req TableRequest) (*models.Export, error) {
	g, err := s.grid(req.Table)
	if err != nil {
		return nil, err
	}

	names := datatable.ColumnNames(g.Columns)
	toValues := func(row datatable.Row) any {
		values := make([]any, len(names))
		for i, n := range names {
			values[i] = row[n]
		}
		return values
	}

	dt, _, err := s.newDataTable(s.db, req, datatable.WithoutPagination(), datatable.WithRowFormatter(toValues))
	if err != nil {
		return nil, err
	}

	resp, err := dt.Make(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(resp.Data))
	for _, d := range resp.Data {
		rows = append(rows, d.([]any))
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.Sheet{Name: g.Name, Headers: names, Rows: rows}); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}

	return &models.Export{
		Filename:    strcase.KebabCase(g.Name) + ".xlsx",
		ContentType: export.ContentTypeXLSX,
		Data:        buf.Bytes(),
	}, nil
}

// Explain returns the statements Query would run, without running them.
func (s *TableService) Explain(req TableRequest) (*datatable.Plan, error) {
	dt, _, err := s.newDataTable(nil, req)
	if err != nil {
		return nil, err
	}
	return dt.Plan()
}

func (s *TableService) grid(name string) (*registeredGrid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, found := s.grids[name]
	if !found {
		return nil, srvErrors.NewTableNotFoundError(name)
	}
	return g, nil
}

func (s *TableService) newDataTable(db datatable.Querier, req TableRequest, extra ...datatable.Option) (*datatable.DataTable, datatable.Protocol, error) {
	params := req.Params
	if params == nil {
		params = datatable.Values{}
	}

	protocol := req.Protocol
	if protocol == "" {
		protocol = datatable.Protocol(s.cfg.Protocol)
	}
	if protocol == datatable.ProtocolAuto {
		protocol = datatable.DetectProtocol(params)
	}

	g, err := s.grid(req.Table)
	if err != nil {
		return nil, protocol, err
	}

	transformer, err := datatable.NewTransformer(protocol, params)
	if err != nil {
		return nil, protocol, err
	}

	predicate, err := filter.Compile(req.Filter, gridResolver{columns: g.resolved, dialect: s.dialect})
	if err != nil {
		return nil, protocol, srvErrors.NewInvalidRequestError("invalid filter: %v", err)
	}

	opts := []datatable.Option{
		datatable.WithDialect(s.dialect),
		datatable.WithColumns(g.Columns...),
		datatable.WithTransformer(transformer),
		datatable.WithDefaultLength(s.cfg.DefaultLength),
		datatable.WithMaxLength(s.cfg.MaxLength, s.cfg.AllowUnbounded),
		datatable.WithDefaultOrder(g.DefaultOrder...),
		datatable.WithPredicate(predicate),
	}
	if g.RowFormatter != nil {
		opts = append(opts, datatable.WithRowFormatter(g.RowFormatter))
	}
	opts = append(opts, extra...)

	dt, err := datatable.New(db, g.Source, params, opts...)
	if err != nil {
		return nil, protocol, err
	}
	return dt, protocol, nil
}

func (s *TableService) observe(table string, protocol datatable.Protocol, err error, start time.Time) {
	outcome := outcomeOK
	switch {
	case err == nil:
	case srvErrors.IsResourceNotFoundError(err):
		outcome = outcomeNotFound
		// only registered names become label values
		table = "unknown"
	case srvErrors.IsInvalidRequestError(err), errors.Is(err, context.Canceled):
		outcome = outcomeInvalid
	default:
		outcome = outcomeError
	}

	s.metrics.requests.WithLabelValues(table, string(protocol), outcome).Inc()
	if err == nil {
		s.metrics.duration.WithLabelValues(table).Observe(time.Since(start).Seconds())
	}
}
