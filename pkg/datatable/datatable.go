package datatable

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/datatables/pkg/errors"
)

const (
	DefaultLength = 10

	// Unbounded is the wire page length asking for every row.
	Unbounded = -1

	countAlias = "dt_count"
)

// Model is a table bound source. Queries start as SELECT * FROM TableName().
type Model interface {
	TableName() string
}

// Scoper is implemented by models that narrow their base query, e.g. with
// joins or a soft-delete predicate.
type Scoper interface {
	Scope(sq.SelectBuilder) sq.SelectBuilder
}

// Option configures a DataTable.
type Option func(*DataTable)

func WithColumns(columns ...Column) Option {
	return func(d *DataTable) {
		d.columns = columns
	}
}

func WithDialect(dialect Dialect) Option {
	return func(d *DataTable) {
		d.dialect = dialect
	}
}

// WithTransformer answers with an explicit protocol version instead of the
// modern default.
func WithTransformer(t Transformer) Option {
	return func(d *DataTable) {
		d.transformer = t
	}
}

func WithRowFormatter(f RowFormatter) Option {
	return func(d *DataTable) {
		d.formatter = f
	}
}

// WithDefaultLength sets the page length used when the request has none.
func WithDefaultLength(length int) Option {
	return func(d *DataTable) {
		d.defaultLength = length
	}
}

// WithMaxLength caps the page length. When allowUnbounded is false a -1
// length is capped as well.
func WithMaxLength(max int, allowUnbounded bool) Option {
	return func(d *DataTable) {
		d.maxLength = max
		d.allowUnbounded = allowUnbounded
	}
}

// WithDefaultOrder is applied when the request asks for no ordering.
func WithDefaultOrder(orders ...Order) Option {
	return func(d *DataTable) {
		d.defaultOrder = orders
	}
}

// WithPredicate adds predicates to the filter stage. They narrow the filtered
// count but not the total one.
func WithPredicate(preds ...sq.Sqlizer) Option {
	return func(d *DataTable) {
		for _, p := range preds {
			if p != nil {
				d.predicates = append(d.predicates, p)
			}
		}
	}
}

// WithoutPagination fetches every filtered row regardless of start/length.
func WithoutPagination() Option {
	return func(d *DataTable) {
		d.paginate = false
	}
}

// DataTable translates one grid request into queries against a builder.
// It is not safe for concurrent use; build one per request.
type DataTable struct {
	db             Querier
	source         sq.SelectBuilder
	params         Params
	columns        []Column
	dialect        Dialect
	transformer    Transformer
	formatter      RowFormatter
	defaultLength  int
	maxLength      int
	allowUnbounded bool
	defaultOrder   []Order
	predicates     []sq.Sqlizer
	paginate       bool
	logger         *zap.SugaredLogger
}

// New validates the source and columns. source must be a squirrel
// SelectBuilder (or a non-nil pointer to one) or a Model. db may be nil when
// only Plan is used.
func New(db Querier, source any, params Params, opts ...Option) (*DataTable, error) {
	builder, err := sourceBuilder(source)
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = Values{}
	}

	d := &DataTable{
		db:             db,
		source:         builder,
		params:         params,
		dialect:        MySQL,
		defaultLength:  DefaultLength,
		allowUnbounded: true,
		paginate:       true,
		logger:         zap.S().Named("datatable"),
	}
	for _, opt := range opts {
		opt(d)
	}

	if len(d.columns) == 0 {
		return nil, srvErrors.NewInvalidColumnError(-1, "no columns configured")
	}
	if err := ValidateColumns(d.columns); err != nil {
		return nil, err
	}
	if d.transformer == nil {
		d.transformer = NewModernTransformer(d.params)
	}

	return d, nil
}

func sourceBuilder(source any) (sq.SelectBuilder, error) {
	switch s := source.(type) {
	case sq.SelectBuilder:
		return s, nil
	case *sq.SelectBuilder:
		if s != nil {
			return *s, nil
		}
	case Model:
		if s.TableName() == "" {
			break
		}
		b := sq.Select("*").From(s.TableName())
		if scoper, ok := s.(Scoper); ok {
			b = scoper.Scope(b)
		}
		return b, nil
	}
	return sq.SelectBuilder{}, srvErrors.NewInvalidSourceError(fmt.Sprintf("%T", source))
}

func (d *DataTable) Transformer() Transformer {
	return d.transformer
}

// Make runs the pipeline against the database and returns the envelope.
func (d *DataTable) Make(ctx context.Context) (*Response, error) {
	if d.db == nil {
		return nil, errors.New("datatable: no querier configured")
	}
	return d.run(ctx, &queryExecutor{db: d.db, dialect: d.dialect})
}

// Plan runs the pipeline without touching the database and returns the
// statements Make would execute.
func (d *DataTable) Plan() (*Plan, error) {
	rec := &planRecorder{dialect: d.dialect}
	if _, err := d.run(context.Background(), rec); err != nil {
		return nil, err
	}
	return &rec.plan, nil
}

// run executes the stages in their fixed order: count total, resolve,
// select, filter, count filtered, order, paginate, fetch and format, envelope.
func (d *DataTable) run(ctx context.Context, exec executor) (*Response, error) {
	builder := d.source.PlaceholderFormat(d.dialect.Placeholder())

	total, err := exec.count(ctx, stageCountTotal, builder)
	if err != nil {
		return nil, fmt.Errorf("counting total records: %w", err)
	}

	columns, err := Resolve(d.columns, d.dialect)
	if err != nil {
		return nil, err
	}

	t := d.transformer

	builder = d.selectColumns(builder, columns)
	builder = d.filter(builder, columns, t)

	filtered, err := exec.count(ctx, stageCountFiltered, builder)
	if err != nil {
		return nil, fmt.Errorf("counting filtered records: %w", err)
	}

	builder = d.order(builder, columns, t)
	if d.paginate {
		builder = d.limit(builder, t)
	}

	rows, err := exec.fetch(ctx, builder)
	if err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}

	data := make([]any, 0, len(rows))
	for _, row := range rows {
		data = append(data, formatRow(row, columns, t, d.formatter))
	}

	d.logger.Debugw("datatable answered", "total", total, "filtered", filtered, "rows", len(data))

	return NewResponse(t, t.Draw(), total, filtered, data), nil
}

// selectColumns replaces the projection with one raw aliased expression per
// column.
func (d *DataTable) selectColumns(b sq.SelectBuilder, columns []ResolvedColumn) sq.SelectBuilder {
	selects := make([]string, 0, len(columns))
	for _, c := range columns {
		selects = append(selects, c.Select(d.dialect))
	}
	return b.RemoveColumns().Column(strings.Join(selects, ", "))
}

// filter adds the global OR group over every column, then one AND predicate
// per individually searched column, then the configured predicates.
func (d *DataTable) filter(b sq.SelectBuilder, columns []ResolvedColumn, t Transformer) sq.SelectBuilder {
	if term := t.GlobalSearch(); term != "" {
		group := make(sq.Or, 0, len(columns))
		for _, c := range columns {
			group = append(group, sq.Like{d.dialect.Searchable(c.Expression): contains(term)})
		}
		b = b.Where(group)
	}

	for i, c := range columns {
		if !t.IsColumnSearched(i) {
			continue
		}
		b = b.Where(sq.Like{d.dialect.Searchable(c.Expression): contains(t.ColumnSearch(i))})
	}

	for _, p := range d.predicates {
		b = b.Where(p)
	}

	return b
}

// order appends ORDER BY on display names. Directives on unknown column
// indexes are ignored.
func (d *DataTable) order(b sq.SelectBuilder, columns []ResolvedColumn, t Transformer) sq.SelectBuilder {
	orders := d.defaultOrder
	if t.IsOrdered() {
		orders = t.OrderedColumns()
	}

	for _, o := range orders {
		if o.Column < 0 || o.Column >= len(columns) {
			d.logger.Debugw("ignoring sort on unknown column", "column", o.Column)
			continue
		}
		b = b.OrderBy(d.dialect.Quote(columns[o.Column].Name) + " " + o.Direction.Sql())
	}
	return b
}

// limit applies OFFSET/LIMIT. A -1 length (or any negative one) means no
// paging at all.
func (d *DataTable) limit(b sq.SelectBuilder, t Transformer) sq.SelectBuilder {
	start := t.Start()
	length := t.Length(d.defaultLength)

	if length == Unbounded && !d.allowUnbounded && d.maxLength > 0 {
		length = d.maxLength
	}
	if length < 0 {
		return b
	}
	if d.maxLength > 0 && length > d.maxLength {
		length = d.maxLength
	}
	return b.Offset(uint64(start)).Limit(uint64(length))
}

func contains(term string) string {
	return "%" + term + "%"
}
