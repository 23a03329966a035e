package datatable

import (
	srvErrors "github.com/kubev2v/datatables/pkg/errors"
)

// Field names used internally. Transformers map them to wire names.
const (
	FieldDraw            = "draw"
	FieldRecordsTotal    = "recordsTotal"
	FieldRecordsFiltered = "recordsFiltered"
	FieldData            = "data"
	FieldStart           = "start"
	FieldLength          = "length"
	FieldRowID           = "DT_RowId"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection returns Asc only for exactly "asc"; anything else sorts
// descending.
func ParseDirection(s string) Direction {
	if s == string(Asc) {
		return Asc
	}
	return Desc
}

func (d Direction) Sql() string {
	if d == Asc {
		return "ASC"
	}
	return "DESC"
}

// Order is a single sort directive on a column index.
type Order struct {
	Column    int
	Direction Direction
}

// orderSet keeps directives in first-seen order. A repeated column keeps its
// position and takes the later direction.
type orderSet struct {
	orders []Order
	index  map[int]int
}

func (s *orderSet) add(column int, dir Direction) {
	if s.index == nil {
		s.index = make(map[int]int)
	}
	if i, ok := s.index[column]; ok {
		s.orders[i].Direction = dir
		return
	}
	s.index[column] = len(s.orders)
	s.orders = append(s.orders, Order{Column: column, Direction: dir})
}

func (s *orderSet) list() []Order {
	if s.orders == nil {
		return []Order{}
	}
	return s.orders
}

// Transformer reads search, sort and field naming for one wire protocol
// version. Implementations are immutable once built.
type Transformer interface {
	// FieldName maps an internal field name to its wire name. Unknown names
	// are returned unchanged.
	FieldName(name string) string
	GlobalSearch() string
	IsColumnSearched(column int) bool
	ColumnSearch(column int) string
	IsOrdered() bool
	OrderedColumns() []Order
	// Draw is the echo token, 0 when absent.
	Draw() int
	// Start is the page offset, never negative.
	Start() int
	// Length is the requested page size. defaultLength applies when the
	// request has none; a non positive default falls back to DefaultLength.
	Length(defaultLength int) int
}

type Protocol string

const (
	ProtocolLegacy Protocol = "legacy"
	ProtocolModern Protocol = "modern"
	ProtocolAuto   Protocol = "auto"
)

// DetectProtocol picks legacy when the request carries the legacy echo key.
func DetectProtocol(params Params) Protocol {
	if _, ok := params.Get(legacyFields[FieldDraw]); ok {
		return ProtocolLegacy
	}
	return ProtocolModern
}

// NewTransformer builds the transformer for protocol. Auto and the empty
// protocol are resolved with DetectProtocol.
func NewTransformer(protocol Protocol, params Params) (Transformer, error) {
	if protocol == "" || protocol == ProtocolAuto {
		protocol = DetectProtocol(params)
	}
	switch protocol {
	case ProtocolLegacy:
		return NewLegacyTransformer(params), nil
	case ProtocolModern:
		return NewModernTransformer(params), nil
	default:
		return nil, srvErrors.NewInvalidRequestError("unknown protocol %q", protocol)
	}
}

func readDraw(params Params, t Transformer) int {
	return paramInt(params, 0, t.FieldName(FieldDraw))
}

func readStart(params Params, t Transformer) int {
	return max(paramInt(params, 0, t.FieldName(FieldStart)), 0)
}

func readLength(params Params, t Transformer, defaultLength int) int {
	if defaultLength <= 0 {
		defaultLength = DefaultLength
	}
	return paramInt(params, defaultLength, t.FieldName(FieldLength))
}
