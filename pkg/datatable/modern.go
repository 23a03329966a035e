package datatable

import (
	"strconv"

	"github.com/spf13/cast"
)

// ModernTransformer reads DataTables 1.10+ nested parameters
// (search[value], columns[i][search][value], order[i][column], ...). Wire
// names equal the internal ones.
type ModernTransformer struct {
	params Params
}

func NewModernTransformer(params Params) *ModernTransformer {
	return &ModernTransformer{params: params}
}

func (t *ModernTransformer) FieldName(name string) string {
	return name
}

func (t *ModernTransformer) GlobalSearch() string {
	return paramString(t.params, "search", "value")
}

// IsColumnSearched is true when columns[i][search][value] is present and not
// empty. There is no separate searchable flag.
func (t *ModernTransformer) IsColumnSearched(column int) bool {
	return t.ColumnSearch(column) != ""
}

func (t *ModernTransformer) ColumnSearch(column int) string {
	return paramString(t.params, "columns", strconv.Itoa(column), "search", "value")
}

func (t *ModernTransformer) IsOrdered() bool {
	return len(t.orderList()) > 0
}

// OrderedColumns follows the order list as sent. Entries without a numeric
// column are skipped.
func (t *ModernTransformer) OrderedColumns() []Order {
	var set orderSet
	for _, entry := range t.orderList() {
		col, ok := toInt(field(entry, "column"))
		if !ok {
			continue
		}
		set.add(col, ParseDirection(cast.ToString(field(entry, "dir"))))
	}
	return set.list()
}

func (t *ModernTransformer) orderList() []any {
	v, ok := t.params.Get("order")
	if !ok {
		return nil
	}
	return list(v)
}

func field(v any, key string) any {
	switch node := v.(type) {
	case map[string]any:
		return node[key]
	case Values:
		return node[key]
	default:
		return nil
	}
}

func (t *ModernTransformer) Draw() int { return readDraw(t.params, t) }

func (t *ModernTransformer) Start() int { return readStart(t.params, t) }

func (t *ModernTransformer) Length(defaultLength int) int {
	return readLength(t.params, t, defaultLength)
}
