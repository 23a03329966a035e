package datatable

import "strconv"

// legacyFields maps internal names to the DataTables 1.9 request/response keys.
var legacyFields = map[string]string{
	FieldDraw:            "sEcho",
	FieldRecordsTotal:    "iTotalRecords",
	FieldRecordsFiltered: "iTotalDisplayRecords",
	FieldData:            "aaData",
	FieldStart:           "iDisplayStart",
	FieldLength:          "iDisplayLength",
}

// LegacyTransformer reads DataTables 1.9 flat parameters (sSearch,
// bSearchable_0, iSortCol_0, ...).
type LegacyTransformer struct {
	params Params
	fields map[string]string
}

func NewLegacyTransformer(params Params) *LegacyTransformer {
	return &LegacyTransformer{params: params, fields: legacyFields}
}

func (t *LegacyTransformer) FieldName(name string) string {
	if wire, ok := t.fields[name]; ok {
		return wire
	}
	return name
}

func (t *LegacyTransformer) GlobalSearch() string {
	return paramString(t.params, "sSearch")
}

// IsColumnSearched requires bSearchable_i to be exactly "true" and a non
// empty sSearch_i.
func (t *LegacyTransformer) IsColumnSearched(column int) bool {
	i := strconv.Itoa(column)
	return paramString(t.params, "bSearchable_"+i) == "true" &&
		paramString(t.params, "sSearch_"+i) != ""
}

func (t *LegacyTransformer) ColumnSearch(column int) string {
	return paramString(t.params, "sSearch_"+strconv.Itoa(column))
}

// IsOrdered reports whether a first sort directive is present. It is only a
// pre-check: OrderedColumns is bounded by iSortingCols.
func (t *LegacyTransformer) IsOrdered() bool {
	return paramString(t.params, "iSortCol_0") != ""
}

// OrderedColumns walks iSortingCols directives and keeps those whose column
// has bSortable_<col> == "true". The walk stops at the first missing
// iSortCol_<k>, so iSortingCols never drives more iterations than the
// request has directives.
func (t *LegacyTransformer) OrderedColumns() []Order {
	var set orderSet
	sortingCols := paramInt(t.params, 0, "iSortingCols")

	for i := 0; i < sortingCols; i++ {
		k := strconv.Itoa(i)
		if _, ok := t.params.Get("iSortCol_" + k); !ok {
			break
		}
		col := paramInt(t.params, 0, "iSortCol_"+k)
		if paramString(t.params, "bSortable_"+strconv.Itoa(col)) != "true" {
			continue
		}
		set.add(col, ParseDirection(paramString(t.params, "sSortDir_"+k)))
	}

	return set.list()
}

func (t *LegacyTransformer) Draw() int { return readDraw(t.params, t) }

func (t *LegacyTransformer) Start() int { return readStart(t.params, t) }

func (t *LegacyTransformer) Length(defaultLength int) int {
	return readLength(t.params, t, defaultLength)
}
