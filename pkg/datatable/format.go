package datatable

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Row is a fetched database row keyed by selected column name.
type Row map[string]any

// RowFormatter projects a fetched row into the value sent to the client. Its
// result is used as is.
type RowFormatter func(Row) any

// Record is the default projection of a row: the values in column order and,
// when the row has an "id", the row identifier the grid keys DOM rows by.
type Record struct {
	Values   []any
	RowID    any
	HasRowID bool

	rowIDKey string
}

// MarshalJSON encodes a record without a row id as a JSON array. With a row
// id it becomes an object keyed "0".."n-1" plus the row id key.
func (r Record) MarshalJSON() ([]byte, error) {
	values := r.Values
	if values == nil {
		values = []any{}
	}
	if !r.HasRowID {
		return json.Marshal(values)
	}

	key := r.rowIDKey
	if key == "" {
		key = FieldRowID
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range values {
		if err := writeMember(&buf, strconv.Itoa(i), v, i == 0); err != nil {
			return nil, err
		}
	}
	if err := writeMember(&buf, key, r.RowID, len(values) == 0); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RowIDKey is the wire key holding RowID.
func (r Record) RowIDKey() string {
	if r.rowIDKey == "" {
		return FieldRowID
	}
	return r.rowIDKey
}

func writeMember(buf *bytes.Buffer, key string, value any, first bool) error {
	if !first {
		buf.WriteByte(',')
	}
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// formatRow applies the custom formatter, or builds a Record following the
// resolved column order.
func formatRow(row Row, columns []ResolvedColumn, t Transformer, custom RowFormatter) any {
	if custom != nil {
		return custom(row)
	}

	record := Record{
		Values:   make([]any, 0, len(columns)),
		rowIDKey: t.FieldName(FieldRowID),
	}
	for _, c := range columns {
		record.Values = append(record.Values, row[c.Name])
	}
	if id, ok := row["id"]; ok {
		record.RowID = id
		record.HasRowID = true
	}
	return record
}
