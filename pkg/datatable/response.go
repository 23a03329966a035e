package datatable

import (
	"bytes"
)

// Response is the envelope returned to the grid. Its JSON keys come from the
// transformer the request was answered with; a zero Response uses the modern
// keys.
type Response struct {
	Draw            int
	RecordsTotal    int
	RecordsFiltered int
	Data            []any

	keys [4]string
}

// NewResponse builds an envelope keyed for t. A nil data is sent as [].
func NewResponse(t Transformer, draw, total, filtered int, data []any) *Response {
	if data == nil {
		data = []any{}
	}
	return &Response{
		Draw:            draw,
		RecordsTotal:    total,
		RecordsFiltered: filtered,
		Data:            data,
		keys: [4]string{
			t.FieldName(FieldDraw),
			t.FieldName(FieldRecordsTotal),
			t.FieldName(FieldRecordsFiltered),
			t.FieldName(FieldData),
		},
	}
}

// Keys returns the wire keys for draw, records total, records filtered and
// data, in that order.
func (r *Response) Keys() []string {
	keys := r.wireKeys()
	return keys[:]
}

func (r *Response) wireKeys() [4]string {
	if r.keys == ([4]string{}) {
		return [4]string{FieldDraw, FieldRecordsTotal, FieldRecordsFiltered, FieldData}
	}
	return r.keys
}

// Map returns the envelope keyed by its wire names.
func (r *Response) Map() map[string]any {
	keys := r.wireKeys()
	return map[string]any{
		keys[0]: r.Draw,
		keys[1]: r.RecordsTotal,
		keys[2]: r.RecordsFiltered,
		keys[3]: r.Data,
	}
}

func (r *Response) MarshalJSON() ([]byte, error) {
	values := []any{r.Draw, r.RecordsTotal, r.RecordsFiltered, r.Data}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.wireKeys() {
		if err := writeMember(&buf, key, values[i], i == 0); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
