package datatable

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Formatting", func() {
	var columns []ResolvedColumn

	BeforeEach(func() {
		var err error
		columns, err = Resolve([]Column{Simple("id"), Concat("first_name", "last_name")}, SQLite)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("records", func() {
		// Given a row carrying an id
		// When it is formatted with the modern transformer
		// Then the record has the values in column order and the id under DT_RowId
		It("should attach the row id", func() {
			row := Row{"id": 7, "firstNameLastName": "John Smith"}

			out := formatRow(row, columns, NewModernTransformer(Values{}), nil)

			record, ok := out.(Record)
			Expect(ok).To(BeTrue())
			Expect(record.Values).To(Equal([]any{7, "John Smith"}))
			Expect(record.HasRowID).To(BeTrue())
			Expect(record.RowID).To(Equal(7))
			Expect(record.RowIDKey()).To(Equal("DT_RowId"))

			data, err := json.Marshal(record)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"0":7,"1":"John Smith","DT_RowId":7}`))
		})

		It("should encode a record without id as an array", func() {
			cols, err := Resolve(Columns("first_name", "last_name"), SQLite)
			Expect(err).NotTo(HaveOccurred())

			out := formatRow(Row{"first_name": "Jane", "last_name": "Doe"}, cols, NewLegacyTransformer(Values{}), nil)

			data, err := json.Marshal(out)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`["Jane","Doe"]`))
		})

		It("should use nil for columns missing from the row", func() {
			out := formatRow(Row{"id": 1}, columns, NewModernTransformer(Values{}), nil)
			Expect(out.(Record).Values).To(Equal([]any{1, nil}))
		})

		It("should encode an empty record", func() {
			data, err := json.Marshal(Record{})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`[]`))

			data, err = json.Marshal(Record{HasRowID: true, RowID: "a"})
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"DT_RowId":"a"}`))
		})
	})

	Context("custom formatter", func() {
		It("should use the formatter result verbatim", func() {
			formatter := func(row Row) any {
				return map[string]any{"name": row["firstNameLastName"]}
			}

			out := formatRow(Row{"id": 1, "firstNameLastName": "Ann Lee"}, columns, NewModernTransformer(Values{}), formatter)

			Expect(out).To(Equal(map[string]any{"name": "Ann Lee"}))
		})
	})

	Context("response envelope", func() {
		It("should use modern keys in order", func() {
			resp := NewResponse(NewModernTransformer(Values{}), 3, 10, 2, nil)

			data, err := json.Marshal(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"draw":3,"recordsTotal":10,"recordsFiltered":2,"data":[]}`))
			Expect(resp.Keys()).To(Equal([]string{"draw", "recordsTotal", "recordsFiltered", "data"}))
		})

		It("should default a zero envelope to modern keys", func() {
			resp := &Response{Draw: 1, Data: []any{}}

			data, err := json.Marshal(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"draw":1,"recordsTotal":0,"recordsFiltered":0,"data":[]}`))
		})

		It("should use legacy keys", func() {
			resp := NewResponse(NewLegacyTransformer(Values{}), 5, 1, 1, []any{[]any{"a"}})

			data, err := json.Marshal(resp)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal(`{"sEcho":5,"iTotalRecords":1,"iTotalDisplayRecords":1,"aaData":[["a"]]}`))
			Expect(resp.Map()).To(HaveKeyWithValue("aaData", []any{[]any{"a"}}))
		})
	})
})
