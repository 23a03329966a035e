package datatable

import (
	"net/url"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Params", func() {
	It("should expand bracket notation into nested maps", func() {
		values := url.Values{
			"draw":                      {"4"},
			"columns[0][search][value]": {"x"},
			"columns[0][data]":          {"0"},
			"search[regex]":             {"false"},
		}

		params := ParamsFromValues(values)

		Expect(params).To(HaveKeyWithValue("draw", "4"))
		Expect(paramString(params, "columns", "0", "search", "value")).To(Equal("x"))
		Expect(paramString(params, "columns", "0", "data")).To(Equal("0"))
		Expect(paramString(params, "search", "regex")).To(Equal("false"))
	})

	It("should append empty brackets as indexes", func() {
		params := ParamsFromValues(url.Values{"tags[]": {"a", "b"}})

		v, ok := params.Get("tags")
		Expect(ok).To(BeTrue())
		Expect(list(v)).To(Equal([]any{"a", "b"}))
	})

	It("should keep the first of repeated values", func() {
		params := ParamsFromValues(url.Values{"sSearch": {"first", "second"}})
		Expect(paramString(params, "sSearch")).To(Equal("first"))
	})

	It("should leave malformed bracket keys flat", func() {
		params := ParamsFromValues(url.Values{"[x]": {"1"}, "a[b": {"2"}})
		Expect(params).To(HaveKeyWithValue("[x]", "1"))
		Expect(params).To(HaveKeyWithValue("a[b", "2"))
	})

	Context("lookups", func() {
		var params Values

		BeforeEach(func() {
			params = ParamsFromMap(map[string]any{
				"start":  float64(20),
				"length": "-1",
				"draw":   "abc",
				"order":  []any{map[string]any{"column": "1"}},
			})
		})

		It("should convert JSON numbers and numeric strings", func() {
			Expect(paramInt(params, 0, "start")).To(Equal(20))
			Expect(paramInt(params, 10, "length")).To(Equal(-1))
		})

		It("should fall back to the default for missing or non numeric values", func() {
			Expect(paramInt(params, 7, "missing")).To(Equal(7))
			Expect(paramInt(params, 0, "draw")).To(Equal(0))
		})

		It("should index into slices", func() {
			Expect(paramString(params, "order", "0", "column")).To(Equal("1"))
			Expect(paramString(params, "order", "1", "column")).To(BeEmpty())
			Expect(paramString(params, "order", "x")).To(BeEmpty())
		})

		It("should treat a nil map as empty", func() {
			Expect(ParamsFromMap(nil)).To(BeEmpty())
		})
	})
})
