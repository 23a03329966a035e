package filter

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type castResolver struct {
	Columns
}

func (castResolver) Searchable(expression string) string {
	return "CAST(" + expression + " AS TEXT)"
}

var _ = Describe("Compile", func() {
	var columns Columns

	BeforeEach(func() {
		columns = Columns{
			"id":         `"users"."id"`,
			"email":      `"users"."email"`,
			"department": "UPPER(d.name)",
			"active":     `"users"."active"`,
		}
	})

	toSql := func(src string, r Resolver) (string, []any) {
		pred, err := Compile(src, r)
		Expect(err).NotTo(HaveOccurred())
		Expect(pred).NotTo(BeNil())
		query, args, err := pred.ToSql()
		Expect(err).NotTo(HaveOccurred())
		return query, args
	}

	Context("comparisons", func() {
		type testCase struct {
			input string
			sql   string
			args  []any
		}

		tests := []testCase{
			{input: "id = 3", sql: `"users"."id" = ?`, args: []any{int64(3)}},
			{input: "id != 3", sql: `"users"."id" <> ?`, args: []any{int64(3)}},
			{input: "id > 3", sql: `"users"."id" > ?`, args: []any{int64(3)}},
			{input: "id >= 3", sql: `"users"."id" >= ?`, args: []any{int64(3)}},
			{input: "id < 2.5", sql: `"users"."id" < ?`, args: []any{2.5}},
			{input: "id <= -1", sql: `"users"."id" <= ?`, args: []any{int64(-1)}},
			{input: "active = true", sql: `"users"."active" = ?`, args: []any{true}},
			{input: "department = 'SALES'", sql: `UPPER(d.name) = ?`, args: []any{"SALES"}},
			{input: "email ~ 'example'", sql: `"users"."email" LIKE ?`, args: []any{"%example%"}},
			{input: "email !~ 'example'", sql: `"users"."email" NOT LIKE ?`, args: []any{"%example%"}},
			{input: "department = null", sql: `UPPER(d.name) IS NULL`},
			{input: "department != null", sql: `UPPER(d.name) IS NOT NULL`},
			{input: "EMAIL = 'x'", sql: `"users"."email" = ?`, args: []any{"x"}},
		}

		for _, test := range tests {
			test := test
			It("should compile: "+test.input, func() {
				query, args := toSql(test.input, columns)
				Expect(query).To(Equal(test.sql))
				if test.args == nil {
					Expect(args).To(BeEmpty())
				} else {
					Expect(args).To(Equal(test.args))
				}
			})
		}
	})

	// Given a filter combining and/or with parentheses
	// When it is compiled
	// Then the predicate keeps the grouping and binds values in order
	It("should group logical operators", func() {
		query, args := toSql("department = 'SALES' and (id > 10 or email ~ 'example.org')", columns)

		Expect(query).To(Equal(`(UPPER(d.name) = ? AND ("users"."id" > ? OR "users"."email" LIKE ?))`))
		Expect(args).To(Equal([]any{"SALES", int64(10), "%example.org%"}))
	})

	It("should wrap contains matches with the resolver", func() {
		query, _ := toSql("id ~ '4'", castResolver{columns})
		Expect(query).To(Equal(`CAST("users"."id" AS TEXT) LIKE ?`))
	})

	It("should compose with a select builder", func() {
		pred, err := Compile("id > 1", columns)
		Expect(err).NotTo(HaveOccurred())

		query, args, err := sq.Select("*").From("users").Where(pred).PlaceholderFormat(sq.Dollar).ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(query).To(Equal(`SELECT * FROM users WHERE "users"."id" > $1`))
		Expect(args).To(Equal([]any{int64(1)}))
	})

	It("should return a nil predicate for a blank filter", func() {
		pred, err := Compile("  ", columns)
		Expect(err).NotTo(HaveOccurred())
		Expect(pred).To(BeNil())
	})

	Context("errors", func() {
		It("should reject unknown fields", func() {
			_, err := Compile("password = 'x'", columns)
			Expect(err).To(HaveOccurred())
			var unknown *UnknownFieldError
			Expect(errors.As(err, &unknown)).To(BeTrue())
			Expect(unknown.Name).To(Equal("password"))
		})

		It("should reject contains matches on non strings", func() {
			_, err := Compile("email ~ 3", columns)
			Expect(err).To(MatchError(ContainSubstring("expects a string")))
		})

		It("should return parse errors", func() {
			_, err := Compile("id =", columns)
			var pe ParseError
			Expect(errors.As(err, &pe)).To(BeTrue())
		})
	})
})
