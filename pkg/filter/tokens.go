package filter

type Token int

const (
	illegal Token = iota
	eol
	and
	or
	equal
	gte
	greater
	lte
	less
	notEqual
	like
	notLike
	lbracket
	rbracket
	stringLit
	number
	identifier
	boolean
	null
)

var tokenNames = map[Token]string{
	illegal:    "illegal",
	eol:        "eol",
	and:        "and",
	equal:      "equal",
	gte:        "gte",
	greater:    "greater",
	lte:        "lte",
	less:       "less",
	or:         "or",
	notEqual:   "notEqual",
	like:       "like",
	notLike:    "notLike",
	stringLit:  "stringLit",
	number:     "number",
	lbracket:   "lbracket",
	rbracket:   "rbracket",
	identifier: "identifier",
	boolean:    "boolean",
	null:       "null",
}

func (t Token) String() string {
	return tokenNames[t]
}
