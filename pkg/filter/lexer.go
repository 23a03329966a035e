package filter

import "strings"

type lexer struct {
	src     []byte
	ch      byte
	offset  int
	pos     int
	nextPos int
}

func newLexer(src []byte) *lexer {
	l := &lexer{src: src}
	l.next()

	return l
}

func (l *lexer) Scan() (int, Token, string) {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.next()
	}

	if l.ch == 0 {
		return l.pos, eol, ""
	}

	tok := illegal
	pos := l.pos
	val := ""

	ch := l.ch
	l.next()

	// keywords and identifiers
	if isIdentifierStart(ch) {
		start := l.tokenStart()
		lastDot := false
		for isIdentifierStart(l.ch) || isDigit(l.ch) || isDot(l.ch) {
			if isDot(l.ch) && lastDot {
				return pos, illegal, "identifier has an empty segment"
			}
			lastDot = isDot(l.ch)
			l.next()
		}
		if lastDot {
			return pos, illegal, "identifier ends with a dot"
		}
		name := string(l.src[start:l.tokenEnd()])
		switch strings.ToLower(name) {
		case "and":
			tok = and
		case "or":
			tok = or
		case "null":
			tok = null
		case "true", "false":
			tok = boolean
			val = name
		default:
			tok = identifier
			val = name
		}
		return pos, tok, val
	}

	if isDigit(ch) || (ch == '-' && isDigit(l.ch)) {
		start := l.tokenStart()
		dots := 0
		for isDigit(l.ch) || isDot(l.ch) {
			if isDot(l.ch) {
				dots++
			}
			l.next()
		}
		if dots > 1 {
			return pos, illegal, "malformed number"
		}
		val = string(l.src[start:l.tokenEnd()])
		if strings.HasSuffix(val, ".") {
			return pos, illegal, "malformed number"
		}
		tok = number
		return pos, tok, val
	}

	switch ch {
	case '(':
		tok = lbracket
	case ')':
		tok = rbracket
	case '=':
		tok = equal
	case '~':
		tok = like
	case '!':
		switch l.ch {
		case '=':
			tok = notEqual
			l.next()
		case '~':
			tok = notLike
			l.next()
		default:
			tok = illegal
		}
	case '<':
		switch l.ch {
		case '=':
			tok = lte
			l.next()
		case '>':
			tok = notEqual
			l.next()
		default:
			tok = less
		}
	case '>':
		switch l.ch {
		case '=':
			tok = gte
			l.next()
		default:
			tok = greater
		}
	case '"', '\'':
		chars := make([]byte, 0, 32)
		for l.ch != ch {
			if l.ch == 0 {
				return pos, illegal, "unclosed string"
			}
			chars = append(chars, l.ch)
			l.next()
		}
		l.next()
		tok = stringLit
		val = string(chars)
	default:
		tok = illegal
		val = "unexpected char"
	}

	return pos, tok, val
}

// next loads the next character into l.ch (or 0 at the end of input).
func (l *lexer) next() {
	l.pos = l.nextPos
	if l.offset >= len(l.src) {
		// Move offset one past the end so tokenEnd works for the last token.
		if l.ch != 0 {
			l.ch = 0
			l.offset++
			l.nextPos++
		}
		return
	}
	ch := l.src[l.offset]
	l.ch = ch
	l.nextPos++
	l.offset++
}

func isIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDot(ch byte) bool {
	return ch == '.'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// tokenStart returns the start offset of the current token.
func (l *lexer) tokenStart() int {
	return l.offset - 2
}

// tokenEnd returns the end offset of the current token.
func (l *lexer) tokenEnd() int {
	return l.offset - 1
}
