package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token types. Punctuation tokens use the character itself as their type.
const (
	KEYWORD  = "KEYWORD"
	IDENT    = "IDENT"
	STRING   = "STRING"
	NUMBER   = "NUMBER"
	OPERATOR = "OPERATOR"
	EOF      = "EOF"
)

type Token struct {
	Type string `json:"type"`
	Lit  string `json:"value"`
	Pos  int    `json:"pos"`
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Lit)
}

var keywords = map[string]bool{
	"yeezy":    true,
	"bleached": true,
	"aldi":     true,
	"spit":     true,
	"repeat":   true,
	"times":    true,
	"be":       true,
	"to":       true,
	"drip":     true,
	"nah":      true,
	"flex":     true,
	"bounce":   true,
	"true":     true,
	"false":    true,
}

// IsKeyword reports whether word is reserved.
func IsKeyword(word string) bool { return keywords[word] }

// Reasons attached to lexer errors other than a plain unexpected character.
const (
	ReasonUnterminatedString = "unterminated string"
	ReasonNumberOutOfRange   = "number out of range"
)

// Error reports a position where no token pattern matches.
type Error struct {
	Offset int
	Char   rune
	Reason string
}

func (e *Error) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "unexpected character"
	}
	return fmt.Sprintf("%s at position %d: '%c'", reason, e.Offset, e.Char)
}

// Lex converts source into a flat token stream terminated by a single EOF token.
// It stops at the first position that matches no token rule.
func Lex(src string) ([]Token, error) {
	var out []Token
	i := 0
	n := len(src)

	peek := func(off int) byte {
		j := i + off
		if j >= n || j < 0 {
			return 0
		}
		return src[j]
	}

	emit := func(typ, lit string, pos int) { out = append(out, Token{Type: typ, Lit: lit, Pos: pos}) }

	fail := func(pos int, reason string) error {
		r, _ := utf8.DecodeRuneInString(src[pos:])
		return &Error{Offset: pos, Char: r, Reason: reason}
	}

	for i < n {
		ch := src[i]

		if r, size := utf8.DecodeRuneInString(src[i:]); unicode.IsSpace(r) {
			i += size
			continue
		}

		// Line comment: # ... to end of line
		if ch == '#' {
			for i < n && src[i] != '\n' {
				i++
			}
			continue
		}

		if isIdentStart(ch) {
			start := i
			i++
			for i < n && isIdentPart(src[i]) {
				i++
			}
			word := src[start:i]
			if keywords[word] {
				emit(KEYWORD, word, start)
			} else {
				emit(IDENT, word, start)
			}
			continue
		}

		if ch == '"' {
			start := i
			lit, end, ok := readString(src, i)
			if !ok {
				return nil, fail(start, ReasonUnterminatedString)
			}
			emit(STRING, lit, start)
			i = end
			continue
		}

		if isDigit(ch) {
			start := i
			for i < n && isDigit(src[i]) {
				i++
			}
			if _, err := strconv.ParseInt(src[start:i], 10, 64); err != nil {
				return nil, fail(start, ReasonNumberOutOfRange)
			}
			emit(NUMBER, src[start:i], start)
			continue
		}

		// Two-char comparison operators before their one-char prefixes
		two := func(a, b byte) bool {
			if ch == a && peek(1) == b {
				emit(OPERATOR, src[i:i+2], i)
				i += 2
				return true
			}
			return false
		}
		if two('>', '=') || two('<', '=') || two('=', '=') || two('!', '=') {
			continue
		}

		switch ch {
		case '+', '-', '*', '/', '^', '>', '<':
			emit(OPERATOR, string(ch), i)
			i++
			continue
		case '{', '}', '(', ')', ',', ';':
			emit(string(ch), string(ch), i)
			i++
			continue
		}

		return nil, fail(i, "")
	}

	emit(EOF, "", n)
	return out, nil
}

// readString scans a double-quoted literal starting at src[start] and returns
// its unescaped content and the offset just past the closing quote.
func readString(src string, start int) (string, int, bool) {
	var b strings.Builder
	for i := start + 1; i < len(src); i++ {
		c := src[i]
		switch c {
		case '"':
			return b.String(), i + 1, true
		case '\\':
			if i+1 >= len(src) {
				return "", 0, false
			}
			i++
			switch src[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				// \" and \\ fall through here too: the escaped byte is kept as is
				b.WriteByte(src[i])
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || isDigit(b)
}
