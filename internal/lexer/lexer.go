// Package lexer splits tree text into tokens.
//
// Strings are Go double-quoted literals, so anything strconv.Quote writes
// reads back unchanged. A word directly followed by ':' is a key; any other
// word is a number, a keyword or a bare identifier.
package lexer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/KimNorgaard/go-cfgtree/internal/token"
)

// Lexer holds the state for tokenizing tree text.
type Lexer struct {
	src    string
	pos    int
	line   int
	column int
}

// New creates a Lexer reading src.
func New(src []byte) *Lexer {
	return &Lexer{src: string(src), line: 1, column: 1}
}

// NextToken scans the input and returns the next token. Comments are
// skipped. Malformed input yields an ILLEGAL token whose literal describes
// the problem.
func (l *Lexer) NextToken() token.Token {
	l.skipBlank()
	tok := token.Token{Line: l.line, Column: l.column}
	if l.pos >= len(l.src) {
		tok.Type = token.EOF
		return tok
	}

	switch c := l.src[l.pos]; c {
	case '{', '}', '[', ']', ',', ':':
		tok.Type = token.Type(c)
		tok.Literal = string(c)
		l.advance(1)
	case '\n':
		tok.Type = token.NEWLINE
		tok.Literal = "\n"
		l.advance(1)
	case '"':
		s, err := l.readString()
		switch {
		case err != nil:
			tok.Type, tok.Literal = token.ILLEGAL, err.Error()
		case l.colonFollows():
			tok.Type, tok.Literal = token.KEY, s
		default:
			tok.Type, tok.Literal = token.STRING, s
		}
	default:
		tok.Type, tok.Literal = l.classifyWord(l.readWord())
	}
	return tok
}

// IsBareKey reports whether k can be written as a key without quotes: it is
// not empty and holds only ASCII letters, digits, '_' and '-'.
func IsBareKey(k string) bool {
	if k == "" {
		return false
	}
	for i := 0; i < len(k); i++ {
		if !isBareByte(k[i]) {
			return false
		}
	}
	return true
}

func isBareByte(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || c == '_' || c == '-'
}

// advance moves past n bytes of the current line.
func (l *Lexer) advance(n int) {
	for range n {
		if l.src[l.pos] == '\n' {
			l.line++
			l.column = 0
		}
		// Continuation bytes do not start a new column.
		if !utf8.RuneStart(l.src[l.pos]) {
			l.column--
		}
		l.pos++
		l.column++
	}
}

// skipBlank skips spaces, tabs, carriage returns and comments. Newlines
// are tokens.
func (l *Lexer) skipBlank() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\r':
			l.advance(1)
		case '#':
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				end = len(l.src) - l.pos
			}
			l.advance(end)
		default:
			return
		}
	}
}

func (l *Lexer) colonFollows() bool {
	rest := strings.TrimLeft(l.src[l.pos:], " \t")
	return rest != "" && rest[0] == ':'
}

func isDelimiter(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':', '"', '#', ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// readWord consumes the run of bytes up to the next delimiter or blank.
func (l *Lexer) readWord() string {
	start := l.pos
	for l.pos < len(l.src) && !isDelimiter(l.src[l.pos]) {
		l.advance(1)
	}
	return l.src[start:l.pos]
}

// classifyWord returns the token type of w and its literal, which for
// ILLEGAL words is the error message.
func (l *Lexer) classifyWord(w string) (token.Type, string) {
	numeric := w[0] == '-' || '0' <= w[0] && w[0] <= '9'
	switch {
	case !utf8.ValidString(w):
		return token.ILLEGAL, "invalid utf-8 sequence"
	case l.colonFollows():
		if IsBareKey(w) {
			return token.KEY, w
		}
		return token.ILLEGAL, "key must be quoted: " + w
	case numeric:
		if typ := NumberType(w); typ != token.ILLEGAL {
			return typ, w
		}
		return token.ILLEGAL, "invalid number format: " + w
	case !IsBareKey(w):
		return token.ILLEGAL, "unexpected characters: " + w
	}
	if kw, ok := token.Keyword(w); ok {
		return kw, w
	}
	return token.IDENT, w
}

// NumberType returns INT or FLOAT when w is a decimal number literal: an
// optional '-', an integer part without leading zeros, an optional
// fraction and an optional exponent. Anything else is ILLEGAL.
func NumberType(w string) token.Type {
	mant, exp, hasExp := strings.Cut(strings.TrimPrefix(w, "-"), "e")
	if !hasExp {
		mant, exp, hasExp = strings.Cut(mant, "E")
	}
	whole, frac, hasFrac := strings.Cut(mant, ".")
	if exp != "" && (exp[0] == '+' || exp[0] == '-') {
		exp = exp[1:]
	}

	switch {
	case !isDigits(whole), len(whole) > 1 && whole[0] == '0':
		return token.ILLEGAL
	case hasFrac && !isDigits(frac), hasExp && !isDigits(exp):
		return token.ILLEGAL
	case hasFrac || hasExp:
		return token.FLOAT
	}
	return token.INT
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// readString consumes a quoted string starting at the opening quote and
// returns its unquoted value.
func (l *Lexer) readString() (string, error) {
	l.advance(1)
	var b strings.Builder
	for {
		rest := l.src[l.pos:]
		switch {
		case rest == "" || rest[0] == '\n':
			return "", errors.New("unterminated string")
		case rest[0] == '"':
			l.advance(1)
			return b.String(), nil
		case rest[0] < ' ' && rest[0] != '\t' || rest[0] == 0x7f:
			return "", fmt.Errorf("forbidden control character U+%04X in string", rest[0])
		}

		if _, size := utf8.DecodeRuneInString(rest); rest[0] >= utf8.RuneSelf && size == 1 {
			return "", errors.New("invalid utf-8 sequence in string")
		}
		r, multibyte, tail, err := strconv.UnquoteChar(rest, '"')
		if err != nil {
			return "", fmt.Errorf("invalid escape sequence %s", escapeAt(rest))
		}
		// \x and octal escapes denote single bytes, as in Go source.
		if multibyte || r < utf8.RuneSelf {
			b.WriteRune(r)
		} else {
			b.WriteByte(byte(r))
		}
		l.advance(len(rest) - len(tail))
	}
}

// escapeAt returns the backslash escape at the start of s, cut at the
// first character that cannot belong to it.
func escapeAt(s string) string {
	end := 2
	for end < len(s) && end < 10 && !isDelimiter(s[end]) && s[end] != '\\' {
		end++
	}
	return s[:min(end, len(s))]
}
