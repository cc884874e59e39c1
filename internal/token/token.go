// Package token defines the lexical tokens of tree text.
package token

import "fmt"

// Type is the type of a token.
type Type string

// Token is a lexical token and where it starts. For ILLEGAL tokens the
// literal is an error message.
type Token struct {
	Type    Type
	Literal string
	Line    int
	Column  int
}

// Pos returns the position of t as "line:column".
func (t Token) Pos() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"

	KEY    Type = "KEY"    // max-players:, "a.b":
	IDENT  Type = "IDENT"  // a bare word in value position
	INT    Type = "INT"    // -12
	FLOAT  Type = "FLOAT"  // 0.75, 1e+21
	STRING Type = "STRING" // "hello\tworld"

	TRUE  Type = "TRUE"
	FALSE Type = "FALSE"
	NULL  Type = "NULL"

	LBRACE  Type = "{"
	RBRACE  Type = "}"
	LBRACK  Type = "["
	RBRACK  Type = "]"
	COMMA   Type = ","
	COLON   Type = ":"
	NEWLINE Type = "NEWLINE"
)

var keywords = map[string]Type{
	"true":  TRUE,
	"false": FALSE,
	"null":  NULL,
}

// Keyword returns the token type of a keyword.
func Keyword(word string) (Type, bool) {
	t, ok := keywords[word]
	return t, ok
}
