// Package parser builds tree nodes from tree text.
package parser

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/KimNorgaard/go-cfgtree/internal/lexer"
	"github.com/KimNorgaard/go-cfgtree/internal/token"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// ParseError represents a single error that occurred during parsing.
// It includes the position of the error.
type ParseError struct {
	Message string
	Line    int
	Column  int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ParseErrors is a slice of ParseError that implements the error interface.
// This allows returning all syntax errors found during parsing at once.
type ParseErrors []ParseError

func (p ParseErrors) Error() string {
	if len(p) == 0 {
		return ""
	}
	if len(p) == 1 {
		return "treetext: parsing error at " + p[0].Error()
	}
	return fmt.Sprintf("treetext: parsing error at %s (and %d more)", p[0].Error(), len(p)-1)
}

type prefixParseFn func() (any, bool)

// Parser holds the state of the parser.
type Parser struct {
	l      *lexer.Lexer
	errors ParseErrors

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
}

// New creates a new parser.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseInteger)
	p.registerPrefix(token.FLOAT, p.parseFloat)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.LBRACK, p.parseSequence)
	p.registerPrefix(token.LBRACE, p.parseSection)
	p.registerPrefix(token.ILLEGAL, p.parseIllegal)

	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()

	return p
}

// Errors returns the errors encountered during parsing.
func (p *Parser) Errors() ParseErrors {
	return p.errors
}

// Parse parses a document holding a single value and returns its node.
// An empty document yields nil. Null values inside sections and sequences
// are dropped.
func (p *Parser) Parse() any {
	p.skip(token.NEWLINE)
	if p.curTokenIs(token.EOF) {
		return nil
	}

	node, _ := p.parseExpression()

	p.skip(token.NEWLINE)
	if !p.curTokenIs(token.EOF) {
		p.errorf("unexpected token after main value: %s ('%s')", p.curToken.Type, p.curToken.Literal)
	}
	return node
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, ParseError{
		Message: fmt.Sprintf(format, args...),
		Line:    p.curToken.Line,
		Column:  p.curToken.Column,
	})
}

// The contract for all parse functions is that they are entered with p.curToken
// being the first token of the construct, and they must return with p.curToken
// pointing to the token *after* the construct. The boolean result is false
// when an error was reported.

func (p *Parser) parseExpression() (any, bool) {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf("unexpected %s ('%s')", p.curToken.Type, p.curToken.Literal)
		p.nextToken()
		return nil, false
	}
	return prefix()
}

// parseIdentifier reports a bare word in value position; strings are
// always quoted.
func (p *Parser) parseIdentifier() (any, bool) {
	p.errorf("unquoted string: %s", p.curToken.Literal)
	p.nextToken()
	return nil, false
}

func (p *Parser) parseInteger() (any, bool) {
	lit := p.curToken.Literal
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		p.nextToken()
		if i >= math.MinInt && i <= math.MaxInt {
			return int(i), true
		}
		return i, true
	}
	u, err := strconv.ParseUint(lit, 10, 64)
	if err != nil {
		p.errorf("could not parse %q as integer: %s", lit, err)
		p.nextToken()
		return nil, false
	}
	p.nextToken()
	return u, true
}

func (p *Parser) parseFloat() (any, bool) {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.errorf("could not parse %q as float: %s", p.curToken.Literal, err)
		p.nextToken()
		return nil, false
	}
	p.nextToken()
	return value, true
}

func (p *Parser) parseString() (any, bool) {
	s := p.curToken.Literal
	p.nextToken()
	return s, true
}

func (p *Parser) parseBoolean() (any, bool) {
	b := p.curTokenIs(token.TRUE)
	p.nextToken()
	return b, true
}

func (p *Parser) parseNull() (any, bool) {
	p.nextToken()
	return nil, true
}

func (p *Parser) parseIllegal() (any, bool) {
	p.errorf("%s", p.curToken.Literal)
	p.nextToken()
	return nil, false
}

func (p *Parser) parseSequence() (any, bool) {
	seq := []any{}
	ok := true
	p.nextToken() // Consume '['

	p.skip(token.NEWLINE)
	for !p.curTokenIs(token.RBRACK) && !p.curTokenIs(token.EOF) {
		elem, elemOK := p.parseExpression()
		if !elemOK {
			ok = false
		} else if elem != nil {
			seq = append(seq, elem)
		}
		p.skip(token.NEWLINE, token.COMMA)
	}

	if !p.curTokenIs(token.RBRACK) {
		p.errorf("unterminated sequence, expected ']' got %s", p.curToken.Type)
		return nil, false
	}
	p.nextToken() // Consume ']'
	return seq, ok
}

func (p *Parser) parseSection() (any, bool) {
	sec := section.New()
	seen := make(map[string]bool)
	ok := true
	p.nextToken() // Consume '{'

	p.skip(token.NEWLINE)
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		keyTok := p.curToken
		key, value, pairOK := p.parseKeyValuePair()
		if pairOK {
			if seen[key] {
				p.errors = append(p.errors, ParseError{
					Message: fmt.Sprintf("duplicate key in section: %s", key),
					Line:    keyTok.Line,
					Column:  keyTok.Column,
				})
				ok = false
			}
			seen[key] = true
			sec.SetKey(key, value)
		} else {
			ok = false
			// Error already reported. Recover to the next separator or end of section.
			for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.COMMA) && !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
				p.nextToken()
			}
		}

		p.skip(token.NEWLINE, token.COMMA)
	}

	if !p.curTokenIs(token.RBRACE) {
		p.errorf("unterminated section, expected '}' got %s", p.curToken.Type)
		return nil, false
	}
	p.nextToken() // Consume '}'
	return sec, ok
}

func (p *Parser) parseKeyValuePair() (string, any, bool) {
	switch p.curToken.Type {
	case token.KEY:
	case token.ILLEGAL:
		p.errorf("%s", p.curToken.Literal)
		return "", nil, false
	case token.IDENT, token.STRING, token.INT, token.FLOAT, token.TRUE, token.FALSE, token.NULL:
		p.errorf("expected ':' after key %s", p.curToken.Literal)
		return "", nil, false
	default:
		p.errorf("invalid token for section key: %s ('%s')", p.curToken.Type, p.curToken.Literal)
		return "", nil, false
	}
	key := p.curToken.Literal
	p.nextToken()
	p.nextToken() // Consume ':'
	p.skip(token.NEWLINE)

	value, ok := p.parseExpression()
	return key, value, ok
}

func (p *Parser) skip(types ...token.Type) {
	for slices.Contains(types, p.curToken.Type) {
		p.nextToken()
	}
}

func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}
