// Package treetext reads and writes tree nodes in a compact brace syntax:
//
//	{
//	  name: "Main lobby",
//	  max-players: 64,
//	  spawn: {world: "overworld", x: 10, y: -4},
//	  tags: ["pvp", "survival"]
//	}
//
// Sections are written as braces, sequences as brackets and strings are
// always quoted. Keys are bare when they consist of letters, digits, '_'
// and '-', and quoted otherwise. Commas and newlines both separate entries
// and '#' starts a comment running to the end of the line.
//
// The syntax is the one printed by the cfgtree command, so its output can be
// read back.
package treetext

import (
	"bytes"
	"fmt"
	"io"

	"github.com/KimNorgaard/go-cfgtree/internal/formatter"
	"github.com/KimNorgaard/go-cfgtree/internal/lexer"
	"github.com/KimNorgaard/go-cfgtree/internal/parser"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// ParseError describes one syntax error and its position.
type ParseError = parser.ParseError

// ParseErrors holds every syntax error found in a document. Its message
// reports the first.
type ParseErrors = parser.ParseErrors

// Decode parses r and returns the node it holds: a *section.Section, a
// []any sequence or a scalar. Integers are returned as int when they fit.
// Null values are dropped from sections and sequences; an empty or
// all-null document yields nil.
func Decode(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("treetext: %w", err)
	}
	p := parser.New(lexer.New(data))
	node := p.Parse()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, errs
	}
	return node, nil
}

// DecodeSection parses r, which must hold a section. An empty document
// yields an empty section.
func DecodeSection(r io.Reader) (*section.Section, error) {
	node, err := Decode(r)
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case nil:
		return section.New(), nil
	case *section.Section:
		return n, nil
	default:
		return nil, fmt.Errorf("treetext: document holds %T, not a section", node)
	}
}

// Unmarshal parses data with Decode.
func Unmarshal(data []byte) (any, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes node to w, indenting nested entries by indent spaces. An
// indent of zero writes the node on a single line.
func Encode(w io.Writer, node any, indent int) error {
	if indent < 0 {
		return fmt.Errorf("treetext: indent must not be negative")
	}
	return formatter.New(w, &indent).Format(node)
}

// Marshal returns the encoding of node with two-space indentation.
func Marshal(node any) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, node, 2); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
