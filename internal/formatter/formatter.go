// Package formatter renders section trees for display.
package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/KimNorgaard/go-cfgtree/colorcode"
	"github.com/KimNorgaard/go-cfgtree/internal/lexer"
	"github.com/KimNorgaard/go-cfgtree/section"
)

const (
	defaultIndent = 2
)

// Formatter writes a tree node to an output stream.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int

	colored bool
	key     *color.Color
	str     *color.Color
	num     *color.Color
	lit     *color.Color
}

// New returns a new formatter that writes to w. A nil indentSpaces selects
// the default indentation; zero writes everything on one line.
func New(w io.Writer, indentSpaces *int) *Formatter {
	spaces := defaultIndent
	if indentSpaces != nil {
		spaces = *indentSpaces
	}
	var indentStr string
	if spaces > 0 {
		indentStr = strings.Repeat(" ", spaces)
	}
	f := &Formatter{
		w:      w,
		indent: indentStr,
		key:    color.New(color.FgCyan),
		str:    color.New(color.FgGreen),
		num:    color.New(color.FgYellow),
		lit:    color.New(color.FgMagenta),
	}
	f.SetColor(false)
	return f
}

// SetColor switches ANSI colouring on or off. When on, section-sign colour
// codes inside strings are rendered as well.
func (f *Formatter) SetColor(on bool) {
	f.colored = on
	for _, c := range []*color.Color{f.key, f.str, f.num, f.lit} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Format writes node, which is a *section.Section, a []any sequence or a
// scalar, to the writer.
func (f *Formatter) Format(node any) error {
	return f.writeNode(node)
}

func (f *Formatter) write(s string) error {
	_, err := io.WriteString(f.w, s)
	return err
}

func (f *Formatter) writeIndent() error {
	if f.indent == "" {
		return nil
	}
	return f.write(strings.Repeat(f.indent, f.depth))
}

func (f *Formatter) writeNode(node any) error {
	switch n := node.(type) {
	case *section.Section:
		keys := n.Keys()
		return f.writeBlock("{", "}", len(keys), func(i int) error {
			v, _ := n.GetKey(keys[i])
			if err := f.write(f.key.Sprint(formatKey(keys[i])) + ": "); err != nil {
				return err
			}
			return f.writeNode(v)
		})

	case []any:
		return f.writeBlock("[", "]", len(n), func(i int) error {
			return f.writeNode(n[i])
		})

	case string:
		return f.write(f.formatString(n))

	case nil:
		return f.write(f.lit.Sprint("null"))

	case bool:
		return f.write(f.lit.Sprint(strconv.FormatBool(n)))

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return f.write(f.num.Sprint(n))

	case float32, float64:
		return f.write(f.num.Sprint(formatFloat(n)))

	case fmt.Stringer:
		return f.write(f.formatString(n.String()))

	default:
		return fmt.Errorf("formatter: unsupported node type %T", n)
	}
}

// writeBlock writes n entries between open and close, one per line when
// indenting and comma separated on a single line otherwise.
func (f *Formatter) writeBlock(open, close string, n int, entry func(i int) error) error {
	if err := f.write(open); err != nil {
		return err
	}
	if n == 0 {
		return f.write(close)
	}
	if f.indent == "" {
		for i := range n {
			if i > 0 {
				if err := f.write(", "); err != nil {
					return err
				}
			}
			if err := entry(i); err != nil {
				return err
			}
		}
		return f.write(close)
	}

	f.depth++
	for i := range n {
		if err := f.write("\n"); err != nil {
			return err
		}
		if err := f.writeIndent(); err != nil {
			return err
		}
		if err := entry(i); err != nil {
			return err
		}
		if i < n-1 {
			if err := f.write(","); err != nil {
				return err
			}
		}
	}
	f.depth--
	if err := f.write("\n"); err != nil {
		return err
	}
	if err := f.writeIndent(); err != nil {
		return err
	}
	return f.write(close)
}

func (f *Formatter) formatString(s string) string {
	if f.colored && strings.ContainsRune(s, colorcode.SectionSign) {
		q := strconv.Quote(s)
		return `"` + colorcode.ToANSI(q[1:len(q)-1]) + `"`
	}
	return f.str.Sprint(strconv.Quote(s))
}

// formatFloat keeps a fraction on whole floats so they read back as
// floats.
func formatFloat(n any) string {
	s := fmt.Sprint(n)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// formatKey quotes keys the lexer would not read back as bare keys.
func formatKey(k string) string {
	if !lexer.IsBareKey(k) {
		return strconv.Quote(k)
	}
	return k
}
