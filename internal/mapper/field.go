// Package mapper builds the per-type field descriptors the traversal engine
// walks. Descriptors are computed once per struct type from its cfg and
// comment tags and then cached.
package mapper

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"
)

// TagName is the struct tag carrying a field's key and options.
const TagName = "cfg"

// CommentTagName is the struct tag carrying a field's comment lines.
const CommentTagName = "comment"

// DefaultColorChar is the alternate colour-code character used when the
// color option has no value.
const DefaultColorChar = '&'

// Meta holds the behaviour modifiers declared on a field.
type Meta struct {
	// Required fields must be present when decoding.
	Required bool
	// Self fields do not occupy a key; their section is merged into the
	// enclosing one.
	Self bool
	// Color is the alternate colour-code character, or 0 when the field's
	// text is not post-processed.
	Color rune
	// Comment lines written above the field's key.
	Comment []string
}

// Field describes one persisted struct field.
type Field struct {
	// Name is the Go field name.
	Name string
	// Key is the explicit key from the tag, used verbatim when not empty.
	Key   string
	Index []int
	Type  reflect.Type
	Meta  Meta
}

// KeyFor returns the persisted key of f under the given naming function.
func (f *Field) KeyFor(rename func(string) string) string {
	if f.Key != "" {
		return f.Key
	}
	return rename(f.Name)
}

// Descriptor lists the persisted fields of a struct type in declaration
// order, with embedded structs flattened in place.
type Descriptor struct {
	Type   reflect.Type
	Fields []Field
	// SelfIndex is the position in Fields of the self field, or -1.
	SelfIndex int
}

// Self returns the self field, if any.
func (d *Descriptor) Self() (*Field, bool) {
	if d.SelfIndex < 0 {
		return nil, false
	}
	return &d.Fields[d.SelfIndex], true
}

type entry struct {
	desc *Descriptor
	err  error
}

// descriptorCache maps reflect.Type to entry.
var descriptorCache sync.Map

// Describe returns the descriptor of the struct type t.
func Describe(t reflect.Type) (*Descriptor, error) {
	if e, ok := descriptorCache.Load(t); ok {
		e := e.(entry)
		return e.desc, e.err
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct type", t)
	}

	d := &Descriptor{Type: t, SelfIndex: -1}
	var found []candidate
	err := walk(&found, t, nil)
	if err == nil {
		err = d.resolve(found)
	}
	if err != nil {
		d = nil
	}
	e, _ := descriptorCache.LoadOrStore(t, entry{desc: d, err: err})
	return e.(entry).desc, e.(entry).err
}

// candidate is a field found by walk at the given embedding depth.
type candidate struct {
	field Field
	depth int
}

// name is the identity fields collide on: the explicit key, else the Go
// field name.
func (c *candidate) name() string {
	if c.field.Key != "" {
		return c.field.Key
	}
	return c.field.Name
}

func walk(found *[]candidate, t reflect.Type, idx []int) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag, hasTag := sf.Tag.Lookup(TagName)
		if tag == "-" {
			continue
		}
		index := append(append([]int(nil), idx...), i)

		// Embedded structs without an explicit key are flattened.
		name, _, _ := strings.Cut(tag, ",")
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && name == "" {
			if err := walk(found, sf.Type, index); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}

		f := Field{Name: sf.Name, Index: index, Type: sf.Type}
		if hasTag {
			if err := parseTag(&f, tag); err != nil {
				return fmt.Errorf("field %s: %w", sf.Name, err)
			}
		}
		if c, ok := sf.Tag.Lookup(CommentTagName); ok && c != "" {
			f.Meta.Comment = strings.Split(c, "\n")
		}
		*found = append(*found, candidate{field: f, depth: len(idx)})
	}
	return nil
}

// resolve keeps, for every name, the field Go itself would promote: the
// shallowest one, or the only tagged one among equally shallow fields.
// Fields that remain ambiguous are an error. Declaration order is kept.
func (d *Descriptor) resolve(found []candidate) error {
	winners := make(map[string]int, len(found))
	for i := range found {
		name := found[i].name()
		if _, done := winners[name]; done {
			continue
		}
		w, err := dominant(found, name)
		if err != nil {
			return err
		}
		winners[name] = w
	}

	for i, c := range found {
		if winners[c.name()] != i {
			continue
		}
		if c.field.Meta.Self {
			if d.SelfIndex >= 0 {
				return fmt.Errorf("field %s: only one self field is allowed, found %s", c.field.Name, d.Fields[d.SelfIndex].Name)
			}
			d.SelfIndex = len(d.Fields)
		}
		d.Fields = append(d.Fields, c.field)
	}
	return nil
}

func dominant(found []candidate, name string) (int, error) {
	var shallow []int
	for i := range found {
		if found[i].name() != name {
			continue
		}
		switch {
		case len(shallow) == 0 || found[i].depth < found[shallow[0]].depth:
			shallow = []int{i}
		case found[i].depth == found[shallow[0]].depth:
			shallow = append(shallow, i)
		}
	}
	if len(shallow) == 1 {
		return shallow[0], nil
	}

	tagged := -1
	for _, i := range shallow {
		if found[i].field.Key == "" {
			continue
		}
		if tagged >= 0 {
			tagged = -2
			break
		}
		tagged = i
	}
	if tagged >= 0 {
		return tagged, nil
	}
	a, b := found[shallow[0]].field, found[shallow[1]].field
	return 0, fmt.Errorf("fields %s (index %v) and %s (index %v) both map to %q at the same depth", a.Name, a.Index, b.Name, b.Index, name)
}

func parseTag(f *Field, tag string) error {
	name, opts, _ := strings.Cut(tag, ",")
	f.Key = name
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		key, value, hasValue := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "required":
			f.Meta.Required = true
		case "self":
			f.Meta.Self = true
		case "color":
			f.Meta.Color = DefaultColorChar
			if hasValue {
				r, size := utf8.DecodeRuneInString(value)
				if size == 0 || size != len(value) || r == utf8.RuneError {
					return fmt.Errorf("color option must be a single character, got %q", value)
				}
				f.Meta.Color = r
			}
		case "":
		default:
			return fmt.Errorf("unknown tag option %q", key)
		}
	}
	return nil
}
