// Package section implements the ordered key-value tree that cfgtree encodes
// Go values into and decodes them from.
//
// A node in the tree is one of:
//
//   - a scalar (bool, any integer or float kind, string, or an opaque value
//     produced by an adapter),
//   - a sequence ([]any) of nodes,
//   - a *Section, an ordered mapping from unique keys to nodes.
package section

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// PathSeparator separates the keys of nested sections in a path.
const PathSeparator = "."

// Section is an ordered mapping from key to node. Keys are unique and keep
// the order in which they were first set.
//
// The zero value is an empty section ready to use. A nil *Section behaves as
// an empty section for all read operations.
type Section struct {
	keys   []string
	values map[string]any
}

// New returns an empty section.
func New() *Section {
	return &Section{values: make(map[string]any)}
}

// Len returns the number of keys directly contained in s.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns the keys of s in insertion order.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, len(s.keys))
	copy(keys, s.keys)
	return keys
}

// Values returns the values of s in key order.
func (s *Section) Values() []any {
	if s == nil {
		return nil
	}
	values := make([]any, 0, len(s.keys))
	for _, k := range s.keys {
		values = append(values, s.values[k])
	}
	return values
}

// Each calls fn for every key in insertion order until fn returns false.
func (s *Section) Each(fn func(key string, value any) bool) {
	if s == nil {
		return
	}
	for _, k := range s.keys {
		if !fn(k, s.values[k]) {
			return
		}
	}
}

// GetKey returns the value stored directly under key. The key is not
// interpreted as a path.
func (s *Section) GetKey(key string) (any, bool) {
	if s == nil || s.values == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// SetKey stores value directly under key. The key is not interpreted as a
// path. Replacing an existing key keeps its position. A nil value removes
// the key.
func (s *Section) SetKey(key string, value any) {
	if value == nil {
		s.DeleteKey(key)
		return
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// DeleteKey removes key and reports whether it was present.
func (s *Section) DeleteKey(key string) bool {
	if s == nil || s.values == nil {
		return false
	}
	if _, ok := s.values[key]; !ok {
		return false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}

// Get resolves a dotted path through nested sections and returns the value
// found there.
func (s *Section) Get(path string) (any, bool) {
	parent, last := s.resolve(path, false)
	if parent == nil {
		return nil, false
	}
	return parent.GetKey(last)
}

// Set stores value at the dotted path, creating intermediate sections as
// needed. An intermediate key that holds a non-section value is replaced by
// a new section. A nil value removes the path.
func (s *Section) Set(path string, value any) {
	if value == nil {
		s.Delete(path)
		return
	}
	parent, last := s.resolve(path, true)
	parent.SetKey(last, value)
}

// Delete removes the value at the dotted path and reports whether it was
// present.
func (s *Section) Delete(path string) bool {
	parent, last := s.resolve(path, false)
	if parent == nil {
		return false
	}
	return parent.DeleteKey(last)
}

// Contains reports whether a value exists at the dotted path.
func (s *Section) Contains(path string) bool {
	_, ok := s.Get(path)
	return ok
}

// IsSection reports whether the value at the dotted path is a section.
func (s *Section) IsSection(path string) bool {
	return s.Section(path) != nil
}

// Section returns the section at the dotted path, or nil when the path is
// absent or holds another kind of value.
func (s *Section) Section(path string) *Section {
	v, ok := s.Get(path)
	if !ok {
		return nil
	}
	sec, _ := v.(*Section)
	return sec
}

// resolve walks all but the last element of path and returns the section
// holding the last element together with that element.
func (s *Section) resolve(path string, create bool) (*Section, string) {
	parts := strings.Split(path, PathSeparator)
	cur := s
	for _, p := range parts[:len(parts)-1] {
		v, ok := cur.GetKey(p)
		next, isSec := v.(*Section)
		if !ok || !isSec {
			if !create {
				return nil, ""
			}
			next = New()
			cur.SetKey(p, next)
		}
		cur = next
	}
	if cur == nil {
		return nil, ""
	}
	return cur, parts[len(parts)-1]
}

// Clone returns a deep copy of s. Nested sections and sequences are copied;
// scalar values are shared.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	c := &Section{
		keys:   make([]string, len(s.keys)),
		values: make(map[string]any, len(s.values)),
	}
	copy(c.keys, s.keys)
	for k, v := range s.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch n := v.(type) {
	case *Section:
		return n.Clone()
	case []any:
		seq := make([]any, len(n))
		for i, e := range n {
			seq[i] = cloneValue(e)
		}
		return seq
	default:
		return v
	}
}

// String returns a compact, single-line representation of s.
func (s *Section) String() string {
	var out bytes.Buffer
	writeNode(&out, s)
	return out.String()
}

func writeNode(out *bytes.Buffer, v any) {
	switch n := v.(type) {
	case *Section:
		out.WriteString("{")
		i := 0
		n.Each(func(k string, e any) bool {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(k)
			out.WriteString(": ")
			writeNode(out, e)
			i++
			return true
		})
		out.WriteString("}")
	case []any:
		out.WriteString("[")
		for i, e := range n {
			if i > 0 {
				out.WriteString(", ")
			}
			writeNode(out, e)
		}
		out.WriteString("]")
	case string:
		out.WriteString(strconv.Quote(n))
	case nil:
		out.WriteString("null")
	default:
		fmt.Fprint(out, n)
	}
}
