package cfgtree

import "github.com/KimNorgaard/go-cfgtree/section"

// Marshal returns the section encoding of v, which must be a struct, a
// map or a pointer to one.
func Marshal(v any, opts ...Option) (*section.Section, error) {
	e, err := NewEncoder(opts...)
	if err != nil {
		return nil, err
	}
	return e.EncodeSection(v)
}

// Unmarshal decodes sec into the value pointed to by v.
func Unmarshal(sec *section.Section, v any, opts ...Option) error {
	d, err := NewDecoder(opts...)
	if err != nil {
		return err
	}
	return d.Decode(sec, v)
}
