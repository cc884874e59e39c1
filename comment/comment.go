// Package comment collects the comment lines declared on configuration
// types so a storage backend can write them above the matching keys.
package comment

import (
	"reflect"
	"strings"

	"github.com/KimNorgaard/go-cfgtree/adapter"
	"github.com/KimNorgaard/go-cfgtree/internal/mapper"
	"github.com/KimNorgaard/go-cfgtree/naming"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// Headerer is implemented by types that declare a header comment for the
// file they are stored in.
type Headerer interface {
	ConfigHeader() []string
}

type options struct {
	adapters *adapter.Registry
}

// Option configures Extract.
type Option func(*options)

// WithAdapters sets the registry used to tell opaque field types, which
// are not descended into, from nested sections.
func WithAdapters(r *adapter.Registry) Option {
	return func(o *options) { o.adapters = r }
}

// Extract returns the comment lines of every commented field reachable from
// the type of v, keyed by the field's dotted key path under rename.
func Extract(v any, rename naming.Strategy, opts ...Option) map[string][]string {
	o := options{adapters: adapter.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	comments := make(map[string][]string)
	t := reflect.TypeOf(v)
	if t == nil {
		return comments
	}
	extract(comments, t, "", rename, o.adapters, 0)
	return comments
}

const maxDepth = 64

func extract(out map[string][]string, t reflect.Type, prefix string, rename naming.Strategy, r *adapter.Registry, depth int) {
	for t.Kind() == reflect.Pointer && !r.Has(t) {
		t = t.Elem()
	}
	if depth > maxDepth || r.IsOpaque(t) || t.Kind() != reflect.Struct {
		return
	}
	d, err := mapper.Describe(t)
	if err != nil {
		return
	}
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Meta.Self {
			continue
		}
		key := prefix + f.KeyFor(rename)
		if len(f.Meta.Comment) > 0 {
			out[key] = f.Meta.Comment
		}
		extract(out, f.Type, key+section.PathSeparator, rename, r, depth+1)
	}
}

// Header returns the header lines declared by v, or nil.
func Header(v any) []string {
	if h, ok := v.(Headerer); ok {
		return h.ConfigHeader()
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		if h, ok := rv.Elem().Interface().(Headerer); ok {
			return h.ConfigHeader()
		}
		return nil
	}
	p := reflect.New(rv.Type())
	p.Elem().Set(rv)
	if h, ok := p.Interface().(Headerer); ok {
		return h.ConfigHeader()
	}
	return nil
}

// Encode writes lines to w as "# " prefixed comment lines.
func Encode(lines []string, w *strings.Builder) {
	for _, l := range lines {
		if l == "" {
			w.WriteString("#\n")
			continue
		}
		w.WriteString("# ")
		w.WriteString(l)
		w.WriteString("\n")
	}
}
