package cfgtree

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/KimNorgaard/go-cfgtree/colorcode"
	"github.com/KimNorgaard/go-cfgtree/internal/mapper"
	"github.com/KimNorgaard/go-cfgtree/internal/shape"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// Encoder turns Go values into tree nodes. An Encoder is safe for
// concurrent use.
type Encoder struct {
	o *options
}

// NewEncoder returns an encoder configured by opts.
func NewEncoder(opts ...Option) (*Encoder, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Encoder{o: o}, nil
}

// Encode returns the tree node for v: a scalar, a []any sequence or a
// *section.Section. A nil v, or a nil pointer, encodes to nil.
func (e *Encoder) Encode(v any) (any, error) {
	es := &encodeState{o: e.o}
	return es.encodeValue(reflect.ValueOf(v), "")
}

// EncodeSection encodes v, which must encode to a section, such as a
// struct or a map.
func (e *Encoder) EncodeSection(v any) (*section.Section, error) {
	node, err := e.Encode(v)
	if err != nil {
		return nil, err
	}
	sec, ok := node.(*section.Section)
	if !ok {
		return nil, &StructureError{Type: reflect.TypeOf(v), Msg: fmt.Sprintf("encodes to %s, not a section", describe(node))}
	}
	return sec, nil
}

type encodeState struct {
	o     *options
	depth int
}

func (es *encodeState) encodeValue(v reflect.Value, path string) (any, error) {
	es.depth++
	defer func() { es.depth-- }()
	if es.depth > es.o.maxDepth {
		return nil, ErrMaxDepth
	}

	if !v.IsValid() {
		return nil, nil
	}

	// Adapters are looked up at every pointer level before dereferencing.
	for {
		if a, ok := es.o.adapters.Lookup(v.Type()); ok {
			if isNil(v) {
				return nil, nil
			}
			node, err := a.Encode(v)
			if err != nil {
				return nil, &AdapterError{Type: v.Type(), Path: path, Err: err}
			}
			return node, nil
		}
		if v.Kind() != reflect.Pointer && v.Kind() != reflect.Interface {
			break
		}
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}

	switch s := shape.Classify(v.Type(), es.o.adapters.Has); s {
	case shape.Primitive:
		return v.Interface(), nil
	case shape.Array:
		return es.encodeArray(v, path)
	case shape.ListLike, shape.SetLike, shape.QueueLike:
		return es.encodeCollection(v, s, path)
	case shape.Map:
		return es.encodeMap(v, path)
	case shape.Plain:
		if v.Kind() != reflect.Struct {
			return nil, &StructureError{Type: v.Type(), Msg: "unsupported kind " + v.Kind().String()}
		}
		return es.encodeStruct(v, path)
	default:
		return nil, &StructureError{Type: v.Type(), Msg: "unexpected shape " + s.String()}
	}
}

// encodeStruct writes the fields of v into a fresh section in declaration
// order and merges the self field's section in last. Keys already written
// by a field are kept.
func (es *encodeState) encodeStruct(v reflect.Value, path string) (*section.Section, error) {
	d, err := describeStruct(v.Type())
	if err != nil {
		return nil, err
	}

	sec := section.New()
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Meta.Self {
			continue
		}
		fv := v.FieldByIndex(f.Index)
		if isNil(fv) {
			continue
		}
		key := f.KeyFor(es.o.strategy)
		node, err := es.encodeValue(fv, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		if f.Meta.Color != 0 {
			node = translateNode(node, func(s string) string { return colorcode.Decolorize(f.Meta.Color, s) })
		}
		sec.SetKey(key, node)
	}

	if f, ok := d.Self(); ok {
		self, _ := v.FieldByIndex(f.Index).Interface().(*section.Section)
		self.Clone().Each(func(key string, value any) bool {
			if _, exists := sec.GetKey(key); exists {
				es.o.logger.Debug("self-merge key shadowed by field",
					zap.String("key", key), zap.String("path", path), zap.Stringer("type", v.Type()))
				return true
			}
			sec.SetKey(key, value)
			return true
		})
	}
	return sec, nil
}

// describeStruct returns the descriptor of t, reporting malformed
// declarations as structure errors.
func describeStruct(t reflect.Type) (*mapper.Descriptor, error) {
	d, err := mapper.Describe(t)
	if err != nil {
		return nil, &StructureError{Type: t, Msg: "invalid field declaration", Err: err}
	}
	if f, ok := d.Self(); ok && f.Type != sectionType {
		return nil, &StructureError{Type: t, Msg: fmt.Sprintf("self field %s is %s, not %s", f.Name, f.Type, sectionType)}
	}
	return d, nil
}

// translateNode applies fn to a string node or to the strings of a
// sequence node.
func translateNode(node any, fn func(string) string) any {
	switch n := node.(type) {
	case string:
		return fn(n)
	case []any:
		for i, e := range n {
			if s, ok := e.(string); ok {
				n[i] = fn(s)
			}
		}
	}
	return node
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + section.PathSeparator + key
}

// describe names the kind of a node for error messages.
func describe(node any) string {
	switch node.(type) {
	case nil:
		return "null"
	case *section.Section:
		return "section"
	case []any:
		return "sequence"
	}
	return reflect.TypeOf(node).String()
}
