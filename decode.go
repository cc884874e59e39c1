package cfgtree

import (
	"math"
	"reflect"

	"go.uber.org/zap"

	"github.com/KimNorgaard/go-cfgtree/colorcode"
	"github.com/KimNorgaard/go-cfgtree/internal/shape"
	"github.com/KimNorgaard/go-cfgtree/section"
)

var sectionType = reflect.TypeFor[*section.Section]()

// Decoder reconstructs Go values from tree nodes. A Decoder is safe for
// concurrent use.
type Decoder struct {
	o *options
}

// NewDecoder returns a decoder configured by opts.
func NewDecoder(opts ...Option) (*Decoder, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Decoder{o: o}, nil
}

// Decode stores the value described by node in the value pointed to by
// out. If out is nil or not a pointer, Decode returns ErrNotPointer.
//
// Structs are decoded from sections into a fresh zero value: each field is
// read from its key, missing optional fields keep their zero value and a
// missing required field yields a *ValidationError. Scalars must be
// assignable to their target, or of the same kind; no numeric conversion
// across kinds is done.
func (d *Decoder) Decode(node any, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	ds := &decodeState{o: d.o}
	return ds.decodeValue(node, rv.Elem(), "")
}

// DecodeSection decodes the node stored at key in sec into out. An empty
// key decodes sec itself. A missing key leaves out set to its zero value.
func (d *Decoder) DecodeSection(sec *section.Section, key string, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	var node any = sec
	if key != "" {
		node, _ = sec.Get(key)
	}
	ds := &decodeState{o: d.o}
	return ds.decodeValue(node, rv.Elem(), key)
}

type decodeState struct {
	o     *options
	depth int
}

func (ds *decodeState) decodeValue(node any, target reflect.Value, path string) error {
	ds.depth++
	defer func() { ds.depth-- }()
	if ds.depth > ds.o.maxDepth {
		return ErrMaxDepth
	}

	t := target.Type()
	if node == nil {
		target.Set(reflect.Zero(t))
		return nil
	}

	if a, ok := ds.o.adapters.Lookup(t); ok {
		v, err := a.Decode(node)
		if err != nil {
			return &AdapterError{Type: t, Path: path, Err: err}
		}
		if !v.IsValid() || !v.Type().AssignableTo(t) {
			return &StructureError{Type: t, Msg: "registered adapter returned " + describeValue(v)}
		}
		target.Set(v)
		return nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		p := reflect.New(t.Elem())
		if err := ds.decodeValue(node, p.Elem(), path); err != nil {
			return err
		}
		target.Set(p)
		return nil
	case reflect.Interface:
		if _, ok := canonical[t]; ok {
			return ds.decodeCollection(node, target, path)
		}
		return ds.decodeScalar(node, target, path)
	}

	switch s := shape.Classify(t, ds.o.adapters.Has); s {
	case shape.Primitive:
		return ds.decodeScalar(node, target, path)
	case shape.Array:
		return ds.decodeArray(node, target, path)
	case shape.ListLike, shape.SetLike, shape.QueueLike:
		return ds.decodeCollection(node, target, path)
	case shape.Map:
		return ds.decodeMap(node, target, path)
	case shape.Plain:
		if t.Kind() != reflect.Struct {
			return &StructureError{Type: t, Msg: "unsupported kind " + t.Kind().String()}
		}
		sec, ok := node.(*section.Section)
		if !ok {
			return &TypeError{Value: describe(node), Type: t, Path: path}
		}
		return ds.decodeStruct(sec, target, path)
	default:
		return &StructureError{Type: t, Msg: "unexpected shape " + s.String()}
	}
}

// decodeScalar assigns node to target. Named types of the same kind are
// converted; anything else is a type error.
func (ds *decodeState) decodeScalar(node any, target reflect.Value, path string) error {
	t := target.Type()
	v := reflect.ValueOf(node)
	switch {
	case v.Type().AssignableTo(t):
		target.Set(v)
	case t.Kind() != reflect.Interface && v.Kind() == t.Kind() && v.Type().ConvertibleTo(t):
		target.Set(v.Convert(t))
	case ds.o.lenientNumbers && convertNumber(v, target):
	default:
		return &TypeError{Value: describe(node), Type: t, Path: path}
	}
	return nil
}

// decodeStruct fills a fresh value of target's type from sec. The self
// field, if any, receives sec itself after all other fields are read.
func (ds *decodeState) decodeStruct(sec *section.Section, target reflect.Value, path string) error {
	t := target.Type()
	d, err := describeStruct(t)
	if err != nil {
		return err
	}

	inst := reflect.New(t).Elem()
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Meta.Self {
			continue
		}
		key := f.KeyFor(ds.o.strategy)
		node, ok := sec.GetKey(key)
		if !ok {
			if f.Meta.Required {
				return &ValidationError{Field: key, Path: path}
			}
			continue
		}
		fv := inst.FieldByIndex(f.Index)
		if err := ds.decodeValue(node, fv, joinPath(path, key)); err != nil {
			return err
		}
		if f.Meta.Color != 0 {
			colorize(fv, f.Meta.Color)
		}
	}

	if f, ok := d.Self(); ok {
		inst.FieldByIndex(f.Index).Set(reflect.ValueOf(sec))
	} else if ce := ds.o.logger.Check(zap.DebugLevel, "decoded struct"); ce != nil {
		ce.Write(zap.Stringer("type", t), zap.String("path", path), zap.Int("keys", sec.Len()))
	}
	target.Set(inst)
	return nil
}

// colorize translates alternate colour codes in a decoded string or string
// slice field.
func colorize(v reflect.Value, alt rune) {
	switch {
	case v.Kind() == reflect.String:
		v.SetString(colorcode.Colorize(alt, v.String()))
	case v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String:
		for i := 0; i < v.Len(); i++ {
			e := v.Index(i)
			e.SetString(colorcode.Colorize(alt, e.String()))
		}
	}
}

// convertNumber stores an integer or float node into a numeric target of
// another kind when the value fits. It reports whether it did.
func convertNumber(v, target reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if target.OverflowInt(i) {
				return false
			}
			target.SetInt(i)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if i < 0 || target.OverflowUint(uint64(i)) {
				return false
			}
			target.SetUint(uint64(i))
		case reflect.Float32, reflect.Float64:
			target.SetFloat(float64(i))
		default:
			return false
		}
		return true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		switch target.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if u > math.MaxInt64 || target.OverflowInt(int64(u)) {
				return false
			}
			target.SetInt(int64(u))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			if target.OverflowUint(u) {
				return false
			}
			target.SetUint(u)
		case reflect.Float32, reflect.Float64:
			target.SetFloat(float64(u))
		default:
			return false
		}
		return true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch target.Kind() {
		case reflect.Float32, reflect.Float64:
			if target.OverflowFloat(f) {
				return false
			}
			target.SetFloat(f)
			return true
		}
	}
	return false
}

func describeValue(v reflect.Value) string {
	if !v.IsValid() {
		return "no value"
	}
	return v.Type().String()
}
