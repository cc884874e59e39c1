package cfgtree

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-cfgtree/container"
	"github.com/KimNorgaard/go-cfgtree/internal/shape"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// canonical maps the container marker interfaces to the concrete type
// decoded into a field declared with them.
var canonical = map[reflect.Type]reflect.Type{
	reflect.TypeFor[container.Collection](): reflect.TypeFor[container.List[any]](),
	reflect.TypeFor[container.ListLike]():   reflect.TypeFor[container.List[any]](),
	reflect.TypeFor[container.SetLike]():    reflect.TypeFor[container.Set[any]](),
	reflect.TypeFor[container.QueueLike]():  reflect.TypeFor[container.Queue[any]](),
}

// encodeCollection encodes a slice or a container. Set elements are written
// in sorted order so that output is stable.
func (es *encodeState) encodeCollection(v reflect.Value, s shape.Shape, path string) (any, error) {
	if v.Kind() == reflect.Slice {
		elems := make([]reflect.Value, v.Len())
		for i := range elems {
			elems[i] = v.Index(i)
		}
		return es.encodeElements(v.Type().Elem(), elems, path)
	}

	c, ok := collectionOf(v)
	if !ok {
		return nil, &StructureError{Type: v.Type(), Msg: "does not implement container.Collection"}
	}
	values := c.Values()
	if s == shape.SetLike {
		slices.SortFunc(values, compareSetElems)
	}
	elems := make([]reflect.Value, len(values))
	for i, e := range values {
		elems[i] = reflect.ValueOf(e)
	}
	return es.encodeElements(c.ElemType(), elems, path)
}

// compareSetElems orders set elements by value, falling back to their
// printed form for kinds container.Compare leaves unordered.
func compareSetElems(a, b any) int {
	if c := container.Compare(a, b); c != 0 {
		return c
	}
	return strings.Compare(fmt.Sprintf("%+v", a), fmt.Sprintf("%+v", b))
}

// encodeElements writes elems as a sequence when values of elemType are
// opaque. Otherwise each element becomes a section stored under its 1-based
// index, since sequences of sections do not round-trip. Nil elements get no
// key; decoding restores them from the gap.
func (es *encodeState) encodeElements(elemType reflect.Type, elems []reflect.Value, path string) (any, error) {
	if es.o.adapters.IsOpaque(elemType) {
		seq := make([]any, 0, len(elems))
		for i, e := range elems {
			node, err := es.encodeValue(e, joinPath(path, strconv.Itoa(i+1)))
			if err != nil {
				return nil, err
			}
			seq = append(seq, node)
		}
		return seq, nil
	}

	sec := section.New()
	for i, e := range elems {
		key := strconv.Itoa(i + 1)
		node, err := es.encodeValue(e, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		if node != nil {
			sec.SetKey(key, node)
		}
	}
	return sec, nil
}

func collectionOf(v reflect.Value) (container.Collection, bool) {
	if c, ok := v.Interface().(container.Collection); ok {
		return c, true
	}
	p := reflect.New(v.Type())
	p.Elem().Set(v)
	c, ok := p.Interface().(container.Collection)
	return c, ok
}

// decodeCollection decodes a section or sequence into a slice or container.
// Containers are built through container.Builder; fields declared with a
// marker interface receive the canonical container for it.
func (ds *decodeState) decodeCollection(node any, target reflect.Value, path string) error {
	t := target.Type()
	values, err := elements(node, t, path)
	if err != nil {
		return err
	}

	if t.Kind() == reflect.Slice {
		out := reflect.MakeSlice(t, len(values), len(values))
		for i, n := range values {
			if err := ds.decodeValue(n, out.Index(i), joinPath(path, strconv.Itoa(i+1))); err != nil {
				return err
			}
		}
		target.Set(out)
		return nil
	}

	impl := t
	if t.Kind() == reflect.Interface {
		c, ok := canonical[t]
		if !ok {
			return &StructureError{Type: t, Msg: "no canonical container for interface"}
		}
		impl = c
	}
	ptr := reflect.New(impl)
	b, ok := ptr.Interface().(container.Builder)
	if !ok {
		return &StructureError{Type: t, Msg: "collection cannot be instantiated with a size hint"}
	}
	b.Init(len(values))
	elemType := b.ElemType()
	for i, n := range values {
		elemPath := joinPath(path, strconv.Itoa(i+1))
		ev := reflect.New(elemType).Elem()
		if err := ds.decodeValue(n, ev, elemPath); err != nil {
			return err
		}
		if err := b.Put(ev.Interface()); err != nil {
			return &StructureError{Type: t, Msg: "cannot add element at " + elemPath, Err: err}
		}
	}

	if t.Kind() == reflect.Interface {
		target.Set(ptr)
	} else {
		target.Set(ptr.Elem())
	}
	return nil
}

// maxHoles bounds the number of missing indices an index-keyed section may
// leave. Sections with more are read in key order instead.
const maxHoles = 4096

// elements returns the ordered values of a section or sequence node. A
// section keyed by 1-based indices puts each value at its index, leaving
// nil where an element was absent when it was written.
func elements(node any, t reflect.Type, path string) ([]any, error) {
	switch n := node.(type) {
	case *section.Section:
		if values, ok := byIndex(n); ok {
			return values, nil
		}
		return n.Values(), nil
	case []any:
		return n, nil
	}
	return nil, &TypeError{Value: describe(node), Type: t, Path: path}
}

func byIndex(sec *section.Section) ([]any, bool) {
	last, ok := 0, true
	sec.Each(func(key string, _ any) bool {
		i, err := strconv.Atoi(key)
		if err != nil || i < 1 || i > sec.Len()+maxHoles || strconv.Itoa(i) != key {
			ok = false
			return false
		}
		last = max(last, i)
		return true
	})
	if !ok {
		return nil, false
	}
	values := make([]any, last)
	sec.Each(func(key string, v any) bool {
		i, _ := strconv.Atoi(key)
		values[i-1] = v
		return true
	})
	return values, true
}
