package cfgtree

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/KimNorgaard/go-cfgtree/container"
	"github.com/KimNorgaard/go-cfgtree/section"
)

type mapEntry struct {
	key   reflect.Value
	name  string
	value reflect.Value
}

// encodeMap writes a map as a section keyed by the string form of its keys,
// ordered by key.
func (es *encodeState) encodeMap(v reflect.Value, path string) (*section.Section, error) {
	t := v.Type()
	if !supportedKey(t.Key()) {
		return nil, &StructureError{Type: t, Msg: "unsupported map key type " + t.Key().String()}
	}

	entries := make([]mapEntry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := iter.Key()
		entries = append(entries, mapEntry{key: k, name: formatKey(k), value: iter.Value()})
	}
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if c := container.Compare(a.key.Interface(), b.key.Interface()); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	sec := section.New()
	for _, e := range entries {
		node, err := es.encodeValue(e.value, joinPath(path, e.name))
		if err != nil {
			return nil, err
		}
		if node != nil {
			sec.SetKey(e.name, node)
		}
	}
	return sec, nil
}

// decodeMap decodes a section into a fresh map, converting each key from
// its string form.
func (ds *decodeState) decodeMap(node any, target reflect.Value, path string) error {
	t := target.Type()
	sec, ok := node.(*section.Section)
	if !ok {
		return &TypeError{Value: describe(node), Type: t, Path: path}
	}
	if !supportedKey(t.Key()) {
		return &StructureError{Type: t, Msg: "unsupported map key type " + t.Key().String()}
	}

	m := reflect.MakeMapWithSize(t, sec.Len())
	var err error
	sec.Each(func(name string, value any) bool {
		var k reflect.Value
		k, err = parseKey(name, t.Key())
		if err != nil {
			err = &TypeError{Value: fmt.Sprintf("key %q", name), Type: t.Key(), Path: path}
			return false
		}
		ev := reflect.New(t.Elem()).Elem()
		if err = ds.decodeValue(value, ev, joinPath(path, name)); err != nil {
			return false
		}
		m.SetMapIndex(k, ev)
		return true
	})
	if err != nil {
		return err
	}
	target.Set(m)
	return nil
}

func supportedKey(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func formatKey(k reflect.Value) string {
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Bool:
		return strconv.FormatBool(k.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(k.Float(), 'g', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64)
	}
	return fmt.Sprint(k.Interface())
}

func parseKey(s string, t reflect.Type) (reflect.Value, error) {
	k := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		k.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return k, err
		}
		k.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return k, err
		}
		k.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return k, err
		}
		k.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return k, err
		}
		k.SetFloat(f)
	default:
		return k, fmt.Errorf("unsupported key kind %s", t.Kind())
	}
	return k, nil
}
