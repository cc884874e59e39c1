package cfgtree

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/KimNorgaard/go-cfgtree/section"
)

func (es *encodeState) encodeArray(v reflect.Value, path string) (any, error) {
	elems := make([]reflect.Value, v.Len())
	for i := range elems {
		elems[i] = v.Index(i)
	}
	return es.encodeElements(v.Type().Elem(), elems, path)
}

// decodeArray fills a fresh array of target's type. A sequence must hold
// exactly as many elements as the array; a section may leave trailing
// elements out, which stay zero.
func (ds *decodeState) decodeArray(node any, target reflect.Value, path string) error {
	t := target.Type()
	values, err := elements(node, t, path)
	if err != nil {
		return err
	}
	_, isSection := node.(*section.Section)
	if len(values) > t.Len() || !isSection && len(values) != t.Len() {
		return &TypeError{Value: fmt.Sprintf("%s of %d elements", describe(node), len(values)), Type: t, Path: path}
	}

	out := reflect.New(t).Elem()
	for i, n := range values {
		if err := ds.decodeValue(n, out.Index(i), joinPath(path, strconv.Itoa(i+1))); err != nil {
			return err
		}
	}
	target.Set(out)
	return nil
}
