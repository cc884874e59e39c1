// Package adapter holds the bidirectional converters for types that need a
// bespoke encoding, and the registry the traversal engine looks them up in.
package adapter

import (
	"fmt"
	"reflect"
)

// Adapter converts values of one exact type to and from a tree node.
type Adapter interface {
	// Type returns the exact type the adapter is registered for.
	Type() reflect.Type
	// Encode converts v, a value of Type, into a node.
	Encode(v reflect.Value) (any, error)
	// Decode converts node into a value of Type.
	Decode(node any) (reflect.Value, error)
}

type funcAdapter[T any] struct {
	typ    reflect.Type
	encode func(T) (any, error)
	decode func(any) (T, error)
}

// Func returns an adapter for T built from typed encode and decode functions.
func Func[T any](encode func(T) (any, error), decode func(any) (T, error)) Adapter {
	return &funcAdapter[T]{
		typ:    reflect.TypeFor[T](),
		encode: encode,
		decode: decode,
	}
}

func (a *funcAdapter[T]) Type() reflect.Type { return a.typ }

func (a *funcAdapter[T]) Encode(v reflect.Value) (any, error) {
	t, ok := v.Interface().(T)
	if !ok {
		return nil, fmt.Errorf("adapter for %s cannot encode %s", a.typ, v.Type())
	}
	return a.encode(t)
}

func (a *funcAdapter[T]) Decode(node any) (reflect.Value, error) {
	t, err := a.decode(node)
	if err != nil {
		return reflect.Value{}, err
	}
	return reflect.ValueOf(&t).Elem(), nil
}

// String returns the node as a string or an error naming the expected type.
func String(node any) (string, error) {
	s, ok := node.(string)
	if !ok {
		return "", fmt.Errorf("expected a string, got %T", node)
	}
	return s, nil
}
