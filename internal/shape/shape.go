// Package shape classifies Go types into the closed set of shapes the
// traversal engine dispatches on.
package shape

import (
	"reflect"

	"github.com/KimNorgaard/go-cfgtree/container"
)

//go:generate go tool stringer -type=Shape -output=shape_string.go

// Shape is the category a type is encoded and decoded as.
type Shape int

const (
	Primitive Shape = iota // bool, numbers, string and interfaces; written unchanged
	Array                  // fixed-length Go array
	ListLike               // slice or container.ListLike
	SetLike                // container.SetLike
	QueueLike              // container.QueueLike
	Map                    // Go map
	Adapted                // type with a registered adapter
	Plain                  // decomposed field by field
)

// IsCollection reports whether s is one of the collection shapes.
func (s Shape) IsCollection() bool {
	return s == ListLike || s == SetLike || s == QueueLike
}

// Opaque reports whether values of shape s are written as a single scalar,
// sequence or nested value rather than decomposed into fields.
func (s Shape) Opaque() bool {
	return s != Plain
}

var (
	collectionType = reflect.TypeFor[container.Collection]()
	listLikeType   = reflect.TypeFor[container.ListLike]()
	setLikeType    = reflect.TypeFor[container.SetLike]()
	queueLikeType  = reflect.TypeFor[container.QueueLike]()
)

// Classify returns the shape of t. adapted reports whether a type has a
// registered adapter; it may be nil. An adapted type always wins, then
// precedence is Primitive, Array, collections, Map and finally Plain.
// Pointer types are classified by their element unless the pointer type
// itself is adapted.
func Classify(t reflect.Type, adapted func(reflect.Type) bool) Shape {
	for {
		if adapted != nil && adapted(t) {
			return Adapted
		}
		if t.Kind() != reflect.Pointer {
			break
		}
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return Primitive
	case reflect.Interface:
		switch t {
		case setLikeType:
			return SetLike
		case queueLikeType:
			return QueueLike
		case listLikeType, collectionType:
			return ListLike
		}
		return Primitive
	case reflect.Array:
		return Array
	}

	switch {
	case implements(t, setLikeType):
		return SetLike
	case implements(t, queueLikeType):
		return QueueLike
	case implements(t, listLikeType), implements(t, collectionType):
		return ListLike
	}

	switch t.Kind() {
	case reflect.Slice:
		return ListLike
	case reflect.Map:
		return Map
	}
	return Plain
}

func implements(t, iface reflect.Type) bool {
	return t.Implements(iface) || reflect.PointerTo(t).Implements(iface)
}

// Indirect returns the type obtained by following pointers from t.
func Indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
