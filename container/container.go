// Package container provides the collection types cfgtree knows how to walk
// and rebuild: an insertion-ordered List, a unique-membership Set and a
// priority-ordered Queue.
//
// The generic types expose a small non-generic surface (Collection and
// Builder) so that they can be encoded and decoded through reflection without
// knowing their element type up front.
package container

import (
	"fmt"
	"reflect"
)

// Collection is implemented by every container in this package.
type Collection interface {
	// Len returns the number of elements.
	Len() int
	// Values returns the elements in iteration order.
	Values() []any
	// ElemType returns the static element type.
	ElemType() reflect.Type
}

// Builder is implemented by pointers to containers. Init prepares an empty
// container able to hold sizeHint elements; Put adds one element.
type Builder interface {
	Collection
	Init(sizeHint int)
	Put(v any) error
}

// ListLike is an insertion-ordered sequence.
type ListLike interface {
	Collection
	At(i int) any
}

// SetLike is an unordered collection of unique elements.
type SetLike interface {
	Collection
	Has(v any) bool
}

// QueueLike is a priority-ordered collection.
type QueueLike interface {
	Collection
	Head() (any, bool)
}

// elemFor converts v to the element type T.
func elemFor[T any](v any) (T, error) {
	e, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("container: cannot add %T to a container of %s", v, reflect.TypeFor[T]())
	}
	return e, nil
}
