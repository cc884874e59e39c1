package container

import "reflect"

// List is an insertion-ordered growable sequence. The zero value is an
// empty list ready to use.
type List[T any] struct {
	items []T
}

var _ ListLike = List[int]{}
var _ Builder = (*List[int])(nil)

// NewList returns a list holding items.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{items: make([]T, 0, len(items))}
	l.items = append(l.items, items...)
	return l
}

// Add appends v to the list.
func (l *List[T]) Add(v T) {
	l.items = append(l.items, v)
}

// Slice returns the elements in insertion order.
func (l List[T]) Slice() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

func (l List[T]) Len() int { return len(l.items) }

func (l List[T]) At(i int) any { return l.items[i] }

func (l List[T]) Values() []any {
	out := make([]any, len(l.items))
	for i, v := range l.items {
		out[i] = v
	}
	return out
}

func (l List[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

func (l *List[T]) Init(sizeHint int) {
	l.items = make([]T, 0, sizeHint)
}

func (l *List[T]) Put(v any) error {
	e, err := elemFor[T](v)
	if err != nil {
		return err
	}
	l.Add(e)
	return nil
}
