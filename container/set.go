package container

import (
	"fmt"
	"reflect"

	goset "github.com/deckarep/golang-set/v2"
)

// Set is an unordered collection of unique elements backed by a thread-safe
// golang-set (goset.NewSet). The zero value is an empty set ready to use,
// but its first Add must not race with other calls. Copies of a Set share
// their elements.
type Set[T comparable] struct {
	set goset.Set[T]
}

var _ SetLike = Set[int]{}
var _ Builder = (*Set[int])(nil)

// NewSet returns a set holding vals.
func NewSet[T comparable](vals ...T) *Set[T] {
	return &Set[T]{set: goset.NewSet(vals...)}
}

// Add inserts v and reports whether it was not already present.
func (s *Set[T]) Add(v T) bool {
	if s.set == nil {
		s.set = goset.NewSet[T]()
	}
	return s.set.Add(v)
}

// Contains reports whether v is in the set.
func (s Set[T]) Contains(v T) bool {
	return s.set != nil && s.set.ContainsOne(v)
}

// Slice returns the elements in unspecified order.
func (s Set[T]) Slice() []T {
	if s.set == nil {
		return nil
	}
	return s.set.ToSlice()
}

func (s Set[T]) Len() int {
	if s.set == nil {
		return 0
	}
	return s.set.Cardinality()
}

func (s Set[T]) Has(v any) bool {
	e, ok := v.(T)
	return ok && s.Contains(e)
}

func (s Set[T]) Values() []any {
	if s.set == nil {
		return nil
	}
	out := make([]any, 0, s.set.Cardinality())
	s.set.Each(func(v T) bool {
		out = append(out, v)
		return false
	})
	return out
}

func (s Set[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

func (s *Set[T]) Init(sizeHint int) {
	s.set = goset.NewSetWithSize[T](sizeHint)
}

func (s *Set[T]) Put(v any) error {
	if v == nil || !reflect.ValueOf(v).Comparable() {
		return fmt.Errorf("container: cannot add non-comparable %T to a set", v)
	}
	e, err := elemFor[T](v)
	if err != nil {
		return err
	}
	s.Add(e)
	return nil
}
