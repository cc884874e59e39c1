package container

import (
	"cmp"
	"reflect"
	"sync"

	"github.com/Workiva/go-datastructures/queue"
)

// Queue is a priority-ordered collection backed by a Workiva priority queue.
// Elements come out lowest first according to the queue's comparator;
// elements that compare equal keep insertion order. The zero value is an
// empty queue using the default ordering. Copies of a Queue share their
// elements.
type Queue[T any] struct {
	s *queueState[T]
}

var _ QueueLike = Queue[int]{}
var _ Builder = (*Queue[int])(nil)

type queueState[T any] struct {
	mu  sync.Mutex
	pq  *queue.PriorityQueue
	cmp func(a, b T) int
	seq uint64
}

type queueItem[T any] struct {
	value T
	seq   uint64
	cmp   func(a, b T) int
}

func (i *queueItem[T]) Compare(other queue.Item) int {
	o := other.(*queueItem[T])
	if c := i.cmp(i.value, o.value); c != 0 {
		return c
	}
	return cmp.Compare(i.seq, o.seq)
}

// NewQueue returns an empty queue ordered by compare. A nil compare selects
// the default ordering: natural order for integer, float and string kinds,
// insertion order otherwise.
func NewQueue[T any](compare func(a, b T) int) *Queue[T] {
	q := &Queue[T]{}
	q.init(0, compare)
	return q
}

func (q *Queue[T]) init(sizeHint int, compare func(a, b T) int) {
	if compare == nil {
		compare = func(a, b T) int { return Compare(a, b) }
	}
	q.s = &queueState[T]{
		pq:  queue.NewPriorityQueue(sizeHint, true),
		cmp: compare,
	}
}

// Push adds v to the queue.
func (q *Queue[T]) Push(v T) {
	if q.s == nil {
		q.init(0, nil)
	}
	s := q.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	_ = s.pq.Put(&queueItem[T]{value: v, seq: s.seq, cmp: s.cmp})
}

// Pop removes and returns the lowest element.
func (q *Queue[T]) Pop() (T, bool) {
	var zero T
	if q.s == nil {
		return zero, false
	}
	s := q.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pq.Len() == 0 {
		return zero, false
	}
	items, err := s.pq.Get(1)
	if err != nil || len(items) == 0 {
		return zero, false
	}
	return items[0].(*queueItem[T]).value, true
}

// Slice returns the elements in priority order without removing them.
func (q Queue[T]) Slice() []T {
	items := q.snapshot()
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.value
	}
	return out
}

// snapshot drains the underlying queue in priority order and puts the items
// back.
func (q Queue[T]) snapshot() []*queueItem[T] {
	if q.s == nil {
		return nil
	}
	s := q.s
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.pq.Len()
	if n == 0 {
		return nil
	}
	items, err := s.pq.Get(n)
	if err != nil {
		return nil
	}
	_ = s.pq.Put(items...)
	out := make([]*queueItem[T], len(items))
	for i, it := range items {
		out[i] = it.(*queueItem[T])
	}
	return out
}

func (q Queue[T]) Len() int {
	if q.s == nil {
		return 0
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	return q.s.pq.Len()
}

func (q Queue[T]) Head() (any, bool) {
	if q.s == nil {
		return nil, false
	}
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	it := q.s.pq.Peek()
	if it == nil {
		return nil, false
	}
	return it.(*queueItem[T]).value, true
}

func (q Queue[T]) Values() []any {
	items := q.snapshot()
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it.value
	}
	return out
}

func (q Queue[T]) ElemType() reflect.Type { return reflect.TypeFor[T]() }

func (q *Queue[T]) Init(sizeHint int) {
	var compare func(a, b T) int
	if q.s != nil {
		compare = q.s.cmp
	}
	q.init(sizeHint, compare)
}

func (q *Queue[T]) Put(v any) error {
	e, err := elemFor[T](v)
	if err != nil {
		return err
	}
	q.Push(e)
	return nil
}

// Compare orders values of the same integer, float or string kind and
// treats everything else as equal.
func Compare(a, b any) int {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Kind() != vb.Kind() {
		return 0
	}
	switch va.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(va.Int(), vb.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(va.Uint(), vb.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(va.Float(), vb.Float())
	case reflect.String:
		return cmp.Compare(va.String(), vb.String())
	}
	return 0
}
