package container_test

import (
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/KimNorgaard/go-cfgtree/container"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	l := container.NewList("a", "b")
	l.Add("c")

	require.Equal(t, 3, l.Len())
	require.Equal(t, []string{"a", "b", "c"}, l.Slice())
	require.Equal(t, []any{"a", "b", "c"}, l.Values())
	require.Equal(t, "b", l.At(1))
	require.Equal(t, reflect.TypeFor[string](), l.ElemType())

	t.Run("Builder", func(t *testing.T) {
		var b container.Builder = &container.List[int]{}
		b.Init(2)
		require.NoError(t, b.Put(1))
		require.NoError(t, b.Put(2))
		require.Error(t, b.Put("three"))
		require.Equal(t, []any{1, 2}, b.Values())
	})
}

func TestSet(t *testing.T) {
	s := container.NewSet("x", "y")
	require.False(t, s.Add("x"))
	require.True(t, s.Add("z"))

	require.Equal(t, 3, s.Len())
	require.True(t, s.Contains("y"))
	require.True(t, s.Has("z"))
	require.False(t, s.Has(42))
	require.ElementsMatch(t, []string{"x", "y", "z"}, s.Slice())
	require.ElementsMatch(t, []any{"x", "y", "z"}, s.Values())

	t.Run("Zero value", func(t *testing.T) {
		var zero container.Set[int]
		require.Equal(t, 0, zero.Len())
		require.Nil(t, zero.Values())
		zero.Add(1)
		require.True(t, zero.Contains(1))
	})

	t.Run("Builder rejects non-comparable", func(t *testing.T) {
		var b container.Builder = &container.Set[any]{}
		b.Init(1)
		require.NoError(t, b.Put("ok"))
		require.Error(t, b.Put([]any{1}))
		require.Error(t, b.Put(nil))
		require.Equal(t, 1, b.Len())
	})

	t.Run("Concurrent adds", func(t *testing.T) {
		s := container.NewSet[int]()
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := range 100 {
					s.Add(i*100 + j)
					s.Contains(j)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, 800, s.Len())
	})
}

func TestQueue(t *testing.T) {
	t.Run("Default ordering", func(t *testing.T) {
		var q container.Queue[int]
		for _, v := range []int{5, 1, 4, 2, 3} {
			q.Push(v)
		}
		require.Equal(t, []int{1, 2, 3, 4, 5}, q.Slice())
		require.Equal(t, 5, q.Len(), "Slice must not drain the queue")

		head, ok := q.Head()
		require.True(t, ok)
		require.Equal(t, 1, head)

		v, ok := q.Pop()
		require.True(t, ok)
		require.Equal(t, 1, v)
		require.Equal(t, []any{2, 3, 4, 5}, q.Values())
	})

	t.Run("Custom comparator", func(t *testing.T) {
		q := container.NewQueue(func(a, b string) int {
			return len(b) - len(a)
		})
		q.Push("a")
		q.Push("ccc")
		q.Push("bb")
		require.Equal(t, []string{"ccc", "bb", "a"}, q.Slice())
	})

	t.Run("Ties keep insertion order", func(t *testing.T) {
		q := container.NewQueue(func(a, b string) int {
			return strings.Compare(a[:1], b[:1])
		})
		q.Push("b1")
		q.Push("a1")
		q.Push("b2")
		q.Push("a2")
		require.Equal(t, []string{"a1", "a2", "b1", "b2"}, q.Slice())
	})

	t.Run("Empty", func(t *testing.T) {
		var q container.Queue[string]
		_, ok := q.Pop()
		require.False(t, ok)
		_, ok = q.Head()
		require.False(t, ok)
		require.Empty(t, q.Values())
	})

	t.Run("Builder", func(t *testing.T) {
		var b container.Builder = &container.Queue[float64]{}
		b.Init(3)
		require.NoError(t, b.Put(2.5))
		require.NoError(t, b.Put(0.5))
		require.Error(t, b.Put(1))
		require.Equal(t, []any{0.5, 2.5}, b.Values())
	})
}
