package adapter_test

import (
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KimNorgaard/go-cfgtree/adapter"
	"github.com/KimNorgaard/go-cfgtree/section"
)

func roundTrip(t *testing.T, r *adapter.Registry, v any) any {
	t.Helper()
	a, ok := r.Lookup(reflect.TypeOf(v))
	require.True(t, ok, "no adapter for %T", v)
	node, err := a.Encode(reflect.ValueOf(v))
	require.NoError(t, err)
	out, err := a.Decode(node)
	require.NoError(t, err)
	return out.Interface()
}

func TestBuiltins_RoundTrip(t *testing.T) {
	r := adapter.NewRegistry()

	t.Run("date", func(t *testing.T) {
		d := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)
		a, _ := r.Lookup(reflect.TypeFor[time.Time]())
		node, err := a.Encode(reflect.ValueOf(d))
		require.NoError(t, err)
		require.Equal(t, "Mar 7, 2024", node)
		require.True(t, d.Equal(roundTrip(t, r, d).(time.Time)))
	})

	t.Run("duration", func(t *testing.T) {
		require.Equal(t, 90*time.Second, roundTrip(t, r, 90*time.Second))
	})

	t.Run("uuid", func(t *testing.T) {
		id := uuid.New()
		require.Equal(t, id, roundTrip(t, r, id))
	})

	t.Run("atomics", func(t *testing.T) {
		require.True(t, roundTrip(t, r, atomic.NewBool(true)).(*atomic.Bool).Load())
		require.Equal(t, int32(-4), roundTrip(t, r, atomic.NewInt32(-4)).(*atomic.Int32).Load())
		require.Equal(t, int64(1<<40), roundTrip(t, r, atomic.NewInt64(1<<40)).(*atomic.Int64).Load())
		require.Equal(t, uint32(7), roundTrip(t, r, atomic.NewUint32(7)).(*atomic.Uint32).Load())
		require.Equal(t, uint64(9), roundTrip(t, r, atomic.NewUint64(9)).(*atomic.Uint64).Load())
		require.Equal(t, 2.5, roundTrip(t, r, atomic.NewFloat64(2.5)).(*atomic.Float64).Load())
		require.Equal(t, "hi", roundTrip(t, r, atomic.NewString("hi")).(*atomic.String).Load())
		require.Equal(t, time.Minute, roundTrip(t, r, atomic.NewDuration(time.Minute)).(*atomic.Duration).Load())
	})

	t.Run("atomic arrays", func(t *testing.T) {
		in := []*atomic.Int64{atomic.NewInt64(1), atomic.NewInt64(2)}
		a, _ := r.Lookup(reflect.TypeOf(in))
		node, err := a.Encode(reflect.ValueOf(in))
		require.NoError(t, err)
		require.Equal(t, []any{int64(1), int64(2)}, node)

		out := roundTrip(t, r, []*atomic.Int32{atomic.NewInt32(3)}).([]*atomic.Int32)
		require.Len(t, out, 1)
		require.Equal(t, int32(3), out[0].Load())
	})

	t.Run("section", func(t *testing.T) {
		s := section.New()
		s.Set("a.b", 1)
		a, _ := r.Lookup(reflect.TypeOf(s))
		node, err := a.Encode(reflect.ValueOf(s))
		require.NoError(t, err)
		require.NotSame(t, s, node)
		require.Equal(t, s.String(), node.(*section.Section).String())
	})
}

func TestBuiltins_DecodeFromPlainInts(t *testing.T) {
	r := adapter.NewRegistry()

	a, _ := r.Lookup(reflect.TypeFor[*atomic.Int32]())
	v, err := a.Decode(12)
	require.NoError(t, err)
	require.Equal(t, int32(12), v.Interface().(*atomic.Int32).Load())

	_, err = a.Decode(int64(1) << 40)
	require.ErrorContains(t, err, "out of range")

	a, _ = r.Lookup(reflect.TypeFor[*atomic.Uint64]())
	_, err = a.Decode(-1)
	require.ErrorContains(t, err, "negative")

	_, err = a.Decode("1")
	require.ErrorContains(t, err, "expected an integer")
}

func TestDateAdapter_Fallback(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	now := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	r := adapter.NewRegistry(
		adapter.WithLogger(zap.New(core)),
		adapter.WithClock(func() time.Time { return now }),
	)
	a, _ := r.Lookup(reflect.TypeFor[time.Time]())

	tests := []struct {
		name string
		node any
	}{
		{name: "garbage", node: "not a date"},
		{name: "wrong layout", node: "2024-03-07"},
		{name: "not a string", node: 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := a.Decode(tt.node)
			require.NoError(t, err)
			require.True(t, now.Equal(v.Interface().(time.Time)))
		})
	}
	require.Equal(t, len(tests), logs.Len())
}

func TestDateAdapter_Layout(t *testing.T) {
	r := adapter.NewRegistry(adapter.WithDateLayout(time.DateOnly))
	d := time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC)
	a, _ := r.Lookup(reflect.TypeFor[time.Time]())
	node, err := a.Encode(reflect.ValueOf(d))
	require.NoError(t, err)
	require.Equal(t, "2024-03-07", node)
}

type point struct{ X, Y int }

type labels map[string]string

func TestRegistry(t *testing.T) {
	t.Run("exact lookup only", func(t *testing.T) {
		r := adapter.NewRegistry()
		require.True(t, r.Has(reflect.TypeFor[time.Duration]()))
		require.False(t, r.Has(reflect.TypeFor[*time.Duration]()))
		require.False(t, r.Has(reflect.TypeFor[atomic.Int64]()))
	})

	t.Run("register replaces", func(t *testing.T) {
		r := adapter.Empty()
		r.Register(adapter.Func(
			func(p point) (any, error) { return "first", nil },
			func(any) (point, error) { return point{}, nil }))
		r.Register(adapter.Func(
			func(p point) (any, error) { return fmt.Sprintf("%d,%d", p.X, p.Y), nil },
			func(any) (point, error) { return point{}, nil }))

		require.Len(t, r.Types(), 1)
		a, _ := r.Lookup(reflect.TypeFor[point]())
		node, err := a.Encode(reflect.ValueOf(point{1, 2}))
		require.NoError(t, err)
		require.Equal(t, "1,2", node)
	})

	t.Run("IsOpaque", func(t *testing.T) {
		r := adapter.NewRegistry()
		tests := []struct {
			typ  reflect.Type
			want bool
		}{
			{reflect.TypeFor[string](), true},
			{reflect.TypeFor[int](), true},
			{reflect.TypeFor[[]string](), true},
			{reflect.TypeFor[map[string]int](), true},
			{reflect.TypeFor[[2]point](), true},
			{reflect.TypeFor[any](), true},
			{reflect.TypeFor[time.Time](), true},
			{reflect.TypeFor[point](), false},
			{reflect.TypeFor[*point](), false},
		}
		for _, tt := range tests {
			t.Run(tt.typ.String(), func(t *testing.T) {
				require.Equal(t, tt.want, r.IsOpaque(tt.typ))
			})
		}
	})

	t.Run("adapter on map type", func(t *testing.T) {
		r := adapter.Empty()
		r.Register(adapter.Func(
			func(l labels) (any, error) { return len(l), nil },
			func(any) (labels, error) { return labels{}, nil }))
		require.True(t, r.Has(reflect.TypeFor[labels]()))
		require.False(t, r.Has(reflect.TypeFor[map[string]string]()))
	})

	t.Run("concurrent register and lookup", func(t *testing.T) {
		r := adapter.NewRegistry()
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for range 100 {
					r.Register(adapter.Func(
						func(p point) (any, error) { return i, nil },
						func(any) (point, error) { return point{}, nil }))
				}
			}()
			go func() {
				defer wg.Done()
				for range 100 {
					if a, ok := r.Lookup(reflect.TypeFor[point]()); ok {
						_, err := a.Encode(reflect.ValueOf(point{}))
						require.NoError(t, err)
					}
					require.True(t, r.Has(reflect.TypeFor[uuid.UUID]()))
				}
			}()
		}
		wg.Wait()
		require.True(t, r.Has(reflect.TypeFor[point]()))
	})

	t.Run("Default is shared", func(t *testing.T) {
		require.Same(t, adapter.Default(), adapter.Default())
	})
}
