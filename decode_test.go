package cfgtree_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	"github.com/KimNorgaard/go-cfgtree"
	"github.com/KimNorgaard/go-cfgtree/container"
	"github.com/KimNorgaard/go-cfgtree/section"
)

func TestDecoder_Decode(t *testing.T) {
	dec, err := cfgtree.NewDecoder()
	require.NoError(t, err)

	type Mode string

	t.Run("scalars", func(t *testing.T) {
		var i int
		require.NoError(t, dec.Decode(42, &i))
		require.Equal(t, 42, i)

		var m Mode
		require.NoError(t, dec.Decode("creative", &m))
		require.Equal(t, Mode("creative"), m)

		var p *float64
		require.NoError(t, dec.Decode(2.5, &p))
		require.Equal(t, 2.5, *p)

		var a any
		require.NoError(t, dec.Decode(true, &a))
		require.Equal(t, true, a)
	})

	t.Run("nil resets to zero", func(t *testing.T) {
		s := "preset"
		require.NoError(t, dec.Decode(nil, &s))
		require.Empty(t, s)

		l := &Location{World: "w"}
		require.NoError(t, dec.Decode(nil, &l))
		require.Nil(t, l)
	})

	t.Run("slices from sequences and sections", func(t *testing.T) {
		var names []string
		require.NoError(t, dec.Decode([]any{"a", "b"}, &names))
		require.Equal(t, []string{"a", "b"}, names)

		byIndex := section.New()
		byIndex.Set("1", "x")
		byIndex.Set("2", "y")
		require.NoError(t, dec.Decode(byIndex, &names))
		require.Equal(t, []string{"x", "y"}, names)
	})

	t.Run("slice of structs from index section", func(t *testing.T) {
		sec := section.New()
		sec.Set("1.world", "a")
		sec.Set("2.world", "b")
		sec.Set("2.x", 3)
		var locs []Location
		require.NoError(t, dec.Decode(sec, &locs))
		require.Equal(t, []Location{{World: "a"}, {World: "b", X: 3}}, locs)
	})

	t.Run("marker interfaces get canonical containers", func(t *testing.T) {
		var l container.ListLike
		require.NoError(t, dec.Decode([]any{"a", 1}, &l))
		require.IsType(t, &container.List[any]{}, l)
		require.Equal(t, []any{"a", 1}, l.Values())

		var s container.SetLike
		require.NoError(t, dec.Decode([]any{"a", "a", "b"}, &s))
		require.IsType(t, &container.Set[any]{}, s)
		require.Equal(t, 2, s.Len())
		require.True(t, s.Has("b"))

		var q container.QueueLike
		require.NoError(t, dec.Decode([]any{3, 1, 2}, &q))
		require.IsType(t, &container.Queue[any]{}, q)
		head, ok := q.Head()
		require.True(t, ok)
		require.Equal(t, 1, head)
	})

	t.Run("concrete containers", func(t *testing.T) {
		var l container.List[string]
		require.NoError(t, dec.Decode([]any{"x"}, &l))
		require.Equal(t, []string{"x"}, l.Slice())

		var s *container.Set[int]
		require.NoError(t, dec.Decode([]any{1, 2, 2}, &s))
		require.ElementsMatch(t, []int{1, 2}, s.Slice())
	})

	t.Run("maps", func(t *testing.T) {
		sec := section.New()
		sec.SetKey("10", "ten")
		sec.SetKey("2", "two")
		var m map[int]string
		require.NoError(t, dec.Decode(sec, &m))
		require.Equal(t, map[int]string{10: "ten", 2: "two"}, m)

		nested := section.New()
		nested.Set("home.world", "overworld")
		var locs map[string]*Location
		require.NoError(t, dec.Decode(nested, &locs))
		require.Equal(t, map[string]*Location{"home": {World: "overworld"}}, locs)

		var flags map[bool]float64
		flagSec := section.New()
		flagSec.Set("true", 1.0)
		require.NoError(t, dec.Decode(flagSec, &flags))
		require.Equal(t, map[bool]float64{true: 1}, flags)
	})

	t.Run("any keeps sections", func(t *testing.T) {
		sec := section.New()
		sec.Set("a.b", 1)
		var v any
		require.NoError(t, dec.Decode(sec, &v))
		require.Same(t, sec, v)
	})

	t.Run("adapted types", func(t *testing.T) {
		var d time.Duration
		require.NoError(t, dec.Decode("2h", &d))
		require.Equal(t, 2*time.Hour, d)

		var counter *atomic.Int32
		require.NoError(t, dec.Decode(5, &counter))
		require.Equal(t, int32(5), counter.Load())

		sec := section.New()
		var got *section.Section
		require.NoError(t, dec.Decode(sec, &got))
		require.Same(t, sec, got)
	})
}

func TestDecode_Colour(t *testing.T) {
	sec := section.New()
	sec.Set("motd", "&cHi")
	sec.Set("lines", []any{"%aA", "&aB"})
	sec.Set("raw", "&cX")

	var out Chat
	require.NoError(t, cfgtree.Unmarshal(sec, &out))
	require.Equal(t, Chat{Motd: "§cHi", Lines: []string{"§aA", "&aB"}, Raw: "&cX"}, out)

	back, err := cfgtree.Marshal(out)
	require.NoError(t, err)
	require.Equal(t, sec.String(), back.String())
}

func TestDecode_FreshInstance(t *testing.T) {
	sec := section.New()
	sec.Set("world", "new")

	out := Location{World: "old", X: 9}
	require.NoError(t, cfgtree.Unmarshal(sec, &out))
	require.Equal(t, Location{World: "new"}, out)
}

func TestDecodeSection(t *testing.T) {
	dec, err := cfgtree.NewDecoder()
	require.NoError(t, err)

	sec := section.New()
	sec.Set("server.spawn.world", "hub")
	sec.Set("server.spawn.x", 4)

	var loc Location
	require.NoError(t, dec.DecodeSection(sec, "server.spawn", &loc))
	require.Equal(t, Location{World: "hub", X: 4}, loc)

	var missing Location
	require.NoError(t, dec.DecodeSection(sec, "server.other", &missing))
	require.Equal(t, Location{}, missing)

	err = dec.DecodeSection(sec, "server.spawn", loc)
	require.ErrorIs(t, err, cfgtree.ErrNotPointer)

	t.Run("required path is reported from the key", func(t *testing.T) {
		err := dec.DecodeSection(sec, "server", &Example{})
		require.EqualError(t, err, "cfgtree: could not find the required field, count, in section server")
	})
}

func TestDecode_LenientNumbers(t *testing.T) {
	dec, err := cfgtree.NewDecoder(cfgtree.LenientNumbers())
	require.NoError(t, err)

	var i64 int64
	require.NoError(t, dec.Decode(5, &i64))
	require.Equal(t, int64(5), i64)

	var u16 uint16
	require.NoError(t, dec.Decode(uint64(65535), &u16))
	require.Equal(t, uint16(65535), u16)

	var f32 float32
	require.NoError(t, dec.Decode(3, &f32))
	require.Equal(t, float32(3), f32)

	var i8 int8
	var terr *cfgtree.TypeError
	require.ErrorAs(t, dec.Decode(300, &i8), &terr)

	var u uint
	require.ErrorAs(t, dec.Decode(-1, &u), &terr)

	var i int
	require.ErrorAs(t, dec.Decode(1.5, &i), &terr)
}
