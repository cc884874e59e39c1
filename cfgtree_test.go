package cfgtree_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/KimNorgaard/go-cfgtree"
	"github.com/KimNorgaard/go-cfgtree/adapter"
	"github.com/KimNorgaard/go-cfgtree/container"
	"github.com/KimNorgaard/go-cfgtree/naming"
	"github.com/KimNorgaard/go-cfgtree/section"
)

func TestRoundTrip_Example(t *testing.T) {
	in := Example{
		Count:  3,
		Tags:   []string{"b", "a", "c"},
		Nested: Other{Label: "inner", Weight: 1.5},
	}

	sec, err := cfgtree.Marshal(&in)
	require.NoError(t, err)
	require.Equal(t, []string{"count", "tags", "nested"}, sec.Keys(), spew.Sdump(sec))

	var out Example
	require.NoError(t, cfgtree.Unmarshal(sec, &out))
	require.Equal(t, in, out)

	sec.Delete("count")
	err = cfgtree.Unmarshal(sec, &out)
	var verr *cfgtree.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "count", verr.Field)
	require.ErrorContains(t, err, "count")
}

func TestRoundTrip_Server(t *testing.T) {
	in := Server{
		Name:       "lobby",
		MaxPlayers: 64,
		Spawn:      Location{World: "overworld", X: 10, Y: -4},
		Warps: []Location{
			{World: "nether", X: 1},
			{World: "end", Y: 2},
		},
		Regions: map[string]Location{
			"north": {World: "overworld", Y: 100},
			"south": {World: "overworld", Y: -100},
		},
		Ports:    map[string]int{"game": 25565, "query": 25566},
		Admins:   *container.NewSet("alice", "bob"),
		Backlog:  container.NewQueue[int](nil),
		Offsets:  [3]int{1, 2, 3},
		Timeout:  90 * time.Second,
		Started:  time.Date(2024, time.March, 7, 0, 0, 0, 0, time.UTC),
		ID:       uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427"),
		Motd:     "§aWelcome",
		Secret:   "dropped",
		Fallback: &Location{World: "limbo"},
	}
	in.Backlog.Push(3)
	in.Backlog.Push(1)
	in.Backlog.Push(2)

	sec, err := cfgtree.Marshal(&in)
	require.NoError(t, err)
	require.False(t, sec.Contains("secret"))
	require.Equal(t, "&aWelcome", mustGet(t, sec, "motd"))
	require.Equal(t, "Mar 7, 2024", mustGet(t, sec, "started"))
	require.Equal(t, "1m30s", mustGet(t, sec, "timeout"))
	require.Equal(t, []any{"alice", "bob"}, mustGet(t, sec, "admins"))
	require.Equal(t, []any{1, 2, 3}, mustGet(t, sec, "backlog"))

	var out Server
	require.NoError(t, cfgtree.Unmarshal(sec, &out))

	require.Equal(t, in.Name, out.Name)
	require.Equal(t, in.MaxPlayers, out.MaxPlayers)
	require.Equal(t, in.Spawn, out.Spawn)
	require.Equal(t, in.Warps, out.Warps)
	require.Equal(t, in.Regions, out.Regions)
	require.Equal(t, in.Ports, out.Ports)
	require.ElementsMatch(t, in.Admins.Slice(), out.Admins.Slice())
	require.Equal(t, []int{1, 2, 3}, out.Backlog.Slice())
	require.Equal(t, in.Offsets, out.Offsets)
	require.Equal(t, in.Timeout, out.Timeout)
	require.Equal(t, in.Started, out.Started)
	require.Equal(t, in.ID, out.ID)
	require.Equal(t, in.Motd, out.Motd)
	require.Equal(t, in.Fallback, out.Fallback)
	require.Empty(t, out.Secret)
}

func TestRequiredField(t *testing.T) {
	type Optional struct {
		Count int
		Name  string
	}
	type Outer struct {
		Inner Example
	}

	t.Run("optional absent keeps zero", func(t *testing.T) {
		sec := section.New()
		sec.Set("name", "x")
		var out Optional
		require.NoError(t, cfgtree.Unmarshal(sec, &out))
		require.Equal(t, Optional{Name: "x"}, out)
	})

	t.Run("required absent at root", func(t *testing.T) {
		err := cfgtree.Unmarshal(section.New(), &Example{})
		require.EqualError(t, err, "cfgtree: could not find the required field, count")
	})

	t.Run("required absent in nested section", func(t *testing.T) {
		sec := section.New()
		sec.Set("inner.tags", []any{"a"})
		err := cfgtree.Unmarshal(sec, &Outer{})
		require.EqualError(t, err, "cfgtree: could not find the required field, count, in section inner")

		var verr *cfgtree.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, &cfgtree.ValidationError{Field: "count", Path: "inner"}, verr)
	})
}

func TestSelfMerge(t *testing.T) {
	extra := section.New()
	extra.Set("name", "shadowed")
	extra.Set("color", "red")
	extra.Set("limits.max", 5)

	sec, err := cfgtree.Marshal(&WithSelf{Name: "kept", Extra: extra})
	require.NoError(t, err)
	require.Equal(t, []string{"name", "color", "limits"}, sec.Keys())
	require.Equal(t, "kept", mustGet(t, sec, "name"))
	require.Equal(t, "red", mustGet(t, sec, "color"))

	sec.Set("limits.max", 6)
	require.Equal(t, 5, mustGet(t, extra, "limits.max"), "merged keys must not alias the self section")

	var out WithSelf
	require.NoError(t, cfgtree.Unmarshal(sec, &out))
	require.Equal(t, "kept", out.Name)
	require.Same(t, sec, out.Extra)

	t.Run("nil self section", func(t *testing.T) {
		sec, err := cfgtree.Marshal(&WithSelf{Name: "only"})
		require.NoError(t, err)
		require.Equal(t, []string{"name"}, sec.Keys())
	})
}

func TestOpaqueVersusSection(t *testing.T) {
	type Lists struct {
		Names     []string
		Locations []Location
	}
	sec, err := cfgtree.Marshal(Lists{
		Names:     []string{"a", "b", "c"},
		Locations: []Location{{World: "a"}, {World: "b"}, {World: "c"}},
	})
	require.NoError(t, err)

	require.Equal(t, []any{"a", "b", "c"}, mustGet(t, sec, "names"))

	locs := sec.Section("locations")
	require.NotNil(t, locs, spew.Sdump(sec))
	require.Equal(t, []string{"1", "2", "3"}, locs.Keys())
	require.Equal(t, "b", mustGet(t, locs, "2.world"))
}

type Labels map[string]string

func TestAdapterPrecedence(t *testing.T) {
	type Tagged struct {
		Labels Labels
	}

	reg := adapter.NewRegistry()
	reg.Register(adapter.Func(
		func(l Labels) (any, error) {
			pairs := make([]string, 0, len(l))
			for k, v := range l {
				pairs = append(pairs, k+"="+v)
			}
			return strings.Join(pairs, ","), nil
		},
		func(n any) (Labels, error) {
			s, err := adapter.String(n)
			if err != nil {
				return nil, err
			}
			l := Labels{}
			for _, p := range strings.Split(s, ",") {
				k, v, _ := strings.Cut(p, "=")
				l[k] = v
			}
			return l, nil
		}))

	in := Tagged{Labels: Labels{"env": "prod"}}
	sec, err := cfgtree.Marshal(in, cfgtree.WithAdapters(reg))
	require.NoError(t, err)
	require.Equal(t, "env=prod", mustGet(t, sec, "labels"))

	var out Tagged
	require.NoError(t, cfgtree.Unmarshal(sec, &out, cfgtree.WithAdapters(reg)))
	require.Equal(t, in, out)

	t.Run("default registry decomposes the map", func(t *testing.T) {
		sec, err := cfgtree.Marshal(in)
		require.NoError(t, err)
		require.True(t, sec.IsSection("labels"))
	})
}

func TestNamingDeterminism(t *testing.T) {
	names := naming.NewRegistry()
	names.Register("upper", strings.ToUpper)
	names.Register("prefixed", func(s string) string { return "x-" + naming.Hyphenate(s) })

	in := Location{World: "w", X: 1, Y: 2}
	encode := func(strategy string) []string {
		sec, err := cfgtree.Marshal(in, cfgtree.WithNamingRegistry(names), cfgtree.WithNamingStrategy(strategy))
		require.NoError(t, err)
		return sec.Keys()
	}

	require.Equal(t, []string{"WORLD", "X", "Y"}, encode("upper"))
	require.Equal(t, []string{"x-world", "x-x", "x-y"}, encode("prefixed"))
	require.Equal(t, encode("upper"), encode("UPPER"))
	require.Equal(t, []string{"WORLD", "X", "Y"}, encode("upper"))
	require.Equal(t, []string{"World", "X", "Y"}, encode(naming.Null))
	require.Equal(t, []string{"world", "x", "y"}, encode(naming.Underscore))
}

func TestMarshal_NotASection(t *testing.T) {
	_, err := cfgtree.Marshal(42)
	var serr *cfgtree.StructureError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, reflect.TypeFor[int](), serr.Type)
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name string
		opt  cfgtree.Option
		want string
	}{
		{name: "unknown strategy", opt: cfgtree.WithNamingStrategy("nope"), want: `cfgtree: unknown naming strategy "nope"`},
		{name: "empty strategy", opt: cfgtree.WithNamingStrategy(""), want: "cfgtree: naming strategy name must not be empty"},
		{name: "nil strategy", opt: cfgtree.WithNaming(nil), want: "cfgtree: naming strategy must not be nil"},
		{name: "nil adapters", opt: cfgtree.WithAdapters(nil), want: "cfgtree: adapter registry must not be nil"},
		{name: "nil names", opt: cfgtree.WithNamingRegistry(nil), want: "cfgtree: naming registry must not be nil"},
		{name: "zero depth", opt: cfgtree.MaxDepth(0), want: "cfgtree: max depth must be a positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cfgtree.NewEncoder(tt.opt)
			require.EqualError(t, err, tt.want)
			_, err = cfgtree.NewDecoder(tt.opt)
			require.EqualError(t, err, tt.want)
		})
	}

	t.Run("WithNaming wins over the default", func(t *testing.T) {
		sec, err := cfgtree.Marshal(Location{World: "w"}, cfgtree.WithNaming(strings.ToUpper))
		require.NoError(t, err)
		require.Equal(t, []string{"WORLD", "X", "Y"}, sec.Keys())
	})
}

type chain struct {
	Next *chain
}

func TestMaxDepth(t *testing.T) {
	root := &chain{}
	cur := root
	for range 10 {
		cur.Next = &chain{}
		cur = cur.Next
	}

	_, err := cfgtree.Marshal(root, cfgtree.MaxDepth(5))
	require.True(t, errors.Is(err, cfgtree.ErrMaxDepth))

	sec, err := cfgtree.Marshal(root)
	require.NoError(t, err)

	var out chain
	err = cfgtree.Unmarshal(sec, &out, cfgtree.MaxDepth(5))
	require.ErrorIs(t, err, cfgtree.ErrMaxDepth)

	require.NoError(t, cfgtree.Unmarshal(sec, &out))
	require.Equal(t, root, &out)
}

func mustGet(t *testing.T, sec *section.Section, path string) any {
	t.Helper()
	v, ok := sec.Get(path)
	require.True(t, ok, "missing %s in %s", path, sec)
	return v
}
