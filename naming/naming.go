// Package naming maps Go field names to the keys they are persisted under.
package naming

import (
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Strategy maps a field identifier to a persisted key. A strategy must be a
// pure function: the same input always yields the same key.
type Strategy func(name string) string

// Names of the built-in strategies.
const (
	CamelCase  = "camelcase"
	Underscore = "underscore"
	Dummy      = "dummy"
	Null       = "null"
)

// Registry holds named strategies. Names are case-insensitive. A Registry is
// safe for concurrent use; registering a name that already exists replaces it.
type Registry struct {
	strategies sync.Map // map[string]Strategy
}

// NewRegistry returns a registry populated with the built-in strategies.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register(CamelCase, Hyphenate)
	r.Register(Underscore, Snake)
	r.Register(Dummy, Identity)
	r.Register(Null, Identity)
	return r
}

// Register stores s under name, replacing any previous entry.
func (r *Registry) Register(name string, s Strategy) {
	r.strategies.Store(strings.ToLower(name), s)
}

// Lookup returns the strategy registered under name.
func (r *Registry) Lookup(name string) (Strategy, bool) {
	v, ok := r.strategies.Load(strings.ToLower(name))
	if !ok {
		return nil, false
	}
	return v.(Strategy), true
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	var names []string
	r.strategies.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}

var defaultRegistry = sync.OnceValue(NewRegistry)

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry()
}

// Register stores s under name in the process-wide registry.
func Register(name string, s Strategy) {
	Default().Register(name, s)
}

// Lookup returns the strategy registered under name in the process-wide
// registry.
func Lookup(name string) (Strategy, bool) {
	return Default().Lookup(name)
}

// Identity returns name unchanged.
func Identity(name string) string { return name }

// Hyphenate splits name into words and joins them lower-cased with '-':
// "MaxPlayers" becomes "max-players" and "HTTPServer2Port" becomes
// "http-server-2-port".
func Hyphenate(name string) string {
	return join(Words(name), "-")
}

// Snake splits name into words and joins them lower-cased with '_'.
func Snake(name string) string {
	return join(Words(name), "_")
}

func join(words []string, sep string) string {
	// cases.Caser keeps state and must not be shared between goroutines.
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, sep)
}

// Words splits an identifier at underscores, at lower-to-upper case
// transitions, before the last capital of an acronym that starts a new word,
// and around runs of digits. Trailing empty words are dropped.
func Words(name string) []string {
	r := []rune(name)
	var words []string
	start := 0
	for i := 1; i < len(r); i++ {
		prev := r[i-1]
		if prev == '_' {
			continue
		}
		cur := r[i]
		if cur == '_' {
			j := i
			for j < len(r) && r[j] == '_' {
				j++
			}
			words = append(words, string(r[start:i]))
			start = j
			i = j
			continue
		}
		split := false
		switch {
		case unicode.IsUpper(cur):
			split = !unicode.IsUpper(prev) || (i+1 < len(r) && unicode.IsLower(r[i+1]))
		case unicode.IsDigit(cur):
			split = !unicode.IsDigit(prev)
		case unicode.IsDigit(prev):
			split = true
		}
		if split {
			words = append(words, string(r[start:i]))
			start = i
		}
	}
	if start < len(r) {
		words = append(words, string(r[start:]))
	}
	for len(words) > 0 && words[len(words)-1] == "" {
		words = words[:len(words)-1]
	}
	return words
}
