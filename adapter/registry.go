package adapter

import (
	"reflect"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/KimNorgaard/go-cfgtree/internal/shape"
)

// DefaultDateLayout formats dates as "Jan 2, 2006".
const DefaultDateLayout = "Jan 2, 2006"

// Registry maps exact types to adapters. It is safe for concurrent use;
// registering a type that already has an adapter replaces it.
type Registry struct {
	mu       sync.RWMutex
	adapters map[reflect.Type]Adapter
}

type options struct {
	logger     *zap.Logger
	dateLayout string
	now        func() time.Time
}

// Option configures the built-in adapters of a new registry.
type Option func(*options)

// WithLogger sets the logger used to report recovered parse failures.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDateLayout sets the layout of the time.Time adapter.
func WithDateLayout(layout string) Option {
	return func(o *options) { o.dateLayout = layout }
}

// WithClock sets the function the time.Time adapter falls back to when a
// date cannot be parsed.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// NewRegistry returns a registry populated with the built-in adapters.
func NewRegistry(opts ...Option) *Registry {
	o := options{
		logger:     zap.NewNop(),
		dateLayout: DefaultDateLayout,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := Empty()
	r.Register(&DateAdapter{Layout: o.dateLayout, Now: o.now, Logger: o.logger})
	for _, a := range builtins() {
		r.Register(a)
	}
	return r
}

// Empty returns a registry without any adapters.
func Empty() *Registry {
	return &Registry{adapters: make(map[reflect.Type]Adapter)}
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry()
}

// Register stores a under a.Type(), replacing any previous adapter.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Type()] = a
}

// Lookup returns the adapter registered for exactly t.
func (r *Registry) Lookup(t reflect.Type) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[t]
	return a, ok
}

// Has reports whether an adapter is registered for exactly t.
func (r *Registry) Has(t reflect.Type) bool {
	_, ok := r.Lookup(t)
	return ok
}

// IsOpaque reports whether values of t are written as a single scalar,
// sequence or nested value instead of a section of fields: t has an
// adapter, or is a primitive, string, interface, array, slice, map or
// container type.
func (r *Registry) IsOpaque(t reflect.Type) bool {
	return shape.Classify(t, r.Has).Opaque()
}

// Types returns the registered types ordered by name.
func (r *Registry) Types() []reflect.Type {
	r.mu.RLock()
	types := make([]reflect.Type, 0, len(r.adapters))
	for t := range r.adapters {
		types = append(types, t)
	}
	r.mu.RUnlock()
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}
