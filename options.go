package cfgtree

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/KimNorgaard/go-cfgtree/adapter"
	"github.com/KimNorgaard/go-cfgtree/naming"
)

const defaultMaxDepth = 1000

// Option configures an Encoder or Decoder.
type Option func(*options) error

type options struct {
	strategyName string
	strategy     naming.Strategy
	names        *naming.Registry
	adapters     *adapter.Registry
	logger       *zap.Logger
	maxDepth     int

	lenientNumbers bool
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		strategyName: naming.CamelCase,
		names:        naming.Default(),
		adapters:     adapter.Default(),
		logger:       zap.NewNop(),
		maxDepth:     defaultMaxDepth,
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.strategy == nil {
		s, ok := o.names.Lookup(o.strategyName)
		if !ok {
			return nil, fmt.Errorf("cfgtree: unknown naming strategy %q", o.strategyName)
		}
		o.strategy = s
	}
	return o, nil
}

// WithNamingStrategy selects the naming strategy registered under name.
// The default is "camelcase".
func WithNamingStrategy(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("cfgtree: naming strategy name must not be empty")
		}
		o.strategyName = name
		o.strategy = nil
		return nil
	}
}

// WithNaming sets the naming strategy directly.
func WithNaming(s naming.Strategy) Option {
	return func(o *options) error {
		if s == nil {
			return fmt.Errorf("cfgtree: naming strategy must not be nil")
		}
		o.strategy = s
		return nil
	}
}

// WithNamingRegistry sets the registry WithNamingStrategy looks names up in.
func WithNamingRegistry(r *naming.Registry) Option {
	return func(o *options) error {
		if r == nil {
			return fmt.Errorf("cfgtree: naming registry must not be nil")
		}
		o.names = r
		return nil
	}
}

// WithAdapters sets the adapter registry. The default is adapter.Default().
func WithAdapters(r *adapter.Registry) Option {
	return func(o *options) error {
		if r == nil {
			return fmt.Errorf("cfgtree: adapter registry must not be nil")
		}
		o.adapters = r
		return nil
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) error {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
		return nil
	}
}

// MaxDepth sets the maximum nesting depth of values the encoder and decoder
// descend into. This guards against stack overflows on deeply nested trees.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("cfgtree: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}

// LenientNumbers lets the decoder store integer and float nodes into
// numeric fields of another kind, as long as the value fits. Text formats
// usually yield a single integer and float type, so stores reading them
// enable this.
func LenientNumbers() Option {
	return func(o *options) error {
		o.lenientNumbers = true
		return nil
	}
}
