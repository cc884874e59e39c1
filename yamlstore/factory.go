package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KimNorgaard/go-cfgtree"
	"github.com/KimNorgaard/go-cfgtree/adapter"
	"github.com/KimNorgaard/go-cfgtree/comment"
	"github.com/KimNorgaard/go-cfgtree/naming"
	"github.com/KimNorgaard/go-cfgtree/section"
)

// Ext is the file extension of configuration files.
const Ext = ".yml"

const filePerm = 0o644

// Factory loads and saves configuration values as YAML files in a
// directory. When a file does not exist, Factory writes the default value
// for the target type and loads that.
//
// A Factory is safe for concurrent use.
type Factory struct {
	dir      string
	logger   *zap.Logger
	adapters *adapter.Registry
	names    *naming.Registry

	mu       sync.RWMutex
	strategy string

	// defaults maps a struct type to the encoded default value written for
	// missing files.
	defaults sync.Map
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *zap.Logger) Option {
	return func(f *Factory) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithAdapters sets the adapter registry used to encode and decode values.
func WithAdapters(r *adapter.Registry) Option {
	return func(f *Factory) {
		if r != nil {
			f.adapters = r
		}
	}
}

// WithNamingRegistry sets the registry naming strategies are looked up in.
func WithNamingRegistry(r *naming.Registry) Option {
	return func(f *Factory) {
		if r != nil {
			f.names = r
		}
	}
}

// WithNamingStrategy sets the initial naming strategy. It is validated by
// NewFactory.
func WithNamingStrategy(name string) Option {
	return func(f *Factory) { f.strategy = name }
}

// NewFactory returns a factory reading and writing files in dir.
func NewFactory(dir string, opts ...Option) (*Factory, error) {
	f := &Factory{
		dir:      dir,
		logger:   zap.NewNop(),
		adapters: adapter.Default(),
		names:    naming.Default(),
		strategy: naming.CamelCase,
	}
	for _, opt := range opts {
		opt(f)
	}
	if _, ok := f.names.Lookup(f.strategy); !ok {
		return nil, fmt.Errorf("yamlstore: unknown naming strategy %q", f.strategy)
	}
	return f, nil
}

// Dir returns the directory the factory works in.
func (f *Factory) Dir() string { return f.dir }

// Path returns the file name used for the configuration called name.
func (f *Factory) Path(name string) string {
	return filepath.Join(f.dir, name+Ext)
}

// NamingStrategy returns the name of the current naming strategy.
func (f *Factory) NamingStrategy() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.strategy
}

// SetNamingStrategy switches the naming strategy used by later loads and
// saves.
func (f *Factory) SetNamingStrategy(name string) error {
	if _, ok := f.names.Lookup(name); !ok {
		return fmt.Errorf("yamlstore: unknown naming strategy %q", name)
	}
	f.mu.Lock()
	f.strategy = name
	f.mu.Unlock()
	return nil
}

// SetDefault records v as the default value for its type. It replaces the
// value passed to Load when a file has to be created.
func (f *Factory) SetDefault(v any) error {
	sec, err := cfgtree.Marshal(v, f.options()...)
	if err != nil {
		return err
	}
	f.defaults.Store(typeKey(v), sec)
	return nil
}

// Load decodes the configuration called name into v, which must be a
// non-nil pointer to a struct.
func (f *Factory) Load(name string, v any) error {
	return f.LoadFile(f.Path(name), v)
}

// LoadFile decodes the file at path into v. If the file does not exist it
// is created from the default value for v's type, or from v itself when no
// default is known, and v is loaded from that default.
func (f *Factory) LoadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return f.create(path, v)
	}
	if err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	sec, err := Decode(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := cfgtree.Unmarshal(sec, v, f.options()...); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (f *Factory) create(path string, v any) error {
	key := typeKey(v)
	var sec *section.Section
	if cached, ok := f.defaults.Load(key); ok {
		sec = cached.(*section.Section).Clone()
	} else {
		var err error
		if sec, err = cfgtree.Marshal(v, f.options()...); err != nil {
			return err
		}
		f.defaults.LoadOrStore(key, sec.Clone())
	}
	if err := cfgtree.Unmarshal(sec, v, f.options()...); err != nil {
		return err
	}
	if err := f.SaveFile(path, v); err != nil {
		return err
	}
	f.logger.Info("created default configuration",
		zap.String("path", path), zap.Stringer("type", key))
	return nil
}

// Save encodes v and writes it to the file of the configuration called name.
func (f *Factory) Save(name string, v any) error {
	return f.SaveFile(f.Path(name), v)
}

// SaveFile encodes v, with its field comments and header, and writes it to
// path. The file is replaced atomically.
func (f *Factory) SaveFile(path string, v any) (err error) {
	opts := f.options()
	sec, err := cfgtree.Marshal(v, opts...)
	if err != nil {
		return err
	}
	rename, _ := f.names.Lookup(f.NamingStrategy())
	comments := comment.Extract(v, rename, comment.WithAdapters(f.adapters))
	data, err := Encode(sec, comments, comment.Header(v))
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	defer func() {
		if err != nil {
			multierr.AppendInto(&err, ignoreNotExist(os.Remove(tmp.Name())))
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return multierr.Combine(fmt.Errorf("yamlstore: %w", err), tmp.Close())
	}
	if err := multierr.Combine(tmp.Chmod(filePerm), tmp.Close()); err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("yamlstore: %w", err)
	}
	f.logger.Debug("saved configuration", zap.String("path", path))
	return nil
}

// LoadAll loads every target concurrently. The map key is the
// configuration name and the value the pointer to decode into. The first
// error cancels the remaining loads and is returned.
func (f *Factory) LoadAll(ctx context.Context, targets map[string]any) error {
	eg, ctx := errgroup.WithContext(ctx)
	for name, v := range targets {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := f.Load(name, v); err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

func (f *Factory) options() []cfgtree.Option {
	return []cfgtree.Option{
		cfgtree.WithAdapters(f.adapters),
		cfgtree.WithNamingRegistry(f.names),
		cfgtree.WithNamingStrategy(f.NamingStrategy()),
		cfgtree.WithLogger(f.logger),
		cfgtree.LenientNumbers(),
	}
}

func typeKey(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func ignoreNotExist(err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
