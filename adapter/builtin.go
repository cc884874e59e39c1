package adapter

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/KimNorgaard/go-cfgtree/section"
)

// DateAdapter writes time.Time values with a fixed layout. Human-edited
// dates that cannot be parsed decode to the current time instead of failing.
type DateAdapter struct {
	Layout string
	Now    func() time.Time
	Logger *zap.Logger
}

var _ Adapter = (*DateAdapter)(nil)

func (a *DateAdapter) Type() reflect.Type { return reflect.TypeFor[time.Time]() }

func (a *DateAdapter) Encode(v reflect.Value) (any, error) {
	t, ok := v.Interface().(time.Time)
	if !ok {
		return nil, fmt.Errorf("date adapter cannot encode %s", v.Type())
	}
	return t.Format(a.Layout), nil
}

func (a *DateAdapter) Decode(node any) (reflect.Value, error) {
	s, ok := node.(string)
	if ok {
		t, err := time.Parse(a.Layout, s)
		if err == nil {
			return reflect.ValueOf(t), nil
		}
		a.logger().Debug("unparsable date, using current time",
			zap.String("value", s), zap.String("layout", a.Layout), zap.Error(err))
	} else {
		a.logger().Debug("date is not a string, using current time", zap.Any("value", node))
	}
	if a.Now == nil {
		return reflect.ValueOf(time.Now()), nil
	}
	return reflect.ValueOf(a.Now()), nil
}

func (a *DateAdapter) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func builtins() []Adapter {
	return []Adapter{
		Func(encodeDuration, decodeDuration),
		Func(encodeUUID, decodeUUID),
		SectionAdapter(),
		Func(func(b *atomic.Bool) (any, error) { return b.Load(), nil },
			func(n any) (*atomic.Bool, error) {
				b, ok := n.(bool)
				if !ok {
					return nil, fmt.Errorf("expected a bool, got %T", n)
				}
				return atomic.NewBool(b), nil
			}),
		Func(func(i *atomic.Int32) (any, error) { return i.Load(), nil },
			func(n any) (*atomic.Int32, error) {
				i, err := Int(n, math.MinInt32, math.MaxInt32)
				if err != nil {
					return nil, err
				}
				return atomic.NewInt32(int32(i)), nil
			}),
		Func(func(i *atomic.Int64) (any, error) { return i.Load(), nil },
			func(n any) (*atomic.Int64, error) {
				i, err := Int(n, math.MinInt64, math.MaxInt64)
				if err != nil {
					return nil, err
				}
				return atomic.NewInt64(i), nil
			}),
		Func(func(u *atomic.Uint32) (any, error) { return u.Load(), nil },
			func(n any) (*atomic.Uint32, error) {
				u, err := Uint(n, math.MaxUint32)
				if err != nil {
					return nil, err
				}
				return atomic.NewUint32(uint32(u)), nil
			}),
		Func(func(u *atomic.Uint64) (any, error) { return u.Load(), nil },
			func(n any) (*atomic.Uint64, error) {
				u, err := Uint(n, math.MaxUint64)
				if err != nil {
					return nil, err
				}
				return atomic.NewUint64(u), nil
			}),
		Func(func(f *atomic.Float64) (any, error) { return f.Load(), nil },
			func(n any) (*atomic.Float64, error) {
				f, err := Float(n)
				if err != nil {
					return nil, err
				}
				return atomic.NewFloat64(f), nil
			}),
		Func(func(s *atomic.String) (any, error) { return s.Load(), nil },
			func(n any) (*atomic.String, error) {
				s, err := String(n)
				if err != nil {
					return nil, err
				}
				return atomic.NewString(s), nil
			}),
		Func(func(d *atomic.Duration) (any, error) { return encodeDuration(d.Load()) },
			func(n any) (*atomic.Duration, error) {
				d, err := decodeDuration(n)
				if err != nil {
					return nil, err
				}
				return atomic.NewDuration(d), nil
			}),
		Func(encodeInt32Array, decodeInt32Array),
		Func(encodeInt64Array, decodeInt64Array),
	}
}

func encodeDuration(d time.Duration) (any, error) { return d.String(), nil }

func decodeDuration(n any) (time.Duration, error) {
	s, err := String(n)
	if err != nil {
		return 0, err
	}
	return time.ParseDuration(s)
}

func encodeUUID(id uuid.UUID) (any, error) { return id.String(), nil }

func decodeUUID(n any) (uuid.UUID, error) {
	s, err := String(n)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(s)
}

// SectionAdapter passes sections through. Encoding copies the section so the
// tree never aliases a value held by the encoded object.
func SectionAdapter() Adapter {
	return Func(
		func(s *section.Section) (any, error) { return s.Clone(), nil },
		func(n any) (*section.Section, error) {
			s, ok := n.(*section.Section)
			if !ok {
				return nil, fmt.Errorf("expected a section, got %T", n)
			}
			return s, nil
		})
}

func encodeInt32Array(a []*atomic.Int32) (any, error) {
	seq := make([]any, len(a))
	for i, v := range a {
		seq[i] = v.Load()
	}
	return seq, nil
}

func decodeInt32Array(n any) ([]*atomic.Int32, error) {
	seq, ok := n.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence, got %T", n)
	}
	out := make([]*atomic.Int32, len(seq))
	for i, e := range seq {
		v, err := Int(e, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = atomic.NewInt32(int32(v))
	}
	return out, nil
}

func encodeInt64Array(a []*atomic.Int64) (any, error) {
	seq := make([]any, len(a))
	for i, v := range a {
		seq[i] = v.Load()
	}
	return seq, nil
}

func decodeInt64Array(n any) ([]*atomic.Int64, error) {
	seq, ok := n.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence, got %T", n)
	}
	out := make([]*atomic.Int64, len(seq))
	for i, e := range seq {
		v, err := Int(e, math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = atomic.NewInt64(v)
	}
	return out, nil
}

// Int returns an integer node as int64, checking it lies in [lo, hi].
func Int(n any, lo, hi int64) (int64, error) {
	v := reflect.ValueOf(n)
	var i int64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i = v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := v.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d overflows int64", u)
		}
		i = int64(u)
	default:
		return 0, fmt.Errorf("expected an integer, got %T", n)
	}
	if i < lo || i > hi {
		return 0, fmt.Errorf("integer %d out of range [%d, %d]", i, lo, hi)
	}
	return i, nil
}

// Uint returns a non-negative integer node as uint64, checking it is at
// most hi.
func Uint(n any, hi uint64) (uint64, error) {
	v := reflect.ValueOf(n)
	var u uint64
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i < 0 {
			return 0, fmt.Errorf("integer %d is negative", i)
		}
		u = uint64(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u = v.Uint()
	default:
		return 0, fmt.Errorf("expected an integer, got %T", n)
	}
	if u > hi {
		return 0, fmt.Errorf("integer %d out of range [0, %d]", u, hi)
	}
	return u, nil
}

// Float returns a numeric node as float64.
func Float(n any) (float64, error) {
	v := reflect.ValueOf(n)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", n)
}
