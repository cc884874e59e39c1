package cfgtree

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotPointer is returned when a decode target is not a non-nil pointer.
var ErrNotPointer = errors.New("cfgtree: decode target must be a non-nil pointer")

// ErrMaxDepth is returned when a value nests deeper than the configured
// maximum depth.
var ErrMaxDepth = errors.New("cfgtree: reached max recursion depth")

// A StructureError reports a Go type that cannot be encoded or decoded: it
// has no construction path, a malformed field declaration or an adapter
// producing the wrong type.
type StructureError struct {
	Type reflect.Type
	Msg  string
	Err  error
}

func (e *StructureError) Error() string {
	msg := "cfgtree: " + e.Msg
	if e.Type != nil {
		msg = "cfgtree: type " + e.Type.String() + ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StructureError) Unwrap() error { return e.Err }

// A ValidationError reports a required field whose key is absent from the
// section being decoded.
type ValidationError struct {
	// Field is the persisted key of the missing field.
	Field string
	// Path is the dotted key path of the enclosing section, empty at the
	// root.
	Path string
}

func (e *ValidationError) Error() string {
	msg := "cfgtree: could not find the required field, " + e.Field
	if e.Path != "" {
		msg += ", in section " + e.Path
	}
	return msg
}

// A TypeError reports a node that cannot be assigned to its target Go type.
type TypeError struct {
	// Value describes the offending node, e.g. "string" or "section".
	Value string
	Type  reflect.Type
	Path  string
}

func (e *TypeError) Error() string {
	msg := fmt.Sprintf("cfgtree: cannot decode %s into Go value of type %s", e.Value, e.Type)
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg
}

// An AdapterError represents an error returned by a registered adapter.
type AdapterError struct {
	Type reflect.Type
	Path string
	Err  error
}

func (e *AdapterError) Error() string {
	msg := "cfgtree: adapter for type " + e.Type.String()
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg + ": " + e.Err.Error()
}

func (e *AdapterError) Unwrap() error { return e.Err }
