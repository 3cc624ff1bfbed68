package gomap

import (
	"fmt"
	"reflect"

	"github.com/signadot/xton-format/go-xton/encode"
)

// ErrCycle reports a Go value that refers to itself through pointers,
// maps or slices.
var ErrCycle = fmt.Errorf("%w in go value", encode.ErrCycle)

// MarshalError represents an error during marshaling
type MarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError is returned for Go values with no XTon form, such
// as channels, functions and complex numbers. It wraps
// encode.ErrUnrepresentable.
type UnsupportedTypeError struct {
	FieldPath string
	Type      reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("%s: unsupported type %s at %s", encode.ErrUnrepresentable, e.Type, e.FieldPath)
	}
	return fmt.Sprintf("%s: unsupported type %s", encode.ErrUnrepresentable, e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error {
	return encode.ErrUnrepresentable
}

// UnmarshalError represents an error during unmarshaling
type UnmarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("unmarshal error: %s", e.Message)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}

// TypeError represents a type mismatch error
type TypeError struct {
	FieldPath string
	Expected  string
	Actual    string
	Message   string
}

func (e *TypeError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
	}
	if e.FieldPath != "" {
		return fmt.Sprintf("type error at %s: %s", e.FieldPath, msg)
	}
	return fmt.Sprintf("type error: %s", msg)
}
