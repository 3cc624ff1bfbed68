package xton

import (
	"errors"
	"iter"

	"github.com/signadot/xton-format/go-xton/debug"
	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/gomap"
)

// Encoder turns Go values into XTon text. Its fields are configuration
// only; an Encoder may be shared between goroutines.
type Encoder struct {
	// Default converts a value that cannot be encoded into one that can.
	// It is called once, with the whole value, when encoding fails with
	// an error wrapping encode.ErrUnrepresentable. If the converted value
	// fails as well the original error is returned.
	Default func(v any) (any, error)

	// MapOptions are passed to gomap.ToIR.
	MapOptions []gomap.MapOption
}

var DefaultEncoder = &Encoder{}

func (e *Encoder) Encode(v any) (string, error) {
	s, err := e.encode(v)
	if err == nil || e.Default == nil || !errors.Is(err, encode.ErrUnrepresentable) {
		return s, err
	}
	if debug.Encode() {
		debug.Logf("encode: calling default hook for %T: %v\n", v, err)
	}
	alt, hookErr := e.Default(v)
	if hookErr != nil {
		return "", err
	}
	s, altErr := e.encode(alt)
	if altErr != nil {
		return "", err
	}
	return s, nil
}

func (e *Encoder) encode(v any) (string, error) {
	node, err := gomap.ToIR(v, e.MapOptions...)
	if err != nil {
		return "", err
	}
	s, err := encode.String(node)
	if err != nil {
		return "", err
	}
	if debug.Encode() {
		debug.Logf("encode %T: %s\n", v, s)
	}
	return s, nil
}

// IterEncode yields the encoding of v. XTon output is produced in one
// piece, so the sequence has a single element.
func (e *Encoder) IterEncode(v any) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		yield(e.Encode(v))
	}
}
