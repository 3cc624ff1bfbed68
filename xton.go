package xton

import (
	"bytes"
	"io"

	"github.com/signadot/xton-format/go-xton/token"
)

// DecodeError is the error returned for malformed XTon text.
type DecodeError = token.DecodeError

// Marshal returns the XTon encoding of v using DefaultEncoder.
func Marshal(v any) ([]byte, error) {
	s, err := DefaultEncoder.Encode(v)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func MarshalString(v any) (string, error) {
	return DefaultEncoder.Encode(v)
}

// Unmarshal decodes d into the value p points to using DefaultDecoder.
func Unmarshal(d []byte, p any) error {
	return DefaultDecoder.DecodeInto(d, p)
}

func UnmarshalString(s string, p any) error {
	return DefaultDecoder.DecodeInto([]byte(s), p)
}

// Load reads all of r and decodes it into p. The grammar cannot be
// parsed from a partial buffer, so nothing is decoded before r is
// exhausted.
func Load(r io.Reader, p any) error {
	d, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return Unmarshal(d, p)
}

// Dump encodes v and writes the result to w in a single write.
func Dump(v any, w io.Writer) error {
	d, err := Marshal(v)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(d))
	return err
}

// Valid reports whether d is a well formed XTon document.
func Valid(d []byte) bool {
	_, err := DefaultDecoder.DecodeNode(d)
	return err == nil
}
