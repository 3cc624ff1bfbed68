package xton

import (
	"github.com/signadot/xton-format/go-xton/gomap"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
)

// Decoder turns XTon text into Go values. Like Encoder it holds only
// configuration.
type Decoder struct {
	// MaxDepth bounds nesting; zero selects parse.DefaultMaxDepth.
	MaxDepth      int
	DuplicateKeys parse.DuplicateKeys

	// MapOptions are passed to gomap.FromIR.
	MapOptions []gomap.MapOption
}

var DefaultDecoder = &Decoder{}

func (d *Decoder) parseOpts() []parse.ParseOption {
	return []parse.ParseOption{
		parse.ParseMaxDepth(d.MaxDepth),
		parse.ParseDuplicateKeys(d.DuplicateKeys),
	}
}

// Decode returns the generic Go form of s: nil, bool, float64, string,
// []any or map[string]any.
func (d *Decoder) Decode(s string) (any, error) {
	node, err := d.DecodeNode([]byte(s))
	if err != nil {
		return nil, err
	}
	return gomap.ToAny(node), nil
}

func (d *Decoder) DecodeNode(data []byte) (*ir.Node, error) {
	return parse.Parse(data, d.parseOpts()...)
}

// DecodeInto decodes data into the value p points to.
func (d *Decoder) DecodeInto(data []byte, p any) error {
	node, err := d.DecodeNode(data)
	if err != nil {
		return err
	}
	return gomap.FromIR(node, p, d.MapOptions...)
}

// RawDecode decodes the value at the start of s and returns it with the
// index where the unconsumed remainder of s begins.
func (d *Decoder) RawDecode(s string) (any, int, error) {
	node, n, err := parse.ParsePrefix([]byte(s), d.parseOpts()...)
	if err != nil {
		return nil, 0, err
	}
	return gomap.ToAny(node), n, nil
}
