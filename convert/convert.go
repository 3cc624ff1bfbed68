package convert

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signadot/xton-format/go-xton/debug"
	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/format"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
)

// Decode reads a document in format f. Parse options apply to XTon input
// only.
func Decode(d []byte, f format.Format, opts ...parse.ParseOption) (*ir.Node, error) {
	var (
		node *ir.Node
		err  error
	)
	switch f {
	case format.XTonFormat:
		node, err = parse.Parse(d, opts...)
	case format.JSONFormat:
		node, err = FromJSON(d)
	case format.YAMLFormat:
		node, err = FromYAML(d)
	case format.TOMLFormat:
		node, err = FromTOML(d)
	default:
		return nil, fmt.Errorf("%w: %d", format.ErrBadFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if debug.Convert() {
		debug.Logf("convert: decoded %s: %s\n", f, debug.XTon{Node: node})
	}
	return node, nil
}

// Encode writes node to w in format f. Encode options apply to XTon
// output only. Nothing is written when encoding fails.
func Encode(node *ir.Node, w io.Writer, f format.Format, opts ...encode.EncodeOption) error {
	var (
		d   []byte
		err error
	)
	switch f {
	case format.XTonFormat:
		buf := bytes.NewBuffer(nil)
		err = encode.Encode(node, buf, opts...)
		d = buf.Bytes()
	case format.JSONFormat:
		d, err = ToJSON(node)
	case format.YAMLFormat:
		d, err = ToYAML(node)
	case format.TOMLFormat:
		d, err = ToTOML(node)
	default:
		return fmt.Errorf("%w: %d", format.ErrBadFormat, f)
	}
	if err != nil {
		return err
	}
	if debug.Convert() {
		debug.Logf("convert: encoded %s (%d bytes)\n", f, len(d))
	}
	_, err = w.Write(d)
	return err
}

// Convert re-encodes a document from one format to another.
func Convert(d []byte, from, to format.Format) ([]byte, error) {
	node, err := Decode(d, from)
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, to); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
