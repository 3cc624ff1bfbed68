package encode

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/token"
)

type EncState struct {
	buf      []byte
	depth    int
	maxDepth int
	onPath   map[*ir.Node]bool

	Color func(ir.Type, ColorAttr, string) string
}

// Encode writes node as XTon to w. The output has no trailing newline.
// Nothing is written if node cannot be encoded.
func Encode(node *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		maxDepth: DefaultMaxDepth,
		onPath:   map[*ir.Node]bool{},
	}
	for _, opt := range opts {
		opt(es)
	}
	if err := encode(node, es); err != nil {
		return err
	}
	_, err := w.Write(es.buf)
	return err
}

// String returns the encoding of node.
func String(node *ir.Node, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (es *EncState) write(t ir.Type, a ColorAttr, s string) {
	if es.Color != nil {
		s = es.Color(t, a, s)
	}
	es.buf = append(es.buf, s...)
}

func encode(node *ir.Node, es *EncState) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", ErrUnrepresentable)
	}
	switch node.Type {
	case ir.NullType:
		es.write(ir.NullType, ValueColor, token.LitNone)
	case ir.BoolType:
		v := token.LitFalse
		if node.Bool {
			v = token.LitTrue
		}
		es.write(ir.BoolType, ValueColor, v)
	case ir.NumberType:
		v, err := formatNumber(node)
		if err != nil {
			return err
		}
		es.write(ir.NumberType, ValueColor, v)
	case ir.StringType:
		es.write(ir.StringType, ValueColor, Text(node.String))
	case ir.ArrayType:
		return encodeContainer(node, es, encodeArray)
	case ir.ObjectType:
		return encodeContainer(node, es, encodeObject)
	default:
		return fmt.Errorf("%w: unknown node type %d at %s", ErrUnrepresentable, node.Type, node.Path())
	}
	return nil
}

func encodeContainer(node *ir.Node, es *EncState, f func(*ir.Node, *EncState) error) error {
	if es.onPath[node] {
		return ErrCycle
	}
	if es.depth >= es.maxDepth {
		return fmt.Errorf("%w: more than %d levels", ErrDepth, es.maxDepth)
	}
	es.onPath[node] = true
	es.depth++
	defer func() {
		es.depth--
		delete(es.onPath, node)
	}()
	return f(node, es)
}

func formatNumber(node *ir.Node) (string, error) {
	switch {
	case node.Int64 != nil:
		return strconv.FormatInt(*node.Int64, 10), nil
	case node.Float64 != nil:
		f := *node.Float64
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %v", ErrUnrepresentable, f)
		}
		v := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(v, ".") {
			v += ".0"
		}
		return v, nil
	default:
		return "", fmt.Errorf("%w: number without value", ErrUnrepresentable)
	}
}

// Text returns s as a bare token when possible, quoted otherwise.
func Text(s string) string {
	if token.NeedsQuote(s) {
		return token.Quote(s)
	}
	return s
}

func encodeArray(node *ir.Node, es *EncState) error {
	es.write(ir.ArrayType, SepColor, "[")
	for i, v := range node.Values {
		if i > 0 {
			es.write(ir.ArrayType, SepColor, "/")
		}
		if err := encode(v, es); err != nil {
			return err
		}
	}
	es.write(ir.ArrayType, SepColor, "]")
	return nil
}

func encodeObject(node *ir.Node, es *EncState) error {
	if len(node.Fields) != len(node.Values) {
		return fmt.Errorf("%w: object at %s has %d keys and %d values",
			ErrUnrepresentable, node.Path(), len(node.Fields), len(node.Values))
	}
	keys := make([]string, len(node.Fields))
	seen := make(map[string]bool, len(node.Fields))
	for i, f := range node.Fields {
		if f == nil || f.Type != ir.StringType {
			return fmt.Errorf("%w: non text key in object at %s", ErrUnrepresentable, node.Path())
		}
		if seen[f.String] {
			return fmt.Errorf("%w: duplicate key %q in object at %s", ErrUnrepresentable, f.String, node.Path())
		}
		seen[f.String] = true
		keys[i] = f.String
	}
	sugar := len(keys) == 1 && !token.NeedsQuote(keys[0])
	if !sugar {
		es.write(ir.ObjectType, SepColor, "<")
	}
	for i, k := range keys {
		if i > 0 {
			es.write(ir.ObjectType, SepColor, "/")
		}
		es.write(ir.ObjectType, FieldColor, Text(k))
		es.write(ir.ObjectType, SepColor, "-")
		if err := encode(node.Values[i], es); err != nil {
			return err
		}
	}
	if !sugar {
		es.write(ir.ObjectType, SepColor, ">")
	}
	return nil
}
