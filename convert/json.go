package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
)

// FromJSON reads a JSON document keeping object key order. Numbers
// without a fraction or exponent that fit in an int64 are integer-class.
// Repeated keys keep their first position and last value.
func FromJSON(d []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(d))
	dec.UseNumber()
	node, err := jsonValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrConvert, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: json: trailing data at offset %d", ErrConvert, dec.InputOffset())
	}
	return node, nil
}

func jsonValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch x := tok.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case json.Number:
		return jsonNumber(x)
	case json.Delim:
		switch x {
		case '[':
			res := ir.FromSlice(nil)
			for dec.More() {
				v, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				res.Append(v)
			}
			_, err := dec.Token()
			return res, err
		case '{':
			res := ir.FromKeyVals(nil)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				v, err := jsonValue(dec)
				if err != nil {
					return nil, err
				}
				res.Put(kt.(string), v)
			}
			_, err := dec.Token()
			return res, err
		}
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

func jsonNumber(n json.Number) (*ir.Node, error) {
	if i, err := n.Int64(); err == nil {
		return ir.FromInt(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, err
	}
	return ir.FromFloat(f), nil
}

// ToJSON writes node as compact JSON keeping object key order.
func ToJSON(node *ir.Node) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := writeJSON(buf, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, node *ir.Node) error {
	if node == nil {
		return fmt.Errorf("%w: nil node", encode.ErrUnrepresentable)
	}
	switch node.Type {
	case ir.NullType:
		buf.WriteString("null")
	case ir.BoolType:
		buf.WriteString(strconv.FormatBool(node.Bool))
	case ir.NumberType:
		s, err := jsonNumberString(node)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case ir.StringType:
		writeJSONString(buf, node.String)
	case ir.ArrayType:
		buf.WriteByte('[')
		for i, v := range node.Values {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, v); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case ir.ObjectType:
		if len(node.Fields) != len(node.Values) {
			return fmt.Errorf("%w: %d keys for %d values", encode.ErrUnrepresentable, len(node.Fields), len(node.Values))
		}
		buf.WriteByte('{')
		for i, f := range node.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if f.Type != ir.StringType {
				return fmt.Errorf("%w: %s key", encode.ErrUnrepresentable, f.Type)
			}
			writeJSONString(buf, f.String)
			buf.WriteByte(':')
			if err := writeJSON(buf, node.Values[i]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("%w: type %s", encode.ErrUnrepresentable, node.Type)
	}
	return nil
}

func jsonNumberString(node *ir.Node) (string, error) {
	if node.Int64 != nil {
		return strconv.FormatInt(*node.Int64, 10), nil
	}
	f := node.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", encode.ErrUnrepresentable, f)
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// encoding a string cannot fail
	_ = enc.Encode(s)
	buf.Truncate(buf.Len() - 1)
}
