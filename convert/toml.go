package convert

import (
	"bytes"
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
)

// FromTOML reads a TOML document. Keys appear in the order the document
// defines them. Date and time values become strings in their TOML form.
func FromTOML(d []byte) (*ir.Node, error) {
	var m map[string]any
	md, err := toml.Decode(string(d), &m)
	if err != nil {
		return nil, fmt.Errorf("%w: toml: %w", ErrConvert, err)
	}
	order := map[string]int{}
	for i, k := range md.Keys() {
		p := strings.Join(k, "\x00")
		if _, ok := order[p]; !ok {
			order[p] = i
		}
	}
	t := &tomlReader{order: order}
	return t.table(m, nil)
}

type tomlReader struct {
	order map[string]int
}

func (t *tomlReader) rank(path []string, key string) int {
	p := strings.Join(append(slices.Clone(path), key), "\x00")
	if i, ok := t.order[p]; ok {
		return i
	}
	return math.MaxInt
}

func (t *tomlReader) table(m map[string]any, path []string) (*ir.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(t.rank(path, a), t.rank(path, b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	res := ir.FromKeyVals(nil)
	for _, k := range keys {
		node, err := t.value(m[k], append(slices.Clone(path), k))
		if err != nil {
			return nil, err
		}
		res.Put(k, node)
	}
	return res, nil
}

func (t *tomlReader) value(v any, path []string) (*ir.Node, error) {
	switch x := v.(type) {
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case int64:
		return ir.FromInt(x), nil
	case float64:
		return ir.FromFloat(x), nil
	case time.Time:
		return ir.FromString(tomlTime(x)), nil
	case map[string]any:
		return t.table(x, path)
	case []map[string]any:
		res := ir.FromSlice(nil)
		for _, e := range x {
			node, err := t.table(e, path)
			if err != nil {
				return nil, err
			}
			res.Append(node)
		}
		return res, nil
	case []any:
		res := ir.FromSlice(nil)
		for _, e := range x {
			node, err := t.value(e, path)
			if err != nil {
				return nil, err
			}
			res.Append(node)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: toml: unsupported value %T at %s", ErrConvert, v, strings.Join(path, "."))
}

// tomlTime formats t the way TOML writes it. The decoder marks local
// dates and times with named zones.
func tomlTime(t time.Time) string {
	switch t.Location().String() {
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	}
	return t.Format(time.RFC3339Nano)
}

// ToTOML writes node, which must be an object, as a TOML document. TOML
// tables are written with sorted keys.
func ToTOML(node *ir.Node) ([]byte, error) {
	if node == nil || node.Type != ir.ObjectType {
		return nil, fmt.Errorf("%w: %w", encode.ErrUnrepresentable, ErrTOMLRoot)
	}
	v, err := toTOMLValue(node, "$")
	if err != nil {
		return nil, err
	}
	buf := bytes.NewBuffer(nil)
	if err := toml.NewEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("%w: toml: %w", ErrConvert, err)
	}
	return buf.Bytes(), nil
}

func toTOMLValue(node *ir.Node, path string) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil node at %s", encode.ErrUnrepresentable, path)
	}
	switch node.Type {
	case ir.NullType:
		return nil, fmt.Errorf("%w: %w at %s", encode.ErrUnrepresentable, ErrNoTOMLNull, path)
	case ir.BoolType:
		return node.Bool, nil
	case ir.StringType:
		return node.String, nil
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64, nil
		}
		return node.Float(), nil
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			x, err := toTOMLValue(v, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	case ir.ObjectType:
		if len(node.Fields) != len(node.Values) {
			return nil, fmt.Errorf("%w: %d keys for %d values", encode.ErrUnrepresentable, len(node.Fields), len(node.Values))
		}
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			x, err := toTOMLValue(node.Values[i], path+"."+f.String)
			if err != nil {
				return nil, err
			}
			res[f.String] = x
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: type %s", encode.ErrUnrepresentable, node.Type)
}
