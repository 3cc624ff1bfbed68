package convert

import (
	"fmt"
	"math"

	"github.com/goccy/go-yaml"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
)

// FromYAML reads a single YAML document keeping mapping key order.
// Non-string mapping keys are converted to their text form.
func FromYAML(d []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(d, &v, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrConvert, err)
	}
	node, err := fromYAMLValue(v)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrConvert, err)
	}
	return node, nil
}

func fromYAMLValue(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return ir.FromFloat(float64(x)), nil
		}
		return ir.FromInt(int64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	case []any:
		res := ir.FromSlice(nil)
		for _, e := range x {
			node, err := fromYAMLValue(e)
			if err != nil {
				return nil, err
			}
			res.Append(node)
		}
		return res, nil
	case yaml.MapSlice:
		res := ir.FromKeyVals(nil)
		for _, item := range x {
			node, err := fromYAMLValue(item.Value)
			if err != nil {
				return nil, err
			}
			res.Put(yamlKey(item.Key), node)
		}
		return res, nil
	case map[string]any:
		return fromYAMLMap(x)
	case fmt.Stringer:
		return ir.FromString(x.String()), nil
	}
	return nil, fmt.Errorf("unsupported yaml value %T", v)
}

func fromYAMLMap(m map[string]any) (*ir.Node, error) {
	nodes := make(map[string]*ir.Node, len(m))
	for k, v := range m {
		node, err := fromYAMLValue(v)
		if err != nil {
			return nil, err
		}
		nodes[k] = node
	}
	return ir.FromMap(nodes), nil
}

func yamlKey(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case nil:
		return "null"
	}
	return fmt.Sprint(k)
}

// ToYAML writes node as a block-style YAML document keeping object key
// order.
func ToYAML(node *ir.Node) ([]byte, error) {
	v, err := toYAMLValue(node)
	if err != nil {
		return nil, err
	}
	d, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrConvert, err)
	}
	return d, nil
}

func toYAMLValue(node *ir.Node) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: nil node", encode.ErrUnrepresentable)
	}
	switch node.Type {
	case ir.NullType:
		return nil, nil
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
			x, err := toYAMLValue(v)
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
		res := make(yaml.MapSlice, len(node.Fields))
		for i, f := range node.Fields {
			x, err := toYAMLValue(node.Values[i])
			if err != nil {
				return nil, err
			}
			res[i] = yaml.MapItem{Key: f.String, Value: x}
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: type %s", encode.ErrUnrepresentable, node.Type)
}
