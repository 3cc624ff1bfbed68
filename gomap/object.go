package gomap

import (
	"fmt"

	"github.com/signadot/xton-format/go-xton/ir"
)

// Member is one entry of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is an ordered map. Unlike a Go map it keeps its entries in the
// order they were set or decoded.
type Object []Member

func (o Object) Get(key string) (any, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set replaces the value of key in place, or appends a new entry.
func (o *Object) Set(key string, v any) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: v})
}

func (o Object) Keys() []string {
	res := make([]string, len(o))
	for i, m := range o {
		res[i] = m.Key
	}
	return res
}

func (o Object) ToIR() (*ir.Node, error) {
	kvs := make([]ir.KeyVal, len(o))
	for i, m := range o {
		node, err := ToIR(m.Value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", m.Key, err)
		}
		kvs[i] = ir.KeyVal{Key: m.Key, Val: node}
	}
	return ir.FromKeyVals(kvs), nil
}

// FromIR decodes an object node; nested objects become Objects too.
func (o *Object) FromIR(node *ir.Node) error {
	if node.Type == ir.NullType {
		*o = nil
		return nil
	}
	if node.Type != ir.ObjectType {
		return &TypeError{Expected: "Object", Actual: node.Type.String()}
	}
	*o = ToOrdered(node).(Object)
	return nil
}

// ToOrdered is ToAny with objects returned as Object.
func ToOrdered(node *ir.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = ToOrdered(v)
		}
		return res
	case ir.ObjectType:
		res := make(Object, len(node.Fields))
		for i, f := range node.Fields {
			res[i] = Member{Key: f.String, Value: ToOrdered(node.Values[i])}
		}
		return res
	}
	return ToAny(node)
}
