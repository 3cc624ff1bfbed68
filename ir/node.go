package ir

import (
	"maps"
	"slices"
	"strconv"
)

// Node is a single XTon value. Exactly the fields matching Type are
// meaningful: Fields and Values for objects (one key node per value),
// Values for arrays, and String, Bool, Float64 or Int64 for scalars.
//
// A number carries its class: Int64 set means integer-class, Float64 set
// means float-class. The class only affects encoding.
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	String  string
	Bool    bool
	Float64 *float64
	Int64   *int64
}

func (y *Node) Clone() *Node {
	res := &Node{}
	return y.CloneTo(res)
}

func (y *Node) CloneTo(dst *Node) *Node {
	dst.Parent = y.Parent
	dst.ParentIndex = y.ParentIndex
	dst.ParentField = y.ParentField
	dst.Type = y.Type
	dst.Values = nil
	dst.Fields = nil
	if y.Values != nil {
		dst.Values = make([]*Node, len(y.Values))
	}
	if y.Fields != nil {
		dst.Fields = make([]*Node, len(y.Fields))
	}
	for i, yv := range y.Values {
		dstI := yv.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dst.Values[i] = dstI
	}
	for i, yf := range y.Fields {
		dstI := yf.CloneTo(&Node{})
		dstI.Parent = dst
		dstI.ParentIndex = i
		dstI.ParentField = yf.String
		dst.Fields[i] = dstI
	}
	dst.String = y.String
	dst.Bool = y.Bool
	dst.Float64 = nil
	dst.Int64 = nil
	if y.Float64 != nil {
		f := *y.Float64
		dst.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		dst.Int64 = &i
	}
	return dst
}

// Float returns the numeric value of a number node regardless of its
// class.
func (y *Node) Float() float64 {
	switch {
	case y.Float64 != nil:
		return *y.Float64
	case y.Int64 != nil:
		return float64(*y.Int64)
	default:
		return 0
	}
}

func FromString(v string) *Node {
	return FromStringAt(&Node{}, v)
}

func FromStringAt(p *Node, v string) *Node {
	p.Type = StringType
	p.String = v
	return p
}

func FromInt(v int64) *Node {
	return &Node{
		Type:  NumberType,
		Int64: &v,
	}
}

func FromFloat(f float64) *Node {
	return &Node{
		Type:    NumberType,
		Float64: &f,
	}
}

func FromBool(v bool) *Node {
	return &Node{
		Type: BoolType,
		Bool: v,
	}
}

func Null() *Node {
	return &Node{Type: NullType}
}

func ToMap(node *Node) map[string]*Node {
	if node.Type != ObjectType {
		return nil
	}
	res := make(map[string]*Node, len(node.Fields))
	for i := range node.Fields {
		res[node.Fields[i].String] = node.Values[i]
	}
	return res
}

// FromMap builds an object from a Go map. Go maps are unordered so the
// entries are sorted by key.
func FromMap(yMap map[string]*Node) *Node {
	keys := slices.Sorted(maps.Keys(yMap))
	kvs := make([]KeyVal, len(keys))
	for i, key := range keys {
		kvs[i] = KeyVal{Key: key, Val: yMap[key]}
	}
	return FromKeyVals(kvs)
}

type KeyVal struct {
	Key string
	Val *Node
}

func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{}
	return FromKeyValsAt(res, kvs)
}

func FromKeyValsAt(res *Node, kvs []KeyVal) *Node {
	res.Type = ObjectType
	res.Fields = make([]*Node, 0, len(kvs))
	res.Values = make([]*Node, 0, len(kvs))
	for i := range kvs {
		res.Put(kvs[i].Key, kvs[i].Val)
	}
	return res
}

func FromSlice(ySlice []*Node) *Node {
	res := &Node{
		Type:   ArrayType,
		Values: make([]*Node, 0, len(ySlice)),
	}
	for _, y := range ySlice {
		res.Append(y)
	}
	return res
}

// Append adds v as the last element of the array y.
func (y *Node) Append(v *Node) {
	v.Parent = y
	v.ParentIndex = len(y.Values)
	v.ParentField = ""
	y.Values = append(y.Values, v)
}

// Put sets field to v in the object y. An existing field keeps its
// position and has its value replaced; a new field is appended.
func (y *Node) Put(field string, v *Node) {
	for i, f := range y.Fields {
		if f.String != field {
			continue
		}
		v.Parent = y
		v.ParentIndex = i
		v.ParentField = field
		y.Values[i] = v
		return
	}
	i := len(y.Fields)
	key := FromString(field)
	key.Parent = y
	key.ParentIndex = i
	key.ParentField = field
	v.Parent = y
	v.ParentIndex = i
	v.ParentField = field
	y.Fields = append(y.Fields, key)
	y.Values = append(y.Values, v)
}

// Index returns the position of field in the object y, or -1.
func (y *Node) Index(field string) int {
	for i, f := range y.Fields {
		if f.String == field {
			return i
		}
	}
	return -1
}

func Get(y *Node, field string) *Node {
	if i := y.Index(field); i >= 0 {
		return y.Values[i]
	}
	return nil
}

func (y *Node) Visit(f func(y *Node, isPost bool) (bool, error)) error {
	dive, err := f(y, false)
	if err != nil {
		return err
	}
	if dive {
		for _, yy := range y.Values {
			if err := yy.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(y, true); err != nil {
		return err
	}
	return nil
}

func (y *Node) Root() *Node {
	res := y
	for res.Parent != nil {
		res = res.Parent
	}
	return res
}

// NumberString renders the number without class decoration, for
// messages and hovers.
func (y *Node) NumberString() string {
	switch {
	case y.Int64 != nil:
		return strconv.FormatInt(*y.Int64, 10)
	case y.Float64 != nil:
		return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
	default:
		return ""
	}
}
