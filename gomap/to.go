package gomap

import (
	"cmp"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"

	"github.com/signadot/xton-format/go-xton/ir"
)

// IRMarshaler is implemented by types that build their own node.
type IRMarshaler interface {
	ToIR() (*ir.Node, error)
}

var (
	irMarshalerType   = reflect.TypeFor[IRMarshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	nodePtrType       = reflect.TypeFor[*ir.Node]()
)

// ToIR converts a Go value to a node.
//
// Integers become integer-class numbers and floats float-class ones.
// Unsigned values above math.MaxInt64 do not fit an integer-class number
// and become the nearest float64, so their low digits are lost.
// Map entries are sorted by key; struct fields keep their declaration
// order. Values with no XTon form fail with *UnsupportedTypeError.
func ToIR(v any, opts ...MapOption) (*ir.Node, error) {
	m := &mapper{
		cfg:     newMapConfig(opts),
		visited: map[uintptr]string{},
	}
	return m.toIR(reflect.ValueOf(v), "")
}

type mapper struct {
	cfg     *mapConfig
	visited map[uintptr]string
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func (m *mapper) enter(ptr uintptr, path string) error {
	if prev, seen := m.visited[ptr]; seen {
		return &MarshalError{
			FieldPath: path,
			Message:   fmt.Sprintf("circular reference to %q", prev),
			Err:       ErrCycle,
		}
	}
	m.visited[ptr] = path
	return nil
}

func (m *mapper) toIR(val reflect.Value, path string) (*ir.Node, error) {
	if !val.IsValid() {
		return ir.Null(), nil
	}
	typ := val.Type()
	if typ == nodePtrType {
		if val.IsNil() {
			return ir.Null(), nil
		}
		return val.Interface().(*ir.Node).Clone(), nil
	}
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return ir.Null(), nil
		}
	}
	if node, ok, err := m.marshaler(val, path); ok {
		return node, err
	}

	switch typ.Kind() {
	case reflect.Pointer:
		if err := m.enter(val.Pointer(), path); err != nil {
			return nil, err
		}
		defer delete(m.visited, val.Pointer())
		return m.toIR(val.Elem(), path)

	case reflect.Interface:
		return m.toIR(val.Elem(), path)

	case reflect.String:
		return ir.FromString(val.String()), nil

	case reflect.Bool:
		return ir.FromBool(val.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.FromInt(val.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := val.Uint()
		if u > math.MaxInt64 {
			// nearest float64; the encoder prints its shortest form
			return ir.FromFloat(float64(u)), nil
		}
		return ir.FromInt(int64(u)), nil

	case reflect.Float32:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(val.Float(), 'g', -1, 32), 64)
		return ir.FromFloat(f), nil

	case reflect.Float64:
		return ir.FromFloat(val.Float()), nil

	case reflect.Slice:
		if val.IsNil() {
			return ir.Null(), nil
		}
		if val.Len() > 0 {
			ptr := val.Pointer()
			if err := m.enter(ptr, path); err != nil {
				return nil, err
			}
			defer delete(m.visited, ptr)
		}
		return m.slice(val, path)

	case reflect.Array:
		return m.slice(val, path)

	case reflect.Map:
		if val.IsNil() {
			return ir.Null(), nil
		}
		if err := m.enter(val.Pointer(), path); err != nil {
			return nil, err
		}
		defer delete(m.visited, val.Pointer())
		return m.mapValue(val, path)

	case reflect.Struct:
		return m.structValue(val, path)
	}
	return nil, &UnsupportedTypeError{FieldPath: path, Type: typ}
}

// marshaler handles IRMarshaler and encoding.TextMarshaler.
func (m *mapper) marshaler(val reflect.Value, path string) (*ir.Node, bool, error) {
	typ := val.Type()
	if typ.Kind() != reflect.Pointer && !typ.Implements(irMarshalerType) && !typ.Implements(textMarshalerType) {
		pt := reflect.PointerTo(typ)
		if !pt.Implements(irMarshalerType) && !pt.Implements(textMarshalerType) {
			return nil, false, nil
		}
		if val.CanAddr() {
			val = val.Addr()
		} else {
			p := reflect.New(typ)
			p.Elem().Set(val)
			val = p
		}
	}
	switch x := val.Interface().(type) {
	case IRMarshaler:
		node, err := x.ToIR()
		if err != nil {
			return nil, true, &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		if node == nil {
			node = ir.Null()
		}
		return node, true, nil
	case encoding.TextMarshaler:
		text, err := x.MarshalText()
		if err != nil {
			return nil, true, &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		return ir.FromString(string(text)), true, nil
	}
	return nil, false, nil
}

func (m *mapper) slice(val reflect.Value, path string) (*ir.Node, error) {
	n := val.Len()
	elts := make([]*ir.Node, n)
	for i := range n {
		node, err := m.toIR(val.Index(i), indexPath(path, i))
		if err != nil {
			return nil, err
		}
		elts[i] = node
	}
	return ir.FromSlice(elts), nil
}

func (m *mapper) mapValue(val reflect.Value, path string) (*ir.Node, error) {
	type entry struct {
		key string
		val reflect.Value
	}
	entries := make([]entry, 0, val.Len())
	iter := val.MapRange()
	for iter.Next() {
		key, err := mapKey(iter.Key(), path)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key, iter.Value()})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Compare(a.key, b.key)
	})
	kvs := make([]ir.KeyVal, len(entries))
	for i, e := range entries {
		node, err := m.toIR(e.val, joinPath(path, e.key))
		if err != nil {
			return nil, err
		}
		kvs[i] = ir.KeyVal{Key: e.key, Val: node}
	}
	return ir.FromKeyVals(kvs), nil
}

func mapKey(k reflect.Value, path string) (string, error) {
	if k.Kind() == reflect.String {
		return k.String(), nil
	}
	if tm, ok := k.Interface().(encoding.TextMarshaler); ok {
		text, err := tm.MarshalText()
		if err != nil {
			return "", &MarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		return string(text), nil
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), nil
	}
	return "", &UnsupportedTypeError{FieldPath: path, Type: k.Type()}
}

func (m *mapper) structValue(val reflect.Value, path string) (*ir.Node, error) {
	fields := structFields(val.Type(), m.cfg.tagName)
	kvs := make([]ir.KeyVal, 0, len(fields))
	for _, f := range fields {
		fv, ok := fieldByIndex(val, f.index, false)
		if !ok {
			continue
		}
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		node, err := m.toIR(fv, joinPath(path, f.name))
		if err != nil {
			return nil, err
		}
		kvs = append(kvs, ir.KeyVal{Key: f.name, Val: node})
	}
	return ir.FromKeyVals(kvs), nil
}
