package gomap

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/signadot/xton-format/go-xton/ir"
)

// IRUnmarshaler is implemented by types that decode themselves from a
// node.
type IRUnmarshaler interface {
	FromIR(*ir.Node) error
}

var (
	irUnmarshalerType   = reflect.TypeFor[IRUnmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// FromIR stores the value of node in the Go value p points to.
//
// A target of type any receives nil, bool, float64, string, []any or
// map[string]any, as ToAny returns.
func FromIR(node *ir.Node, p any, opts ...MapOption) error {
	if p == nil {
		return &UnmarshalError{Message: "destination value cannot be nil"}
	}
	val := reflect.ValueOf(p)
	if val.Kind() != reflect.Pointer {
		return &UnmarshalError{Message: fmt.Sprintf("destination must be a pointer, got %s", val.Type())}
	}
	if val.IsNil() {
		return &UnmarshalError{Message: "destination pointer cannot be nil"}
	}
	u := &unmapper{cfg: newMapConfig(opts)}
	return u.fromIR(node, val.Elem(), "")
}

type unmapper struct {
	cfg *mapConfig
}

func typeErr(path, expected string, node *ir.Node) error {
	return &TypeError{FieldPath: path, Expected: expected, Actual: node.Type.String()}
}

func (u *unmapper) fromIR(node *ir.Node, val reflect.Value, path string) error {
	if node == nil {
		return &UnmarshalError{FieldPath: path, Message: "node is nil"}
	}
	typ := val.Type()
	if typ == nodePtrType {
		val.Set(reflect.ValueOf(node.Clone()))
		return nil
	}
	if typ.Kind() == reflect.Pointer {
		if node.Type == ir.NullType && !typ.Implements(irUnmarshalerType) {
			val.Set(reflect.Zero(typ))
			return nil
		}
		if val.IsNil() {
			val.Set(reflect.New(typ.Elem()))
		}
		return u.fromIR(node, val.Elem(), path)
	}
	if done, err := u.unmarshaler(node, val, path); done {
		return err
	}
	if typ.Kind() == reflect.Interface {
		if typ.NumMethod() != 0 {
			return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("cannot decode into non empty interface %s", typ)}
		}
		if v := ToAny(node); v != nil {
			val.Set(reflect.ValueOf(v))
		} else {
			val.Set(reflect.Zero(typ))
		}
		return nil
	}
	if node.Type == ir.NullType {
		val.Set(reflect.Zero(typ))
		return nil
	}

	switch typ.Kind() {
	case reflect.Bool:
		if node.Type != ir.BoolType {
			return typeErr(path, "Bool", node)
		}
		val.SetBool(node.Bool)

	case reflect.String:
		if node.Type != ir.StringType {
			return typeErr(path, "String", node)
		}
		val.SetString(node.String)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if node.Type != ir.NumberType {
			return typeErr(path, "Number", node)
		}
		i, err := nodeInt(node, path)
		if err != nil {
			return err
		}
		if val.OverflowInt(i) {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("%d overflows %s", i, typ)}
		}
		val.SetInt(i)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if node.Type != ir.NumberType {
			return typeErr(path, "Number", node)
		}
		f := node.Float()
		if f < 0 || f != math.Trunc(f) || f >= math.MaxUint64 {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("%s does not fit %s", node.NumberString(), typ)}
		}
		n := uint64(f)
		if node.Int64 != nil {
			n = uint64(*node.Int64)
		}
		if val.OverflowUint(n) {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("%d overflows %s", n, typ)}
		}
		val.SetUint(n)

	case reflect.Float32, reflect.Float64:
		if node.Type != ir.NumberType {
			return typeErr(path, "Number", node)
		}
		f := node.Float()
		if val.OverflowFloat(f) {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("%v overflows %s", f, typ)}
		}
		val.SetFloat(f)

	case reflect.Slice:
		if node.Type != ir.ArrayType {
			return typeErr(path, "Array", node)
		}
		s := reflect.MakeSlice(typ, len(node.Values), len(node.Values))
		for i, v := range node.Values {
			if err := u.fromIR(v, s.Index(i), indexPath(path, i)); err != nil {
				return err
			}
		}
		val.Set(s)

	case reflect.Array:
		if node.Type != ir.ArrayType {
			return typeErr(path, "Array", node)
		}
		if len(node.Values) > val.Len() {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("%d elements do not fit %s", len(node.Values), typ)}
		}
		for i := range val.Len() {
			if i >= len(node.Values) {
				val.Index(i).Set(reflect.Zero(typ.Elem()))
				continue
			}
			if err := u.fromIR(node.Values[i], val.Index(i), indexPath(path, i)); err != nil {
				return err
			}
		}

	case reflect.Map:
		if node.Type != ir.ObjectType {
			return typeErr(path, "Object", node)
		}
		if val.IsNil() {
			val.Set(reflect.MakeMapWithSize(typ, len(node.Fields)))
		}
		for i, f := range node.Fields {
			k := reflect.New(typ.Key()).Elem()
			if err := setMapKey(k, f.String, path); err != nil {
				return err
			}
			v := reflect.New(typ.Elem()).Elem()
			if err := u.fromIR(node.Values[i], v, joinPath(path, f.String)); err != nil {
				return err
			}
			val.SetMapIndex(k, v)
		}

	case reflect.Struct:
		if node.Type != ir.ObjectType {
			return typeErr(path, "Object", node)
		}
		return u.structValue(node, val, path)

	default:
		return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported destination type %s", typ)}
	}
	return nil
}

func nodeInt(node *ir.Node, path string) (int64, error) {
	if node.Int64 != nil {
		return *node.Int64, nil
	}
	f := node.Float()
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, &TypeError{FieldPath: path, Message: fmt.Sprintf("%s is not an integer", node.NumberString())}
	}
	return int64(f), nil
}

func (u *unmapper) unmarshaler(node *ir.Node, val reflect.Value, path string) (bool, error) {
	if !val.CanAddr() {
		return false, nil
	}
	pt := reflect.PointerTo(val.Type())
	switch {
	case pt.Implements(irUnmarshalerType):
		if err := val.Addr().Interface().(IRUnmarshaler).FromIR(node); err != nil {
			return true, &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		return true, nil
	case pt.Implements(textUnmarshalerType) && node.Type == ir.StringType:
		if err := val.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(node.String)); err != nil {
			return true, &UnmarshalError{FieldPath: path, Message: err.Error(), Err: err}
		}
		return true, nil
	}
	return false, nil
}

func setMapKey(k reflect.Value, key, path string) error {
	if k.Kind() == reflect.String {
		k.SetString(key)
		return nil
	}
	if tu, ok := k.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(key))
	}
	switch k.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(key, 10, k.Type().Bits())
		if err != nil {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("bad map key %q for %s", key, k.Type())}
		}
		k.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(key, 10, k.Type().Bits())
		if err != nil {
			return &TypeError{FieldPath: path, Message: fmt.Sprintf("bad map key %q for %s", key, k.Type())}
		}
		k.SetUint(n)
		return nil
	}
	return &UnmarshalError{FieldPath: path, Message: fmt.Sprintf("unsupported map key type %s", k.Type())}
}

func (u *unmapper) structValue(node *ir.Node, val reflect.Value, path string) error {
	fields := structFields(val.Type(), u.cfg.tagName)
	for i, f := range node.Fields {
		fi := matchField(fields, f.String)
		if fi == nil {
			if u.cfg.disallowUnknown {
				return &UnmarshalError{FieldPath: joinPath(path, f.String), Message: "unknown field"}
			}
			continue
		}
		fv, _ := fieldByIndex(val, fi.index, true)
		if err := u.fromIR(node.Values[i], fv, joinPath(path, fi.name)); err != nil {
			return err
		}
	}
	return nil
}

// matchField prefers an exact name and falls back to a case insensitive
// match.
func matchField(fields []fieldInfo, key string) *fieldInfo {
	var fold *fieldInfo
	for i := range fields {
		if fields[i].name == key {
			return &fields[i]
		}
		if fold == nil && strings.EqualFold(fields[i].name, key) {
			fold = &fields[i]
		}
	}
	return fold
}

// ToAny converts node to a generic Go value: nil, bool, float64, string,
// []any or map[string]any. Integer-class numbers become float64 as well.
func ToAny(node *ir.Node) any {
	if node == nil {
		return nil
	}
	switch node.Type {
	case ir.BoolType:
		return node.Bool
	case ir.NumberType:
		return node.Float()
	case ir.StringType:
		return node.String
	case ir.ArrayType:
		res := make([]any, len(node.Values))
		for i, v := range node.Values {
			res[i] = ToAny(v)
		}
		return res
	case ir.ObjectType:
		res := make(map[string]any, len(node.Fields))
		for i, f := range node.Fields {
			res[f.String] = ToAny(node.Values[i])
		}
		return res
	}
	return nil
}
