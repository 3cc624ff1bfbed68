package gomap

import (
	"reflect"
	"strings"
	"sync"
)

type fieldInfo struct {
	name      string
	index     []int
	omitEmpty bool
}

type structKey struct {
	t   reflect.Type
	tag string
}

var fieldCache sync.Map

// structFields lists the exported fields of t in declaration order,
// promoting the fields of untagged embedded structs.
func structFields(t reflect.Type, tagName string) []fieldInfo {
	key := structKey{t, tagName}
	if fs, ok := fieldCache.Load(key); ok {
		return fs.([]fieldInfo)
	}
	var res []fieldInfo
	seen := map[string]bool{}
	collectFields(t, tagName, nil, seen, &res)
	fs, _ := fieldCache.LoadOrStore(key, res)
	return fs.([]fieldInfo)
}

func collectFields(t reflect.Type, tagName string, index []int, seen map[string]bool, dst *[]fieldInfo) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagName)
		if tag == "-" {
			continue
		}
		name, omitEmpty := parseTag(tag)
		idx := append(append([]int(nil), index...), i)
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(ft, tagName, idx, seen, dst)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		*dst = append(*dst, fieldInfo{name: name, index: idx, omitEmpty: omitEmpty})
	}
}

func parseTag(tag string) (name string, omitEmpty bool) {
	name, rest, _ := strings.Cut(tag, ",")
	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

// fieldByIndex is reflect.Value.FieldByIndex that stops at nil embedded
// pointers. With alloc set those pointers are allocated instead.
func fieldByIndex(v reflect.Value, index []int, alloc bool) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}
