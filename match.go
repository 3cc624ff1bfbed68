package xton

import (
	"github.com/signadot/xton-format/go-xton/ir"
)

// Match reports whether doc matches the pattern match. A null pattern
// matches anything; an object pattern matches an object that has every
// key of the pattern with matching values, ignoring other keys; arrays
// match element by element; other values must be equal.
func Match(doc, match *ir.Node) bool {
	if match.Type == ir.NullType {
		return true
	}
	if doc.Type != match.Type {
		return false
	}
	switch match.Type {
	case ir.ObjectType:
		return matchObj(doc, match)
	case ir.ArrayType:
		return matchArray(doc, match)
	default:
		return ir.Equal(doc, match)
	}
}

func matchObj(doc, match *ir.Node) bool {
	for i, field := range match.Fields {
		sub := ir.Get(doc, field.String)
		if sub == nil || !Match(sub, match.Values[i]) {
			return false
		}
	}
	return true
}

func matchArray(doc, match *ir.Node) bool {
	if len(doc.Values) != len(match.Values) {
		return false
	}
	for i := range doc.Values {
		if !Match(doc.Values[i], match.Values[i]) {
			return false
		}
	}
	return true
}
