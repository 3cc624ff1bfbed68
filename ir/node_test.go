package ir

import (
	"testing"
)

func TestPutKeepsPosition(t *testing.T) {
	obj := FromKeyVals([]KeyVal{
		{Key: "a", Val: FromInt(1)},
		{Key: "b", Val: FromInt(2)},
		{Key: "a", Val: FromInt(3)},
	})
	if len(obj.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(obj.Fields))
	}
	if obj.Fields[0].String != "a" || *obj.Values[0].Int64 != 3 {
		t.Errorf("first entry: got %s=%v", obj.Fields[0].String, obj.Values[0].Float())
	}
	if obj.Values[0].ParentIndex != 0 || obj.Values[0].Parent != obj {
		t.Errorf("replaced value has wrong parent linkage")
	}
}

func TestFromMapSorted(t *testing.T) {
	obj := FromMap(map[string]*Node{
		"z": Null(),
		"a": FromBool(true),
		"m": FromString("s"),
	})
	var keys []string
	for _, f := range obj.Fields {
		keys = append(keys, f.String)
	}
	if got := len(keys); got != 3 || keys[0] != "a" || keys[1] != "m" || keys[2] != "z" {
		t.Errorf("got keys %v", keys)
	}
	m := ToMap(obj)
	if !m["a"].Bool {
		t.Errorf("ToMap lost a")
	}
}

func TestClone(t *testing.T) {
	orig := FromKeyVals([]KeyVal{
		{Key: "list", Val: FromSlice([]*Node{FromInt(1), FromFloat(2.5)})},
	})
	c := orig.Clone()
	if !Equal(orig, c) {
		t.Fatalf("clone differs")
	}
	*c.Values[0].Values[0].Int64 = 9
	if *orig.Values[0].Values[0].Int64 != 1 {
		t.Errorf("clone shares number storage")
	}
	if c.Values[0].Parent != c {
		t.Errorf("clone child parent not rewired")
	}
}

func TestTruth(t *testing.T) {
	for _, tc := range []struct {
		node *Node
		want bool
	}{
		{Null(), false},
		{FromBool(true), true},
		{FromInt(0), false},
		{FromFloat(0.5), true},
		{FromString(""), false},
		{FromSlice([]*Node{Null()}), true},
		{FromKeyVals(nil), false},
	} {
		if got := Truth(tc.node); got != tc.want {
			t.Errorf("Truth(%s) = %v, want %v", tc.node.Type, got, tc.want)
		}
	}
}
