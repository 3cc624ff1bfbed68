package patch

import (
	"testing"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	node, err := parse.ParseString(s)
	if err != nil {
		t.Fatalf("%q: %v", s, err)
	}
	return node
}

func TestJSONPatch(t *testing.T) {
	doc := mustParse(t, `<a-1/b-[x/y]>`)
	got, err := JSONPatch(doc, []byte(`[
		{"op": "replace", "path": "/a", "value": 2},
		{"op": "add", "path": "/b/-", "value": "z"},
		{"op": "remove", "path": "/b/0"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	if s, want := encode.MustString(got), `<a-2/b-[y/z]>`; s != want {
		t.Errorf("got %s want %s", s, want)
	}
	if _, err := JSONPatch(doc, []byte(`[{"op": "remove", "path": "/nope"}]`)); err == nil {
		t.Error("expected error removing a missing path")
	}
	if _, err := JSONPatch(doc, []byte(`{`)); err == nil {
		t.Error("expected error for bad patch")
	}
}

func TestApply(t *testing.T) {
	doc := mustParse(t, `name-a`)
	ops := mustParse(t, `[<op-add/path-'\/port'/value-80>]`)
	got, err := Apply(doc, ops)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, mustParse(t, `<name-a/port-80>`)) {
		t.Errorf("got %s", encode.MustString(got))
	}
	if _, err := Apply(doc, mustParse(t, `op-add`)); err == nil {
		t.Error("expected error for non-array patch")
	}
}

func TestMerge(t *testing.T) {
	doc := mustParse(t, `<b-<x-1/y-2>/a-keep>`)
	got, err := Merge(doc, mustParse(t, `<b-<y-\none/z-3>>`))
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(got, mustParse(t, `<a-keep/b-<x-1/z-3>>`)) {
		t.Errorf("got %s", encode.MustString(got))
	}

	p, err := CreateMerge(doc, got)
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(p, mustParse(t, `b-<y-\none/z-3>`)) {
		t.Errorf("got %s", encode.MustString(p))
	}
}
