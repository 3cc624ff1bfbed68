package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/format"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
)

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	node, err := parse.ParseString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return node
}

func TestSplitDocs(t *testing.T) {
	d := []byte("a-1\n---\n[x/y]")
	got := splitDocs(d, format.XTonFormat)
	if len(got) != 2 || string(got[0]) != "a-1" || string(got[1]) != "[x/y]" {
		t.Errorf("got %q", got)
	}
	if got := splitDocs(d, format.JSONFormat); len(got) != 1 {
		t.Errorf("json split into %d docs", len(got))
	}
}

func TestTrim(t *testing.T) {
	for _, tc := range []struct {
		doc, match, want string
	}{
		{"<a-1/b-2/c-3>", `<c-3/a-\none>`, "<a-1.0/c-3.0>"},
		{"[<a-1/b-2>/x]", `[a-1/\none]`, "[a-1.0/x]"},
		{"s-<t-<u-v/w-z>>", "s-t-u-v", "s-t-u-v"},
	} {
		doc := mustParse(t, tc.doc)
		m := mustParse(t, tc.match)
		got, err := encode.String(trim(m, doc))
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("trim(%s, %s) (-want +got):\n%s", tc.match, tc.doc, diff)
		}
	}
}

func TestQuery(t *testing.T) {
	doc := mustParse(t, "<a-[<b-1>/<b-2>]/c-<b-3>>")
	for _, tc := range []struct {
		path, want string
	}{
		{"$.a[1].b", "2.0"},
		{"$.a[*].b", "[1.0/2.0]"},
		{"$..b", "[1.0/2.0/3.0]"},
	} {
		node, err := query(doc, tc.path)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		got, err := encode.String(node)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("%s: got %s want %s", tc.path, got, tc.want)
		}
	}
	if node, err := query(doc, "$.missing"); err != nil || node != nil {
		t.Errorf("missing: got %v, %v", node, err)
	}
}

func TestReport(t *testing.T) {
	_, err := parse.ParseString("a-[\nx")
	if err == nil {
		t.Fatal("expected error")
	}
	var buf bytes.Buffer
	report(&buf, "f.xt", 3, err)
	if !strings.HasPrefix(buf.String(), "f.xt:4:3: ") {
		t.Errorf("got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "UnterminatedContainer") {
		t.Errorf("got %q", buf.String())
	}
}
