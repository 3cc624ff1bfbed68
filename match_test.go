package xton

import (
	"testing"

	"github.com/signadot/xton-format/go-xton/parse"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		doc, pattern string
		want         bool
	}{
		{`<a-1/b-2>`, `a-1`, true},
		{`<a-1/b-2>`, `a-2`, false},
		{`<a-1/b-2>`, `c-\none`, false},
		{`<a-1/b-[x/y]>`, `b-[x/\none]`, true},
		{`<a-1/b-[x/y]>`, `b-[x]`, false},
		{`anything`, `\none`, true},
		{`1`, `1.0`, true},
		{`'1'`, `1`, false},
		{`s-<t-<u-v>>`, `s-t-u-v`, true},
	}
	for _, tc := range tests {
		doc, err := parse.ParseString(tc.doc)
		if err != nil {
			t.Fatal(err)
		}
		pat, err := parse.ParseString(tc.pattern)
		if err != nil {
			t.Fatal(err)
		}
		if got := Match(doc, pat); got != tc.want {
			t.Errorf("Match(%s, %s) = %v, want %v", tc.doc, tc.pattern, got, tc.want)
		}
	}
}
