package format

import (
	"errors"
	"testing"
)

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"x":    XTonFormat,
		"xton": XTonFormat,
		"j":    JSONFormat,
		"yaml": YAMLFormat,
		"toml": TOMLFormat,
	} {
		got, err := ParseFormat(in)
		if err != nil {
			t.Errorf("%s: %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("%s: got %s want %s", in, got, want)
		}
	}
	if _, err := ParseFormat("xml"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}

func TestFormatText(t *testing.T) {
	for _, f := range AllFormats() {
		d, err := f.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var g Format
		if err := g.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if g != f {
			t.Errorf("got %s want %s", g, f)
		}
	}
}

func TestFromSuffix(t *testing.T) {
	cases := map[string]Format{
		"a.json":     JSONFormat,
		"b.yaml":     YAMLFormat,
		"c.yml":      YAMLFormat,
		"d.toml":     TOMLFormat,
		"e.xt":       XTonFormat,
		"no-suffix":  XTonFormat,
		"dir/f.json": JSONFormat,
	}
	for name, want := range cases {
		if got := FromSuffix(name); got != want {
			t.Errorf("%s: got %s want %s", name, got, want)
		}
	}
}
