package encode

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/signadot/xton-format/go-xton/ir"
)

func kv(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: k, Val: v}
}

func TestEncodeScalars(t *testing.T) {
	tests := []struct {
		node *ir.Node
		want string
	}{
		{ir.Null(), `\none`},
		{ir.FromBool(true), `\true`},
		{ir.FromBool(false), `\false`},
		{ir.FromInt(123), `123`},
		{ir.FromInt(-67), `-67`},
		{ir.FromInt(0), `0`},
		{ir.FromFloat(0), `0.0`},
		{ir.FromFloat(1), `1.0`},
		{ir.FromFloat(123.45), `123.45`},
		{ir.FromFloat(-0.5), `-0.5`},
		{ir.FromFloat(1e21), `1000000000000000000000.0`},
		{ir.FromFloat(math.Copysign(0, -1)), `-0.0`},
		{ir.FromString("abc"), `abc`},
		{ir.FromString(""), `''`},
		{ir.FromString("hello-world"), `'hello\-world'`},
		{ir.FromString("a b"), `'a b'`},
		{ir.FromString("42"), `'42'`},
		{ir.FromString("-4.5"), `'\-4.5'`},
		{ir.FromString("4.5.6"), `4.5.6`},
		{ir.FromString("it's"), `'it\'s'`},
		{ir.FromString(`a\b`), `'a\\b'`},
		{ir.FromString("ünïcode"), `ünïcode`},
	}
	for _, tc := range tests {
		got, err := String(tc.node)
		if err != nil {
			t.Errorf("%s: %v", tc.want, err)
			continue
		}
		if got != tc.want {
			t.Errorf("got %s want %s", got, tc.want)
		}
	}
}

func TestEncodeContainers(t *testing.T) {
	tests := []struct {
		node *ir.Node
		want string
	}{
		{ir.FromSlice(nil), `[]`},
		{ir.FromKeyVals(nil), `<>`},
		{ir.FromSlice([]*ir.Node{ir.FromString("a"), ir.FromFloat(25.3), ir.FromInt(87)}), `[a/25.3/87]`},
		{ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromInt(1))}), `a-1`},
		{ir.FromKeyVals([]ir.KeyVal{kv("a b", ir.FromInt(1))}), `<'a b'-1>`},
		{ir.FromKeyVals([]ir.KeyVal{kv("7", ir.FromInt(1))}), `<'7'-1>`},
		{ir.FromKeyVals([]ir.KeyVal{kv("", ir.Null())}), `<''-\none>`},
		{
			ir.FromKeyVals([]ir.KeyVal{kv("q", ir.FromKeyVals([]ir.KeyVal{
				kv("a", ir.Null()),
				kv("k", ir.FromBool(true)),
			}))}),
			`q-<a-\none/k-\true>`,
		},
		{
			ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromKeyVals([]ir.KeyVal{kv("b", ir.FromString("c"))}))}),
			`a-b-c`,
		},
		{
			ir.FromSlice([]*ir.Node{
				ir.FromKeyVals([]ir.KeyVal{kv("x", ir.FromInt(1))}),
				ir.FromKeyVals([]ir.KeyVal{kv("y", ir.FromInt(2)), kv("z", ir.FromInt(3))}),
			}),
			`[x-1/<y-2/z-3>]`,
		},
		{
			ir.FromKeyVals([]ir.KeyVal{
				kv("one", ir.FromKeyVals([]ir.KeyVal{kv("in", ir.FromSlice(nil))})),
				kv("two", ir.FromString("")),
			}),
			`<one-in-[]/two-''>`,
		},
	}
	for _, tc := range tests {
		got, err := String(tc.node)
		if err != nil {
			t.Errorf("%s: %v", tc.want, err)
			continue
		}
		if got != tc.want {
			t.Errorf("got %s want %s", got, tc.want)
		}
	}
}

func TestEncodeUnrepresentable(t *testing.T) {
	cyclic := ir.FromSlice(nil)
	cyclic.Values = append(cyclic.Values, cyclic)

	deep := ir.Null()
	for range 10 {
		deep = ir.FromSlice([]*ir.Node{deep})
	}
	tests := []struct {
		name string
		node *ir.Node
		opts []EncodeOption
		err  error
	}{
		{"nan", ir.FromFloat(math.NaN()), nil, ErrUnrepresentable},
		{"inf", ir.FromFloat(math.Inf(-1)), nil, ErrUnrepresentable},
		{"empty number", &ir.Node{Type: ir.NumberType}, nil, ErrUnrepresentable},
		{"nil", nil, nil, ErrUnrepresentable},
		{"bad type", &ir.Node{Type: ir.Type(99)}, nil, ErrUnrepresentable},
		{"bad key", &ir.Node{Type: ir.ObjectType, Fields: []*ir.Node{ir.FromInt(1)}, Values: []*ir.Node{ir.Null()}}, nil, ErrUnrepresentable},
		{"dup key", &ir.Node{Type: ir.ObjectType,
			Fields: []*ir.Node{ir.FromString("a"), ir.FromString("a")},
			Values: []*ir.Node{ir.Null(), ir.Null()}}, nil, ErrUnrepresentable},
		{"cycle", cyclic, nil, ErrCycle},
		{"depth", deep, []EncodeOption{EncodeMaxDepth(5)}, ErrDepth},
	}
	for _, tc := range tests {
		buf := bytes.NewBuffer(nil)
		err := Encode(tc.node, buf, tc.opts...)
		if !errors.Is(err, tc.err) {
			t.Errorf("%s: got %v want %v", tc.name, err, tc.err)
		}
		if !errors.Is(err, ErrUnrepresentable) {
			t.Errorf("%s: %v does not wrap ErrUnrepresentable", tc.name, err)
		}
		if buf.Len() != 0 {
			t.Errorf("%s: partial output %q", tc.name, buf.String())
		}
	}
}

func TestSharedSubtreeIsNotACycle(t *testing.T) {
	shared := ir.FromString("s")
	arr := &ir.Node{Type: ir.ArrayType, Values: []*ir.Node{shared, shared}}
	if got := MustString(arr); got != "[s/s]" {
		t.Errorf("got %s", got)
	}
}

func TestEncodeColors(t *testing.T) {
	colors := &Colors{
		Default: func(s string, _ ...any) string { return strings.ToUpper(s) },
		Map:     map[Colorable]func(string, ...any) string{},
	}
	got, err := String(ir.FromKeyVals([]ir.KeyVal{kv("a", ir.FromString("b"))}), EncodeColors(colors))
	if err != nil {
		t.Fatal(err)
	}
	if got != "A-B" {
		t.Errorf("got %s", got)
	}
	if NewColors().Get(ir.NumberType, ValueColor) == nil {
		t.Error("missing number color")
	}
}
