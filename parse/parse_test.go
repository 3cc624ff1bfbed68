package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/token"
)

type parseTest struct {
	in   string
	want *ir.Node
}

func obj(kvs ...ir.KeyVal) *ir.Node {
	return ir.FromKeyVals(kvs)
}

func kv(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: k, Val: v}
}

func arr(vs ...*ir.Node) *ir.Node {
	return ir.FromSlice(vs)
}

func TestParseOK(t *testing.T) {
	pts := []parseTest{
		{`\true`, ir.FromBool(true)},
		{`\false`, ir.FromBool(false)},
		{`\none`, ir.Null()},
		{`123`, ir.FromFloat(123)},
		{`-0.5`, ir.FromFloat(-0.5)},
		{`007`, ir.FromFloat(7)},
		{`''`, ir.FromString("")},
		{`'hello\-world'`, ir.FromString("hello-world")},
		{`'a b'`, ir.FromString("a b")},
		{`'\<\>\[\]\/\\\''`, ir.FromString(`<>[]/\'`)},
		{`hello`, ir.FromString("hello")},
		{`1st`, ir.FromString("1st")},
		{`1.`, ir.FromString("1.")},
		{`v1.2.3`, ir.FromString("v1.2.3")},
		{`ünï`, ir.FromString("ünï")},
		{`[a/25.3/87]`, arr(ir.FromString("a"), ir.FromFloat(25.3), ir.FromFloat(87))},
		{`[]`, arr()},
		{`<>`, obj()},
		{`[[]/<>]`, arr(arr(), obj())},
		{`a-1`, obj(kv("a", ir.FromFloat(1)))},
		{`a--1`, obj(kv("a", ir.FromFloat(-1)))},
		{`a-b-c`, obj(kv("a", obj(kv("b", ir.FromString("c")))))},
		{`a-''`, obj(kv("a", ir.FromString("")))},
		{`q-<a-\none/k-\true>`, obj(kv("q", obj(kv("a", ir.Null()), kv("k", ir.FromBool(true)))))},
		{`<'a b'-1/c-[x-y]>`, obj(kv("a b", ir.FromFloat(1)), kv("c", arr(obj(kv("x", ir.FromString("y"))))))},
		{`<1-a/-2-b>`, obj(kv("1", ir.FromString("a")), kv("-2", ir.FromString("b")))},
		{`[-1/-2.5]`, arr(ir.FromFloat(-1), ir.FromFloat(-2.5))},
		{"  [ a / b ]\n", arr(ir.FromString("a"), ir.FromString("b"))},
		{"< a - 1 /\n  b-2 >", obj(kv("a", ir.FromFloat(1)), kv("b", ir.FromFloat(2)))},
		{"a- 1", obj(kv("a", ir.FromFloat(1)))},
		{`<a-1/a-2/b-3>`, obj(kv("a", ir.FromFloat(2)), kv("b", ir.FromFloat(3)))},
	}
	for _, pt := range pts {
		node, err := ParseString(pt.in)
		if err != nil {
			t.Errorf("%q: %v", pt.in, err)
			continue
		}
		if !ir.Equal(node, pt.want) {
			t.Errorf("%q: got %s want %s", pt.in, encode.MustString(node), encode.MustString(pt.want))
		}
	}
}

func TestParseNumbersAreFloatClass(t *testing.T) {
	node, err := ParseString(`[1/2.5]`)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range node.Values {
		if v.Float64 == nil || v.Int64 != nil {
			t.Errorf("expected float class number")
		}
	}
	if got := encode.MustString(node); got != "[1.0/2.5]" {
		t.Errorf("got %s", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind token.ErrorKind
		off  int
	}{
		{``, token.UnexpectedEndOfInput, 0},
		{`   `, token.UnexpectedEndOfInput, 3},
		{`[`, token.UnterminatedContainer, 0},
		{`[a/<b-1`, token.UnterminatedContainer, 3},
		{`<a-1/`, token.UnterminatedContainer, 0},
		{`a-`, token.UnexpectedEndOfInput, 2},
		{`a-[1`, token.UnterminatedContainer, 2},
		{`'unterminated`, token.UnterminatedQuotedString, 0},
		{`'bad\escape'`, token.InvalidEscapeSequence, 4},
		{`\maybe`, token.InvalidLiteralKeyword, 0},
		{`\truest`, token.InvalidLiteralKeyword, 0},
		{`-5x`, token.InvalidNumber, 0},
		{"1" + strings.Repeat("0", 400), token.InvalidNumber, 0},
		{`[a/]`, token.UnexpectedCharacter, 3},
		{`<a-1/>`, token.UnexpectedCharacter, 5},
		{`[a>`, token.UnexpectedCharacter, 2},
		{`<a 1>`, token.UnexpectedCharacter, 3},
		{`<\true-1>`, token.UnexpectedCharacter, 1},
		{`]`, token.UnexpectedCharacter, 0},
		{`/`, token.UnexpectedCharacter, 0},
		{`-`, token.UnexpectedCharacter, 0},
		{`[a b]`, token.UnexpectedCharacter, 3},
		{`a b`, token.TrailingData, 2},
		{`12-x`, token.TrailingData, 2},
		{`'a'-1`, token.TrailingData, 3},
		{`[] []`, token.TrailingData, 3},
		{`a - b`, token.TrailingData, 2},
		{"a\xff", token.InvalidUTF8, 1},
	}
	for _, tc := range tests {
		node, err := ParseString(tc.in)
		if node != nil {
			t.Errorf("%q: partial result returned", tc.in)
		}
		var de *token.DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%q: expected DecodeError, got %v", tc.in, err)
			continue
		}
		if de.Kind != tc.kind || de.Offset() != tc.off {
			t.Errorf("%q: got %s at %d, want %s at %d (%v)", tc.in, de.Kind, de.Offset(), tc.kind, tc.off, err)
		}
	}
}

func TestParsePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
		n    int
	}{
		{`abc rest`, `abc`, 3},
		{`  [1/2]xyz`, `[1.0/2.0]`, 7},
		{`a-1 'b`, `a-1.0`, 3},
		{`\none]`, `\none`, 5},
		{`'x'-y`, `x`, 3},
	}
	for _, tc := range tests {
		node, n, err := ParsePrefix([]byte(tc.in))
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if got := encode.MustString(node); got != tc.want || n != tc.n {
			t.Errorf("%q: got %s,%d want %s,%d", tc.in, got, n, tc.want, tc.n)
		}
	}
	if _, _, err := ParsePrefix([]byte(`[1/`)); !errors.Is(err, token.ErrUnterminatedContainer) {
		t.Errorf("expected unterminated container, got %v", err)
	}
}

func TestParseDuplicateKeys(t *testing.T) {
	in := []byte(`<a-1/b-2/a-3>`)
	node, err := Parse(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := encode.MustString(node); got != "<a-3.0/b-2.0>" {
		t.Errorf("last wins: got %s", got)
	}
	_, err = Parse(in, ParseDuplicateKeys(RejectDuplicates))
	var de *token.DecodeError
	if !errors.As(err, &de) || de.Kind != token.DuplicateKey || de.Offset() != 9 {
		t.Errorf("reject: got %v", err)
	}
	if !errors.Is(err, token.ErrDuplicateKey) {
		t.Errorf("reject: %v does not unwrap to ErrDuplicateKey", err)
	}
}

func TestParseDuplicateKeyPolicy(t *testing.T) {
	for s, want := range map[string]DuplicateKeys{
		"":          LastWins,
		"last-wins": LastWins,
		"reject":    RejectDuplicates,
	} {
		got, err := ParseDuplicateKeyPolicy(s)
		if err != nil || got != want {
			t.Errorf("%q: got %v, %v", s, got, err)
		}
	}
	if _, err := ParseDuplicateKeyPolicy("first"); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestParseMaxDepth(t *testing.T) {
	if _, err := ParseString(`[[[]]]`, ParseMaxDepth(3)); err != nil {
		t.Errorf("depth 3: %v", err)
	}
	_, err := ParseString(`[[[]]]`, ParseMaxDepth(2))
	var de *token.DecodeError
	if !errors.As(err, &de) || de.Kind != token.DepthExceeded || de.Offset() != 2 {
		t.Errorf("depth 2: got %v", err)
	}
	if _, err := ParseString(`a-b-c`, ParseMaxDepth(1)); !errors.Is(err, token.ErrDepthExceeded) {
		t.Errorf("sugar nesting: got %v", err)
	}
	deep := strings.Repeat("[", 100000) + strings.Repeat("]", 100000)
	if _, err := ParseString(deep); !errors.Is(err, token.ErrDepthExceeded) {
		t.Errorf("default bound: got %v", err)
	}
}

func TestParsePositions(t *testing.T) {
	pos := map[*ir.Node]*token.Pos{}
	node, err := ParseString("<a-1/\nb-[x]>", ParsePositions(pos))
	if err != nil {
		t.Fatal(err)
	}
	if pos[node].I != 0 {
		t.Errorf("root at %d", pos[node].I)
	}
	b := ir.Get(node, "b")
	if p := pos[b]; p == nil || p.I != 8 || p.Line() != 1 || p.Col() != 2 {
		t.Errorf("b value at %v", p)
	}
	if p := pos[node.Fields[1]]; p == nil || p.I != 6 {
		t.Errorf("b key at %v", p)
	}
	if p := pos[b.Values[0]]; p == nil || p.I != 9 {
		t.Errorf("x at %v", p)
	}
}

func TestGetPositions(t *testing.T) {
	m := map[*ir.Node]*token.Pos{}
	if got := GetPositions(ParseMaxDepth(3), ParsePositions(m)); got == nil {
		t.Error("positions map not returned")
	}
}
