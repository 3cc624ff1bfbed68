package encode_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
	"github.com/signadot/xton-format/go-xton/token"
)

var alphabet = []rune("ab Z09-<>[]/'\\.é\t_")

func randString(r *rand.Rand) string {
	n := r.IntN(6)
	var b strings.Builder
	for range n {
		b.WriteRune(alphabet[r.IntN(len(alphabet))])
	}
	return b.String()
}

func randNode(r *rand.Rand, depth int) *ir.Node {
	k := r.IntN(8)
	if depth > 3 {
		k = r.IntN(5)
	}
	switch k {
	case 0:
		return ir.Null()
	case 1:
		return ir.FromBool(r.IntN(2) == 0)
	case 2:
		if r.IntN(2) == 0 {
			return ir.FromInt(r.Int64N(2000) - 1000)
		}
		return ir.FromFloat((r.Float64() - 0.5) * 1e6)
	case 3, 4:
		return ir.FromString(randString(r))
	case 5:
		n := r.IntN(4)
		vals := make([]*ir.Node, n)
		for i := range vals {
			vals[i] = randNode(r, depth+1)
		}
		return ir.FromSlice(vals)
	default:
		n := r.IntN(3)
		kvs := make([]ir.KeyVal, n)
		for i := range kvs {
			kvs[i] = ir.KeyVal{Key: randString(r), Val: randNode(r, depth+1)}
		}
		return ir.FromKeyVals(kvs)
	}
}

func TestRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for i := range 2000 {
		node := randNode(r, 0)
		s, err := encode.String(node)
		if err != nil {
			t.Fatalf("%d: encode: %v", i, err)
		}
		back, err := parse.ParseString(s)
		if err != nil {
			t.Fatalf("%d: decode %s: %v", i, s, err)
		}
		if !ir.Equal(node, back) {
			t.Fatalf("%d: round trip of %s gave %s", i, s, encode.MustString(back))
		}
	}
}

func TestQuotedTextNeverBare(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	for range 2000 {
		s := randString(r)
		out := encode.Text(s)
		if out == s && (token.LooksNumeric(s) || token.NeedsQuote(s)) {
			t.Errorf("%q emitted bare", s)
		}
	}
}

func TestSugarIndependentOfNesting(t *testing.T) {
	single := func() *ir.Node {
		return ir.FromKeyVals([]ir.KeyVal{{Key: "k", Val: ir.FromInt(1)}})
	}
	wrapped := ir.FromKeyVals([]ir.KeyVal{
		{Key: "a", Val: single()},
		{Key: "b", Val: ir.FromSlice([]*ir.Node{single()})},
	})
	if got, want := encode.MustString(wrapped), "<a-k-1/b-[k-1]>"; got != want {
		t.Errorf("got %s want %s", got, want)
	}
}
