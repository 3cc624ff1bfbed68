package debug

import (
	"bytes"
	"testing"

	"github.com/signadot/xton-format/go-xton/ir"
)

func TestLogfRendersNodes(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	old := out
	out = buf
	defer func() { out = old }()

	node := ir.FromKeyVals([]ir.KeyVal{{Key: "a", Val: ir.FromInt(1)}})
	Logf("got %s %d\n", XTon{Node: node}, 3)
	if got, want := buf.String(), "got a-1 3\n"; got != want {
		t.Errorf("got %q want %q", got, want)
	}

	buf.Reset()
	Logf("raw %v\n", node)
	if got, want := buf.String(), "raw a-1\n"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestBoolEnv(t *testing.T) {
	t.Setenv("XTON_TEST_BOOL", "true")
	if !boolEnv("XTON_TEST_BOOL") {
		t.Error("expected true")
	}
	t.Setenv("XTON_TEST_BOOL", "nope")
	if boolEnv("XTON_TEST_BOOL") {
		t.Error("expected false")
	}
}
