package debug

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
)

type XTon struct{ *ir.Node }

func (y XTon) String() string {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(y.Node, buf); err != nil {
		return fmt.Sprintf("[raw *ir.Node] %v", y.Node)
	}
	return buf.String()
}

var out io.Writer = os.Stderr

// Logf writes a debug message to stderr. *ir.Node arguments are rendered
// as XTon and generic maps and slices as JSON.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(x, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", x)
				continue
			}
			args[i] = string(d)
		case *ir.Node:
			args[i] = XTon{x}.String()
		}
	}
	fmt.Fprintf(out, msg, args...)
}
