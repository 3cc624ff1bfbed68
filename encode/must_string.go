package encode

import (
	"github.com/signadot/xton-format/go-xton/ir"
)

// MustString is String for trees known to be encodable; it panics on
// failure.
func MustString(node *ir.Node) string {
	s, err := String(node)
	if err != nil {
		panic(err)
	}
	return s
}
