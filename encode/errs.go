package encode

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrepresentable is wrapped by every failure to express a value
	// as XTon.
	ErrUnrepresentable = errors.New("unrepresentable value")
	ErrCycle           = fmt.Errorf("%w: cycle", ErrUnrepresentable)
	ErrDepth           = fmt.Errorf("%w: nesting too deep", ErrUnrepresentable)
)
