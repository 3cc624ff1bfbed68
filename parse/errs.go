package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse       = errors.New("parse error")
	ErrBadDupKeys = fmt.Errorf("%w: unknown duplicate key policy", ErrParse)
)
