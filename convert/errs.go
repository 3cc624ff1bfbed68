package convert

import (
	"errors"
)

var (
	ErrConvert = errors.New("conversion error")
	// ErrNoTOMLNull is returned when a null must be written as TOML,
	// which has no null value.
	ErrNoTOMLNull = errors.New("toml has no null")
	// ErrTOMLRoot is returned when a non-object is written as TOML.
	ErrTOMLRoot = errors.New("toml document must be an object")
)
