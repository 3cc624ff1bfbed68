package ir

import "errors"

var (
	ErrPath   = errors.New("bad path")
	ErrNoPath = errors.New("path not found")
)
