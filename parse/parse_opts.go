package parse

import (
	"fmt"

	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/token"
)

// DefaultMaxDepth bounds the nesting of arrays and objects.
const DefaultMaxDepth = 512

// DuplicateKeys selects what happens when an object repeats a key.
type DuplicateKeys int

const (
	// LastWins keeps the key at its first position with the value of its
	// last occurrence.
	LastWins DuplicateKeys = iota
	// RejectDuplicates fails with token.DuplicateKey.
	RejectDuplicates
)

func (k DuplicateKeys) String() string {
	switch k {
	case LastWins:
		return "last-wins"
	case RejectDuplicates:
		return "reject"
	}
	return fmt.Sprintf("DuplicateKeys(%d)", int(k))
}

func (k DuplicateKeys) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DuplicateKeys) UnmarshalText(d []byte) error {
	v, err := ParseDuplicateKeyPolicy(string(d))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// ParseDuplicateKeyPolicy reads a policy name as used in configuration
// files and flags.
func ParseDuplicateKeyPolicy(s string) (DuplicateKeys, error) {
	switch s {
	case "", "last-wins", "last":
		return LastWins, nil
	case "reject", "strict":
		return RejectDuplicates, nil
	}
	return 0, fmt.Errorf("%w %q", ErrBadDupKeys, s)
}

type parseOpts struct {
	maxDepth  int
	dupKeys   DuplicateKeys
	positions map[*ir.Node]*token.Pos
}

type ParseOption func(*parseOpts)

// ParseMaxDepth sets the nesting bound; n <= 0 selects DefaultMaxDepth.
func ParseMaxDepth(n int) ParseOption {
	return func(o *parseOpts) {
		if n <= 0 {
			n = DefaultMaxDepth
		}
		o.maxDepth = n
	}
}

func ParseDuplicateKeys(k DuplicateKeys) ParseOption {
	return func(o *parseOpts) { o.dupKeys = k }
}

// ParsePositions records the start of every parsed node in m. Object keys
// are recorded too.
func ParsePositions(m map[*ir.Node]*token.Pos) ParseOption {
	return func(o *parseOpts) {
		o.positions = m
	}
}

// GetPositions extracts the positions map from the provided options.
func GetPositions(opts ...ParseOption) map[*ir.Node]*token.Pos {
	return newOpts(opts).positions
}

func newOpts(opts []ParseOption) *parseOpts {
	pOpts := &parseOpts{maxDepth: DefaultMaxDepth}
	for _, f := range opts {
		f(pOpts)
	}
	return pOpts
}
