package token

import (
	"fmt"
)

type TokenType int

const (
	TNone TokenType = iota
	TTrue
	TFalse
	TNumber
	TString
	TQuoted
	TDash
	TSlash
	TLSquare
	TRSquare
	TLAngle
	TRAngle
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TNone:    "TNone",
		TTrue:    "TTrue",
		TFalse:   "TFalse",
		TNumber:  "TNumber",
		TString:  "TString",
		TQuoted:  "TQuoted",
		TDash:    "TDash",
		TSlash:   "TSlash",
		TLSquare: "TLSquare",
		TRSquare: "TRSquare",
		TLAngle:  "TLAngle",
		TRAngle:  "TRAngle",
	}[t]
}

// Token is a lexeme of the input. Bytes is the raw source text, quotes
// and escapes included.
type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// End is the offset just past the token.
func (t *Token) End() int {
	return t.Pos.I + len(t.Bytes)
}

// String returns the text the token denotes; quoted tokens are unescaped.
func (t *Token) String() string {
	if t.Type == TQuoted {
		s, err := Unquote(t.Bytes)
		if err != nil {
			return string(t.Bytes)
		}
		return s
	}
	return string(t.Bytes)
}

// Closes reports whether t is the closing bracket matching the opening
// bracket o.
func (t *Token) Closes(o *Token) bool {
	switch o.Type {
	case TLSquare:
		return t.Type == TRSquare
	case TLAngle:
		return t.Type == TRAngle
	}
	return false
}
