package token

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decode failure.
type ErrorKind int

const (
	UnexpectedEndOfInput ErrorKind = iota
	UnterminatedQuotedString
	UnterminatedContainer
	InvalidEscapeSequence
	InvalidLiteralKeyword
	InvalidNumber
	UnexpectedCharacter
	TrailingData
	DuplicateKey
	DepthExceeded
	InvalidUTF8
)

var (
	ErrUnexpectedEOF         = errors.New("unexpected end of input")
	ErrUnterminatedString    = errors.New("unterminated quoted string")
	ErrUnterminatedContainer = errors.New("unterminated container")
	ErrInvalidEscape         = errors.New("invalid escape sequence")
	ErrInvalidLiteral        = errors.New("invalid literal keyword")
	ErrInvalidNumber         = errors.New("invalid number")
	ErrUnexpectedChar        = errors.New("unexpected character")
	ErrTrailingData          = errors.New("trailing data")
	ErrDuplicateKey          = errors.New("duplicate key")
	ErrDepthExceeded         = errors.New("depth exceeded")
	ErrBadUTF8               = errors.New("bad utf8")
)

var kindInfo = map[ErrorKind]struct {
	name string
	err  error
}{
	UnexpectedEndOfInput:     {"UnexpectedEndOfInput", ErrUnexpectedEOF},
	UnterminatedQuotedString: {"UnterminatedQuotedString", ErrUnterminatedString},
	UnterminatedContainer:    {"UnterminatedContainer", ErrUnterminatedContainer},
	InvalidEscapeSequence:    {"InvalidEscapeSequence", ErrInvalidEscape},
	InvalidLiteralKeyword:    {"InvalidLiteralKeyword", ErrInvalidLiteral},
	InvalidNumber:            {"InvalidNumber", ErrInvalidNumber},
	UnexpectedCharacter:      {"UnexpectedCharacter", ErrUnexpectedChar},
	TrailingData:             {"TrailingData", ErrTrailingData},
	DuplicateKey:             {"DuplicateKey", ErrDuplicateKey},
	DepthExceeded:            {"DepthExceeded", ErrDepthExceeded},
	InvalidUTF8:              {"InvalidUTF8", ErrBadUTF8},
}

func (k ErrorKind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Err returns the sentinel error for k.
func (k ErrorKind) Err() error {
	if info, ok := kindInfo[k]; ok {
		return info.err
	}
	return nil
}

func (k ErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// DecodeError is the single error type returned by the decoder.
type DecodeError struct {
	Kind   ErrorKind
	Pos    *Pos
	Detail string
}

func NewDecodeError(kind ErrorKind, pos *Pos, detail string) *DecodeError {
	return &DecodeError{Kind: kind, Pos: pos, Detail: detail}
}

func (e *DecodeError) Unwrap() error {
	return e.Kind.Err()
}

// Offset is the byte offset of the token that triggered the error.
func (e *DecodeError) Offset() int {
	if e.Pos == nil {
		return 0
	}
	return e.Pos.I
}

func (e *DecodeError) Error() string {
	msg := e.Kind.Err().Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Pos == nil {
		return msg
	}
	return fmt.Sprintf("%s at %s", msg, e.Pos.String())
}
