package token

import "strings"

const (
	LitTrue  = `\true`
	LitFalse = `\false`
	LitNone  = `\none`
)

// Delimiters are the reserved characters that end a bare token.
const Delimiters = ` -<>[]/'\`

// Escapable holds the characters written with a leading backslash inside
// quoted text.
const Escapable = `-<>[]/\'`

// IsSpace reports whether c is ASCII whitespace. Whitespace separates
// tokens and, like the delimiters, cannot appear in a bare token.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func IsDelimiter(c byte) bool {
	switch c {
	case '-', '<', '>', '[', ']', '/', '\'', '\\':
		return true
	}
	return IsSpace(c)
}

func IsEscapable(c byte) bool {
	switch c {
	case '-', '<', '>', '[', ']', '/', '\\', '\'':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// LooksNumeric reports whether s matches -?[0-9]+(\.[0-9]+)?.
func LooksNumeric(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	j := digits(s, i)
	if j == i {
		return false
	}
	if j == len(s) {
		return true
	}
	if s[j] != '.' {
		return false
	}
	k := digits(s, j+1)
	return k > j+1 && k == len(s)
}

func digits(s string, i int) int {
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return i
}

// NeedsQuote reports whether s must be written as a quoted string: it is
// empty, contains a delimiter or whitespace, or would read as a number.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	for i := 0; i < len(s); i++ {
		if IsDelimiter(s[i]) {
			return true
		}
	}
	return LooksNumeric(s)
}

func Quote(s string) string {
	return string(AppendQuote(make([]byte, 0, len(s)+2), s))
}

func AppendQuote(dst []byte, s string) []byte {
	dst = append(dst, '\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if IsEscapable(c) {
			dst = append(dst, '\\')
		}
		dst = append(dst, c)
	}
	return append(dst, '\'')
}

// Unquote returns the text of the quoted string q, which must start and
// end with a single quote.
func Unquote(q []byte) (string, error) {
	if len(q) < 2 || q[0] != '\'' {
		return "", ErrUnterminatedString
	}
	var b strings.Builder
	b.Grow(len(q) - 2)
	for i := 1; i < len(q); i++ {
		c := q[i]
		switch c {
		case '\'':
			if i != len(q)-1 {
				return "", ErrTrailingData
			}
			return b.String(), nil
		case '\\':
			i++
			if i == len(q) || !IsEscapable(q[i]) {
				return "", ErrInvalidEscape
			}
			b.WriteByte(q[i])
		default:
			b.WriteByte(c)
		}
	}
	return "", ErrUnterminatedString
}

// Literal maps a keyword word (without backslash) to its token type.
func Literal(word string) (TokenType, bool) {
	switch word {
	case "true":
		return TTrue, true
	case "false":
		return TFalse, true
	case "none":
		return TNone, true
	}
	return 0, false
}
