package token

import (
	"io"
	"unicode/utf8"
)

// Tokenizer produces the tokens of a document one at a time. It keeps
// track of the previous token so that a '-' is read as the start of a
// negative number only where a value may begin.
type Tokenizer struct {
	d    []byte
	i    int
	doc  *PosDoc
	prev *Token
}

func NewTokenizer(d []byte) *Tokenizer {
	return &Tokenizer{d: d, doc: NewPosDoc(d)}
}

func (t *Tokenizer) PosDoc() *PosDoc {
	return t.doc
}

// Offset is the position just past the last token returned.
func (t *Tokenizer) Offset() int {
	return t.i
}

func (t *Tokenizer) err(kind ErrorKind, i int, detail string) error {
	return NewDecodeError(kind, t.doc.Pos(i), detail)
}

func (t *Tokenizer) valueMayStart() bool {
	if t.prev == nil {
		return true
	}
	switch t.prev.Type {
	case TLSquare, TLAngle, TSlash, TDash:
		return true
	}
	return false
}

// Next returns the next token, or io.EOF when only whitespace remains.
func (t *Tokenizer) Next() (*Token, error) {
	for t.i < len(t.d) && IsSpace(t.d[t.i]) {
		t.i++
	}
	if t.i == len(t.d) {
		return nil, io.EOF
	}
	start := t.i
	var (
		tt  TokenType
		end int
		err error
	)
	switch c := t.d[start]; c {
	case '[':
		tt, end = TLSquare, start+1
	case ']':
		tt, end = TRSquare, start+1
	case '<':
		tt, end = TLAngle, start+1
	case '>':
		tt, end = TRAngle, start+1
	case '/':
		tt, end = TSlash, start+1
	case '\'':
		tt = TQuoted
		end, err = t.quoted(start)
	case '\\':
		end, err = t.bare(start + 1)
		if err == nil {
			var ok bool
			tt, ok = Literal(string(t.d[start+1 : end]))
			if !ok {
				err = t.err(InvalidLiteralKeyword, start, string(t.d[start:end]))
			}
		}
	case '-':
		if !t.valueMayStart() || start+1 == len(t.d) || !isDigit(t.d[start+1]) {
			tt, end = TDash, start+1
			break
		}
		tt = TNumber
		end, err = t.bare(start + 1)
		if err == nil && !LooksNumeric(string(t.d[start:end])) {
			err = t.err(InvalidNumber, start, string(t.d[start:end]))
		}
	default:
		end, err = t.bare(start)
		if err == nil {
			tt = TString
			if LooksNumeric(string(t.d[start:end])) {
				tt = TNumber
			}
		}
	}
	if err != nil {
		return nil, err
	}
	tok := &Token{
		Type:  tt,
		Pos:   t.doc.Pos(start),
		Bytes: t.d[start:end],
	}
	t.i = end
	t.prev = tok
	return tok, nil
}

// bare scans a run of non-delimiter bytes from i.
func (t *Tokenizer) bare(i int) (int, error) {
	for i < len(t.d) {
		c := t.d[i]
		if IsDelimiter(c) {
			return i, nil
		}
		if c < utf8.RuneSelf {
			i++
			continue
		}
		r, n := utf8.DecodeRune(t.d[i:])
		if r == utf8.RuneError && n == 1 {
			return 0, t.err(InvalidUTF8, i, "")
		}
		i += n
	}
	return i, nil
}

// quoted scans a quoted string whose opening quote is at start.
func (t *Tokenizer) quoted(start int) (int, error) {
	i := start + 1
	for i < len(t.d) {
		c := t.d[i]
		switch {
		case c == '\'':
			return i + 1, nil
		case c == '\\':
			if i+1 == len(t.d) {
				return 0, t.err(UnterminatedQuotedString, start, "")
			}
			if !IsEscapable(t.d[i+1]) {
				return 0, t.err(InvalidEscapeSequence, i, string(t.d[i:i+1+utf8RuneLen(t.d[i+1:])]))
			}
			i += 2
		case c < utf8.RuneSelf:
			i++
		default:
			r, n := utf8.DecodeRune(t.d[i:])
			if r == utf8.RuneError && n == 1 {
				return 0, t.err(InvalidUTF8, i, "")
			}
			i += n
		}
	}
	return 0, t.err(UnterminatedQuotedString, start, "")
}

func utf8RuneLen(d []byte) int {
	_, n := utf8.DecodeRune(d)
	return max(n, 1)
}

// Tokenize returns all tokens of d. On error the tokens read so far are
// returned along with the error.
func Tokenize(d []byte) ([]*Token, error) {
	t := NewTokenizer(d)
	var res []*Token
	for {
		tok, err := t.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return res, err
		}
		res = append(res, tok)
	}
}
