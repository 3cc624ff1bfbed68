package parse

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/signadot/xton-format/go-xton/debug"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/token"
)

// Parse decodes the XTon document d. The whole input must be a single
// value, optionally surrounded by whitespace. Errors are always
// *token.DecodeError.
func Parse(d []byte, opts ...ParseOption) (*ir.Node, error) {
	node, _, err := parse(d, true, newOpts(opts))
	return node, err
}

func ParseString(s string, opts ...ParseOption) (*ir.Node, error) {
	return Parse([]byte(s), opts...)
}

// ParsePrefix decodes the value at the start of d and returns it with the
// offset just past it. Anything may follow the value.
func ParsePrefix(d []byte, opts ...ParseOption) (*ir.Node, int, error) {
	return parse(d, false, newOpts(opts))
}

func parse(d []byte, full bool, opts *parseOpts) (*ir.Node, int, error) {
	p := &parser{
		d:    d,
		tz:   token.NewTokenizer(d),
		opts: opts,
	}
	node, end, err := p.document(full)
	if debug.Parse() {
		if err != nil {
			debug.Logf("parse error: %v\n", err)
		} else {
			debug.Logf("parsed %d/%d bytes: %s\n", end, len(d), debug.XTon{Node: node})
		}
	}
	if err != nil {
		return nil, 0, err
	}
	return node, end, nil
}

type parser struct {
	d    []byte
	tz   *token.Tokenizer
	opts *parseOpts
	open []*token.Token
	last *token.Token
}

func (p *parser) document(full bool) (*ir.Node, int, error) {
	tok, err := p.next()
	if err != nil {
		return nil, 0, err
	}
	node, err := p.value(tok, 0)
	if err != nil {
		return nil, 0, err
	}
	end := p.last.End()
	if !full {
		return node, end, nil
	}
	i := end
	for i < len(p.d) && token.IsSpace(p.d[i]) {
		i++
	}
	if i < len(p.d) {
		return nil, 0, p.errAt(token.TrailingData, i, "")
	}
	return node, end, nil
}

func (p *parser) errAt(kind token.ErrorKind, i int, detail string) error {
	return token.NewDecodeError(kind, p.tz.PosDoc().Pos(i), detail)
}

func (p *parser) unexpected(tok *token.Token, want string) error {
	return token.NewDecodeError(token.UnexpectedCharacter, tok.Pos,
		fmt.Sprintf("%q, expected %s", tok.Bytes, want))
}

// next reads a token. Running out of input is reported against the
// innermost open container if there is one.
func (p *parser) next() (*token.Token, error) {
	tok, err := p.tz.Next()
	if errors.Is(err, io.EOF) {
		if n := len(p.open); n > 0 {
			o := p.open[n-1]
			return nil, token.NewDecodeError(token.UnterminatedContainer, o.Pos,
				fmt.Sprintf("missing close for %q", o.Bytes))
		}
		return nil, p.errAt(token.UnexpectedEndOfInput, len(p.d), "")
	}
	if err != nil {
		return nil, err
	}
	p.last = tok
	return tok, nil
}

func (p *parser) trackPos(node *ir.Node, pos *token.Pos) {
	if p.opts.positions != nil && pos != nil {
		p.opts.positions[node] = pos
	}
}

func (p *parser) enter(tok *token.Token, depth int) error {
	if depth >= p.opts.maxDepth {
		return token.NewDecodeError(token.DepthExceeded, tok.Pos,
			fmt.Sprintf("nesting deeper than %d", p.opts.maxDepth))
	}
	return nil
}

// value parses the value starting with tok, which is nested in depth
// containers.
func (p *parser) value(tok *token.Token, depth int) (*ir.Node, error) {
	var (
		node *ir.Node
		err  error
	)
	switch tok.Type {
	case token.TNone:
		node = ir.Null()
	case token.TTrue:
		node = ir.FromBool(true)
	case token.TFalse:
		node = ir.FromBool(false)
	case token.TNumber:
		node, err = number(tok)
	case token.TQuoted:
		node = ir.FromString(tok.String())
	case token.TString:
		if end := tok.End(); end < len(p.d) && p.d[end] == '-' {
			return p.sugar(tok, depth)
		}
		node = ir.FromString(tok.String())
	case token.TLSquare:
		return p.array(tok, depth)
	case token.TLAngle:
		return p.object(tok, depth)
	default:
		return nil, p.unexpected(tok, "a value")
	}
	if err != nil {
		return nil, err
	}
	p.trackPos(node, tok.Pos)
	return node, nil
}

func number(tok *token.Token) (*ir.Node, error) {
	f, err := strconv.ParseFloat(string(tok.Bytes), 64)
	if err != nil {
		return nil, token.NewDecodeError(token.InvalidNumber, tok.Pos,
			fmt.Sprintf("%s out of range", tok.Bytes))
	}
	return ir.FromFloat(f), nil
}

// sugar parses key-value, the unbracketed single entry object.
func (p *parser) sugar(key *token.Token, depth int) (*ir.Node, error) {
	if err := p.enter(key, depth); err != nil {
		return nil, err
	}
	if _, err := p.next(); err != nil {
		return nil, err
	}
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	val, err := p.value(tok, depth+1)
	if err != nil {
		return nil, err
	}
	obj := ir.FromKeyVals([]ir.KeyVal{{Key: key.String(), Val: val}})
	p.trackPos(obj, key.Pos)
	p.trackPos(obj.Fields[0], key.Pos)
	return obj, nil
}

func (p *parser) push(open *token.Token) {
	p.open = append(p.open, open)
}

func (p *parser) pop() {
	p.open = p.open[:len(p.open)-1]
}

func (p *parser) array(open *token.Token, depth int) (*ir.Node, error) {
	if err := p.enter(open, depth); err != nil {
		return nil, err
	}
	p.push(open)
	defer p.pop()
	arr := ir.FromSlice(nil)
	p.trackPos(arr, open.Pos)

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Closes(open) {
		return arr, nil
	}
	for {
		v, err := p.value(tok, depth+1)
		if err != nil {
			return nil, err
		}
		arr.Append(v)
		done, err := p.separator(open)
		if err != nil {
			return nil, err
		}
		if done {
			return arr, nil
		}
		if tok, err = p.elementStart(open); err != nil {
			return nil, err
		}
	}
}

// separator reads what follows an element: '/' or the matching close.
func (p *parser) separator(open *token.Token) (bool, error) {
	tok, err := p.next()
	if err != nil {
		return false, err
	}
	if tok.Closes(open) {
		return true, nil
	}
	if tok.Type != token.TSlash {
		return false, p.unexpected(tok, "'/' or close of "+string(open.Bytes))
	}
	return false, nil
}

// elementStart reads the first token after a '/'.
func (p *parser) elementStart(open *token.Token) (*token.Token, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Closes(open) {
		return nil, token.NewDecodeError(token.UnexpectedCharacter, tok.Pos,
			fmt.Sprintf("trailing separator before %q", tok.Bytes))
	}
	return tok, nil
}

func (p *parser) object(open *token.Token, depth int) (*ir.Node, error) {
	if err := p.enter(open, depth); err != nil {
		return nil, err
	}
	p.push(open)
	defer p.pop()
	obj := ir.FromKeyVals(nil)
	p.trackPos(obj, open.Pos)

	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	if tok.Closes(open) {
		return obj, nil
	}
	for {
		if err := p.pair(obj, tok, depth); err != nil {
			return nil, err
		}
		done, err := p.separator(open)
		if err != nil {
			return nil, err
		}
		if done {
			return obj, nil
		}
		if tok, err = p.elementStart(open); err != nil {
			return nil, err
		}
	}
}

// pair parses key '-' value into obj. Numeric looking bare keys are
// taken as text.
func (p *parser) pair(obj *ir.Node, keyTok *token.Token, depth int) error {
	switch keyTok.Type {
	case token.TString, token.TQuoted, token.TNumber:
	default:
		return p.unexpected(keyTok, "an object key")
	}
	key := keyTok.String()
	dash, err := p.next()
	if err != nil {
		return err
	}
	if dash.Type != token.TDash {
		return p.unexpected(dash, "'-' after object key")
	}
	tok, err := p.next()
	if err != nil {
		return err
	}
	val, err := p.value(tok, depth+1)
	if err != nil {
		return err
	}
	if obj.Index(key) >= 0 {
		if p.opts.dupKeys == RejectDuplicates {
			return token.NewDecodeError(token.DuplicateKey, keyTok.Pos, strconv.Quote(key))
		}
		obj.Put(key, val)
		return nil
	}
	obj.Put(key, val)
	p.trackPos(obj.Fields[len(obj.Fields)-1], keyTok.Pos)
	return nil
}
