package main

import (
	"bytes"
	"context"

	"go.lsp.dev/protocol"

	"github.com/signadot/xton-format/go-xton/token"
)

type tokenInfo struct {
	line      uint32
	character uint32
	length    uint32
	tokenType uint32
}

var tokenTypeIndex = func() map[protocol.SemanticTokenTypes]uint32 {
	m := make(map[protocol.SemanticTokenTypes]uint32, len(tokenTypes))
	for i, tt := range tokenTypes {
		m[tt] = uint32(i)
	}
	return m
}()

// semanticType classifies tok given the token after it: a string followed
// by '-' is a key.
func semanticType(tok, next *token.Token) protocol.SemanticTokenTypes {
	switch tok.Type {
	case token.TTrue, token.TFalse, token.TNone:
		return protocol.SemanticTokenKeyword
	case token.TNumber:
		return protocol.SemanticTokenNumber
	case token.TString, token.TQuoted:
		if next != nil && next.Type == token.TDash {
			return protocol.SemanticTokenProperty
		}
		return protocol.SemanticTokenString
	default:
		return protocol.SemanticTokenOperator
	}
}

func collectTokens(doc *document) []tokenInfo {
	var res []tokenInfo
	for _, p := range doc.parts {
		// on error, the tokens before it are still highlighted
		toks, _ := token.Tokenize([]byte(p.text))
		for i, tok := range toks {
			if bytes.IndexByte(tok.Bytes, '\n') != -1 {
				continue
			}
			var next *token.Token
			if i+1 < len(toks) {
				next = toks[i+1]
			}
			start := p.base + tok.Pos.I
			pos := position(doc.content, start)
			res = append(res, tokenInfo{
				line:      pos.Line,
				character: pos.Character,
				length:    uint32(utf16Len(string(tok.Bytes))),
				tokenType: tokenTypeIndex[semanticType(tok, next)],
			})
		}
	}
	return res
}

// encodeTokens produces the relative encoding of LSP semantic tokens.
// toks must be in document order.
func encodeTokens(toks []tokenInfo) []uint32 {
	res := make([]uint32, 0, 5*len(toks))
	var prevLine, prevChar uint32
	for _, ti := range toks {
		deltaLine := ti.line - prevLine
		deltaChar := ti.character
		if deltaLine == 0 {
			deltaChar = ti.character - prevChar
		}
		res = append(res, deltaLine, deltaChar, ti.length, ti.tokenType, 0)
		prevLine, prevChar = ti.line, ti.character
	}
	return res
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	return &protocol.SemanticTokens{Data: encodeTokens(collectTokens(doc))}, nil
}

func (s *Server) SemanticTokensRange(ctx context.Context, params *protocol.SemanticTokensRangeParams) (*protocol.SemanticTokens, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return &protocol.SemanticTokens{Data: []uint32{}}, nil
	}
	start, end := params.Range.Start, params.Range.End
	var toks []tokenInfo
	for _, ti := range collectTokens(doc) {
		if ti.line < start.Line || ti.line > end.Line {
			continue
		}
		if ti.line == start.Line && ti.character < start.Character {
			continue
		}
		if ti.line == end.Line && ti.character >= end.Character {
			continue
		}
		toks = append(toks, ti)
	}
	return &protocol.SemanticTokens{Data: encodeTokens(toks)}, nil
}
