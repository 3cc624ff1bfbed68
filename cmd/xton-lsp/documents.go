package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"

	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/parse"
	"github.com/signadot/xton-format/go-xton/token"
)

// docSep separates documents in a file.
const docSep = "\n---\n"

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	uri     string
	content string
	version int32
	parts   []*part
}

// part is one document of a file. base is the offset of its text in the
// file content.
type part struct {
	base      int
	text      string
	node      *ir.Node
	err       error
	positions map[*ir.Node]*token.Pos
}

func newDocument(uri, content string, version int32) *document {
	doc := &document{uri: uri, content: content, version: version}
	base := 0
	for i, text := range strings.Split(content, docSep) {
		if i > 0 {
			base += len(docSep)
		}
		p := &part{
			base:      base,
			text:      text,
			positions: make(map[*ir.Node]*token.Pos),
		}
		p.node, p.err = parse.ParseString(text, parse.ParsePositions(p.positions))
		doc.parts = append(doc.parts, p)
		base += len(text)
	}
	return doc
}

// partAt returns the part containing the file offset off.
func (doc *document) partAt(off int) *part {
	var res *part
	for _, p := range doc.parts {
		if p.base > off {
			break
		}
		res = p
	}
	return res
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri string, content string, version int32) *document {
	doc := newDocument(uri, content, version)
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = doc
	return doc
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func (s *Server) publishDiagnostics(ctx context.Context, doc *document) {
	if s.conn == nil {
		return
	}
	s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(doc.uri),
		Version:     uint32(doc.version),
		Diagnostics: diagnostics(doc),
	})
}

// diagnostics reports decode errors, and duplicate keys as warnings since
// they decode with the last value winning.
func diagnostics(doc *document) []protocol.Diagnostic {
	res := []protocol.Diagnostic{}
	for _, p := range doc.parts {
		err := p.err
		severity := protocol.DiagnosticSeverityError
		if err == nil {
			_, err = parse.ParseString(p.text, parse.ParseDuplicateKeys(parse.RejectDuplicates))
			severity = protocol.DiagnosticSeverityWarning
		}
		if err == nil {
			continue
		}
		diag := protocol.Diagnostic{
			Range:    rangeAt(doc.content, p.base, p.base),
			Severity: severity,
			Message:  err.Error(),
			Source:   lsName,
		}
		var de *token.DecodeError
		if errors.As(err, &de) {
			diag.Code = de.Kind.String()
			diag.Message = de.Kind.Err().Error()
			if de.Detail != "" {
				diag.Message += ": " + de.Detail
			}
			if de.Pos != nil {
				off := p.base + de.Pos.I
				diag.Range = rangeAt(doc.content, off, off+1)
			}
		}
		res = append(res, diag)
	}
	return res
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := s.docs.put(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, doc)
	return nil
}

// DidChange expects full content changes.
func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	n := len(params.ContentChanges)
	if n == 0 {
		return nil
	}
	content := params.ContentChanges[n-1].Text
	doc := s.docs.put(string(params.TextDocument.URI), content, params.TextDocument.Version)
	s.publishDiagnostics(ctx, doc)
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return nil
}

// position converts a byte offset to an LSP position, whose character
// counts UTF-16 code units.
func position(content string, off int) protocol.Position {
	off = min(max(off, 0), len(content))
	line := strings.Count(content[:off], "\n")
	lineStart := strings.LastIndexByte(content[:off], '\n') + 1
	return protocol.Position{
		Line:      uint32(line),
		Character: uint32(utf16Len(content[lineStart:off])),
	}
}

func rangeAt(content string, start, end int) protocol.Range {
	return protocol.Range{
		Start: position(content, start),
		End:   position(content, end),
	}
}

// offset is the inverse of position, clamped to the line.
func offset(content string, pos protocol.Position) int {
	off := 0
	for range pos.Line {
		i := strings.IndexByte(content[off:], '\n')
		if i == -1 {
			return len(content)
		}
		off += i + 1
	}
	units := int(pos.Character)
	for off < len(content) && content[off] != '\n' && units > 0 {
		r, n := utf8.DecodeRuneInString(content[off:])
		units -= max(utf16.RuneLen(r), 1)
		off += n
	}
	return off
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += max(utf16.RuneLen(r), 1)
	}
	return n
}
