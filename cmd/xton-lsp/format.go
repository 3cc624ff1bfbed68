package main

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/signadot/xton-format/go-xton/encode"
)

func (s *Server) Formatting(ctx context.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}
	formatted, ok := format(doc)
	if !ok || formatted == doc.content {
		return []protocol.TextEdit{}, nil
	}
	return []protocol.TextEdit{
		{
			Range:   rangeAt(doc.content, 0, len(doc.content)),
			NewText: formatted,
		},
	}, nil
}

// format re-encodes every document of doc in canonical form. It fails if
// any document does not decode.
func format(doc *document) (string, bool) {
	var b strings.Builder
	for i, p := range doc.parts {
		if p.node == nil {
			return "", false
		}
		if i > 0 {
			b.WriteString(docSep)
		}
		if err := encode.Encode(p.node, &b); err != nil {
			return "", false
		}
	}
	if strings.HasSuffix(doc.content, "\n") {
		b.WriteByte('\n')
	}
	return b.String(), true
}
