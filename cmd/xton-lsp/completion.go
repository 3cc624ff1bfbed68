package main

import (
	"context"
	"sort"

	"go.lsp.dev/protocol"

	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/token"
)

var keywords = []string{"true", "false", "none"}

// Completion offers the literal keywords and the keys already used in the
// file.
func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}
	off := offset(doc.content, params.Position)
	afterSlash := off > 0 && doc.content[off-1] == '\\'

	items := []protocol.CompletionItem{}
	for _, kw := range keywords {
		item := protocol.CompletionItem{
			Label:      `\` + kw,
			Kind:       protocol.CompletionItemKindKeyword,
			InsertText: `\` + kw,
		}
		if afterSlash {
			item.InsertText = kw
		}
		items = append(items, item)
	}
	if !afterSlash {
		for _, k := range keys(doc) {
			items = append(items, protocol.CompletionItem{
				Label:      k,
				Kind:       protocol.CompletionItemKindProperty,
				InsertText: keyText(k) + "-",
			})
		}
	}
	return &protocol.CompletionList{Items: items}, nil
}

func keys(doc *document) []string {
	seen := map[string]bool{}
	var visit func(*ir.Node)
	visit = func(node *ir.Node) {
		for _, f := range node.Fields {
			seen[f.String] = true
		}
		for _, v := range node.Values {
			visit(v)
		}
	}
	for _, p := range doc.parts {
		if p.node != nil {
			visit(p.node)
		}
	}
	res := make([]string, 0, len(seen))
	for k := range seen {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

func keyText(k string) string {
	if token.NeedsQuote(k) {
		return token.Quote(k)
	}
	return k
}
