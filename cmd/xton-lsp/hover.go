package main

import (
	"context"
	"fmt"
	"strings"

	"go.lsp.dev/protocol"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/token"
)

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil, nil
	}
	off := offset(doc.content, params.Position)
	p := doc.partAt(off)
	if p == nil || p.node == nil {
		return nil, nil
	}
	node := findNodeAt(p.node, p.positions, off-p.base)
	if node == nil {
		return nil, nil
	}
	hoverText := buildHoverText(node)
	if hoverText == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: hoverText,
		},
	}, nil
}

// findNodeAt returns the node starting closest before off. Children win
// ties with their parents, so a key wins over a sugared object starting
// at the same place.
func findNodeAt(root *ir.Node, positions map[*ir.Node]*token.Pos, off int) *ir.Node {
	var (
		best    *ir.Node
		bestOff = -1
	)
	var visit func(*ir.Node)
	visit = func(node *ir.Node) {
		if pos := positions[node]; pos != nil && pos.I <= off && pos.I >= bestOff {
			best, bestOff = node, pos.I
		}
		for i, field := range node.Fields {
			visit(field)
			visit(node.Values[i])
		}
		if node.Type == ir.ArrayType {
			for _, v := range node.Values {
				visit(v)
			}
		}
	}
	visit(root)
	return best
}

func isKey(node *ir.Node) bool {
	if node.Parent == nil || node.Parent.Type != ir.ObjectType {
		return false
	}
	i := node.ParentIndex
	return i < len(node.Parent.Fields) && node.Parent.Fields[i] == node
}

func buildHoverText(node *ir.Node) string {
	var parts []string
	if isKey(node) {
		node = node.Parent.Values[node.ParentIndex]
		parts = append(parts, "**Key**")
	}
	parts = append(parts, fmt.Sprintf("**Path:** `%s`", node.Path()))
	parts = append(parts, fmt.Sprintf("**Type:** %s", typeInfo(node)))
	if v := valueInfo(node); v != "" {
		parts = append(parts, fmt.Sprintf("**Value:** %s", v))
	}
	return strings.Join(parts, "\n\n")
}

func typeInfo(node *ir.Node) string {
	switch node.Type {
	case ir.NullType:
		return "null"
	case ir.BoolType:
		return "boolean"
	case ir.NumberType:
		if node.Int64 != nil {
			return "integer"
		}
		return "number"
	case ir.StringType:
		return "string"
	case ir.ArrayType:
		return "array"
	case ir.ObjectType:
		return "object"
	default:
		return "unknown"
	}
}

func valueInfo(node *ir.Node) string {
	switch node.Type {
	case ir.ArrayType:
		return fmt.Sprintf("array with %d elements", len(node.Values))
	case ir.ObjectType:
		return fmt.Sprintf("object with %d keys", len(node.Fields))
	}
	v, err := encode.String(node)
	if err != nil {
		return ""
	}
	if len(v) > 50 {
		v = v[:50] + "..."
	}
	return "`" + v + "`"
}
