package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	xton "github.com/signadot/xton-format/go-xton"
	"github.com/signadot/xton-format/go-xton/ir"
)

func match(cfg *MatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Command.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: match requires 1 argument, a match object", cli.ErrUsage)
	}
	m, err := getish(cfg.MainConfig, cfg.String, cfg.File, cc, args[0])
	if err != nil {
		return fmt.Errorf("error reading match: %w", err)
	}
	docs, err := readDocs(cfg.MainConfig, cc, args[1:])
	if err != nil {
		return err
	}
	var res []*ir.Node
	for _, d := range docs {
		if !xton.Match(d.node, m) {
			continue
		}
		node := d.node
		if cfg.Trim {
			node = trim(m, node)
		}
		res = append(res, node)
	}
	return writeDocs(cfg.MainConfig, cc.Out, res)
}

// trim cuts doc down to the parts named by match. doc must match match.
func trim(match, doc *ir.Node) *ir.Node {
	switch match.Type {
	case ir.ObjectType:
		if doc.Type != ir.ObjectType {
			return doc.Clone()
		}
		var kvs []ir.KeyVal
		for i, field := range doc.Fields {
			matchVal := ir.Get(match, field.String)
			if matchVal == nil {
				continue
			}
			kvs = append(kvs, ir.KeyVal{Key: field.String, Val: trim(matchVal, doc.Values[i])})
		}
		return ir.FromKeyVals(kvs)
	case ir.ArrayType:
		if doc.Type != ir.ArrayType {
			return doc.Clone()
		}
		n := min(len(match.Values), len(doc.Values))
		res := make([]*ir.Node, n)
		for i := range n {
			res[i] = trim(match.Values[i], doc.Values[i])
		}
		return ir.FromSlice(res)
	default:
		return doc.Clone()
	}
}
