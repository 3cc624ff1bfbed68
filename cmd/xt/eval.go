package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/eval"
	"github.com/signadot/xton-format/go-xton/ir"
)

func xtEval(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Expand {
		docs, err := readDocs(cfg.MainConfig, cc, args)
		if err != nil {
			return err
		}
		res := make([]*ir.Node, 0, len(docs))
		for _, d := range docs {
			node, err := eval.ExpandEnv(d.node, cfg.Env)
			if err != nil {
				return fmt.Errorf("error expanding %s: %w", d.name, err)
			}
			res = append(res, node)
		}
		return writeDocs(cfg.MainConfig, cc.Out, res)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: eval requires an expression", cli.ErrUsage)
	}
	expression := args[0]
	if cfg.Null {
		node, err := eval.EvalNode(expression, ir.Null(), cfg.Env)
		if err != nil {
			return err
		}
		return writeDocs(cfg.MainConfig, cc.Out, []*ir.Node{node})
	}
	docs, err := readDocs(cfg.MainConfig, cc, args[1:])
	if err != nil {
		return err
	}
	res := make([]*ir.Node, 0, len(docs))
	for _, d := range docs {
		node, err := eval.EvalNode(expression, d.node, cfg.Env)
		if err != nil {
			return fmt.Errorf("error evaluating on %s: %w", d.name, err)
		}
		res = append(res, node)
	}
	return writeDocs(cfg.MainConfig, cc.Out, res)
}
