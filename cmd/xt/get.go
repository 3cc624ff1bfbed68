package main

import (
	"errors"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/ir"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	path := args[0]
	if path == "" {
		return fmt.Errorf("%w: invalid path \"\"", cli.ErrUsage)
	}
	if path[0] != '$' {
		path = "$" + path
	}
	docs, err := readDocs(cfg.MainConfig, cc, args[1:])
	if err != nil {
		return err
	}
	var res []*ir.Node
	for _, d := range docs {
		node, err := query(d.node, path)
		if err != nil {
			return fmt.Errorf("error querying %s with %s: %w", d.name, path, err)
		}
		if node != nil {
			res = append(res, node)
		}
	}
	return writeDocs(cfg.MainConfig, cc.Out, res)
}

// query returns the value at path, or, for paths selecting many values,
// an array of them.
func query(node *ir.Node, path string) (*ir.Node, error) {
	res, err := node.GetPath(path)
	if err == nil || !errors.Is(err, ir.ErrPath) {
		return res, err
	}
	nodes, lerr := node.ListPath(nil, path)
	if lerr != nil {
		return nil, err
	}
	vals := make([]*ir.Node, len(nodes))
	for i, n := range nodes {
		vals[i] = n.Clone()
	}
	return ir.FromSlice(vals), nil
}
