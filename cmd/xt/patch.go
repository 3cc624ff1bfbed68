package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/convert"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/patch"
)

func xtPatch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch argument", cli.ErrUsage)
	}
	p, err := getish(cfg.MainConfig, cfg.String, cfg.File, cc, args[0])
	if err != nil {
		return err
	}
	docs, err := readDocs(cfg.MainConfig, cc, args[1:])
	if err != nil {
		return err
	}
	res := make([]*ir.Node, 0, len(docs))
	for _, d := range docs {
		var node *ir.Node
		if cfg.Merge {
			node, err = patch.Merge(d.node, p)
		} else {
			node, err = patch.Apply(d.node, p)
		}
		if err != nil {
			return fmt.Errorf("error patching %s: %w", d.name, err)
		}
		res = append(res, node)
	}
	return writeDocs(cfg.MainConfig, cc.Out, res)
}

// getish reads a document given on the command line, either inline (the
// default, or -s) or from a file (-f).
func getish(cfg *MainConfig, s, f bool, cc *cli.Context, arg string) (*ir.Node, error) {
	if s && f {
		return nil, fmt.Errorf("%w: only one of -s, -f may be specified", cli.ErrUsage)
	}
	var r io.Reader
	file := ""
	if f {
		switch arg {
		case "-":
			r = cc.In
		default:
			fd, err := os.Open(arg)
			if err != nil {
				return nil, fmt.Errorf("error opening %s: %w", arg, err)
			}
			defer fd.Close()
			r = fd
			file = arg
		}
	} else {
		r = strings.NewReader(arg)
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", arg, err)
	}
	res, err := convert.Decode(d, cfg.inFormat(file), cfg.parseOpts()...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %q: %w", arg, err)
	}
	return res, nil
}
