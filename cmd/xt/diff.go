package main

import (
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/ir"
	"github.com/signadot/xton-format/go-xton/libdiff"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 arguments", cli.ErrUsage)
	}
	from, err := diffDoc(cfg, cc, args[0])
	if err != nil {
		return err
	}
	to, err := diffDoc(cfg, cc, args[1])
	if err != nil {
		return err
	}
	if cfg.Reverse {
		from, to = to, from
	}
	if cfg.Text {
		return textDiff(cfg, cc.Out, from, to)
	}
	changes := libdiff.Diff(from, to)
	if len(changes) == 0 {
		return nil
	}
	if err := writeDocs(cfg.MainConfig, cc.Out, []*ir.Node{libdiff.ToIR(changes)}); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

func diffDoc(cfg *DiffConfig, cc *cli.Context, file string) (*ir.Node, error) {
	docs, err := readDocs(cfg.MainConfig, cc, []string{file})
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, fmt.Errorf("%w: %s has %d documents, diff takes one", cli.ErrUsage, file, len(docs))
	}
	return docs[0].node, nil
}

func textDiff(cfg *DiffConfig, w io.Writer, from, to *ir.Node) error {
	a, err := encode.String(from)
	if err != nil {
		return err
	}
	b, err := encode.String(to)
	if err != nil {
		return err
	}
	d := libdiff.Text(a, b, cfg.Color)
	if d == "" {
		return nil
	}
	if _, err := fmt.Fprintln(w, d); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}
