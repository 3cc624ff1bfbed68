package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/convert"
	"github.com/signadot/xton-format/go-xton/token"
)

func check(cfg *CheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	failed := 0
	for _, file := range args {
		d, err := readFile(cc, file)
		if err != nil {
			return err
		}
		f := cfg.inFormat(file)
		// line numbers are relative to the whole file, so track where
		// each document starts.
		lineBase := 0
		for _, part := range splitDocs(d, f) {
			if _, err := convert.Decode(part, f, cfg.parseOpts()...); err != nil {
				failed++
				if !cfg.Quiet {
					report(cc.Out, file, lineBase, err)
				}
			}
			lineBase += countLines(part) + 2
		}
	}
	if failed > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func countLines(d []byte) int {
	n := 0
	for _, c := range d {
		if c == '\n' {
			n++
		}
	}
	return n
}

func report(w io.Writer, file string, lineBase int, err error) {
	var de *token.DecodeError
	if errors.As(err, &de) && de.Pos != nil {
		line, col := de.Pos.LineCol()
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", file, lineBase+line+1, col+1, de.Kind, de.Kind.Err())
		return
	}
	fmt.Fprintf(w, "%s: %v\n", file, err)
}
