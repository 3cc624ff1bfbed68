package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/convert"
	"github.com/signadot/xton-format/go-xton/format"
	"github.com/signadot/xton-format/go-xton/ir"
)

// docSep separates documents in a stream. It never starts a valid XTon
// document.
const docSep = "\n---\n"

type doc struct {
	name string
	data []byte
	node *ir.Node
}

func readFile(cc *cli.Context, file string) ([]byte, error) {
	var r io.Reader
	if file == "-" {
		r = cc.In
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", file, err)
	}
	return d, nil
}

// splitDocs splits an XTon stream into documents. Other formats hold one
// document per input.
func splitDocs(d []byte, f format.Format) [][]byte {
	if f != format.XTonFormat {
		return [][]byte{d}
	}
	return bytes.Split(d, []byte(docSep))
}

// readDocs decodes the documents of each file, or of standard input when
// there are no files.
func readDocs(cfg *MainConfig, cc *cli.Context, files []string) ([]doc, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	var res []doc
	for _, file := range files {
		d, err := readFile(cc, file)
		if err != nil {
			return nil, err
		}
		f := cfg.inFormat(file)
		for i, part := range splitDocs(d, f) {
			node, err := convert.Decode(part, f, cfg.parseOpts()...)
			if err != nil {
				return nil, fmt.Errorf("error decoding %s document %d: %w", file, i, err)
			}
			res = append(res, doc{name: file, data: part, node: node})
		}
	}
	return res, nil
}

func writeDocs(cfg *MainConfig, w io.Writer, nodes []*ir.Node) error {
	f := cfg.outFormat()
	opts := cfg.encOpts(w)
	for i, node := range nodes {
		if i > 0 {
			if _, err := io.WriteString(w, docSep); err != nil {
				return err
			}
		}
		if err := convert.Encode(node, w, f, opts...); err != nil {
			return fmt.Errorf("error encoding result %d: %w", i, err)
		}
	}
	if len(nodes) > 0 && f == format.XTonFormat {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}

func nodesOf(docs []doc) []*ir.Node {
	res := make([]*ir.Node, len(docs))
	for i := range docs {
		res[i] = docs[i].node
	}
	return res
}
