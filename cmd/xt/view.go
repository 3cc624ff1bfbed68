package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	docs, err := readDocs(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	return writeDocs(cfg.MainConfig, cc.Out, nodesOf(docs))
}

func conv(cfg *ConvConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Conv.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.OutFormat == nil {
		return fmt.Errorf("%w: conv requires an output format (-O)", cli.ErrUsage)
	}
	docs, err := readDocs(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	return writeDocs(cfg.MainConfig, cc.Out, nodesOf(docs))
}
