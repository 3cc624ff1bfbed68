package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/encode"
	"github.com/signadot/xton-format/go-xton/eval"
	"github.com/signadot/xton-format/go-xton/format"
	"github.com/signadot/xton-format/go-xton/parse"
)

type MainConfig struct {
	Color    bool `cli:"name=color desc='encode with color'"`
	MaxDepth int  `cli:"name=d desc='maximum nesting depth (default 512)'"`
	Strict   bool `cli:"name=strict desc='reject duplicate keys'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

func (cfg *MainConfig) parseOpts() []parse.ParseOption {
	res := []parse.ParseOption{parse.ParseMaxDepth(cfg.MaxDepth)}
	if cfg.Strict {
		res = append(res, parse.ParseDuplicateKeys(parse.RejectDuplicates))
	}
	return res
}

// inFormat is the format of file: -I if given, else guessed from the
// file name.
func (cfg *MainConfig) inFormat(file string) format.Format {
	if cfg.InFormat != nil {
		return *cfg.InFormat
	}
	return format.FromSuffix(file)
}

func (cfg *MainConfig) outFormat() format.Format {
	if cfg.OutFormat != nil {
		return *cfg.OutFormat
	}
	return format.XTonFormat
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{}
	if cfg.MaxDepth > 0 {
		res = append(res, encode.EncodeMaxDepth(cfg.MaxDepth))
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

type ViewConfig struct {
	*MainConfig
	View *cli.Command
}

type CheckConfig struct {
	*MainConfig
	Quiet bool `cli:"name=q desc='only set the exit status'"`
	Check *cli.Command
}

type ConvConfig struct {
	*MainConfig
	Conv *cli.Command
}

type GetConfig struct {
	*MainConfig
	Get *cli.Command
}

type EvalConfig struct {
	*MainConfig
	Env    eval.Env
	Expand bool `cli:"name=x desc='expand $[...] expressions in the documents'"`
	Null   bool `cli:"name=n desc='evaluate without reading input'"`

	Eval *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Reverse bool `cli:"name=r desc='reverse the diff'"`
	Text    bool `cli:"name=text desc='show a character diff of the encodings'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge  bool `cli:"name=merge desc='patch is a merge patch'"`
	String bool `cli:"name=s desc='patch arg as string'"`
	File   bool `cli:"name=f desc='patch arg as file'"`

	Patch *cli.Command
}

type MatchConfig struct {
	*cli.Command
	*MainConfig

	Trim   bool `cli:"name=trim desc='trim the results to the match'"`
	String bool `cli:"name=s desc='consider match a string argument'"`
	File   bool `cli:"name=f desc='consider match a file path'"`
}

type ServeConfig struct {
	*MainConfig
	ConfigFile string `cli:"name=config desc='configuration file (toml)'"`
	Addr       string `cli:"name=addr desc='TCP listen address, overrides the config file'"`
	Gops       bool   `cli:"name=gops desc='start the gops diagnostics agent'"`

	Serve *cli.Command
}
