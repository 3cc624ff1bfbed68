package main

import (
	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/eval"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "I",
			Aliases:     []string{"ifmt"},
			Description: "input format: xton/x, json/j, yaml/y, toml (default from file suffix)",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(format)"),
		}, &cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: xton/x, json/j, yaml/y, toml",
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "xt").
		WithSynopsis("xt [opts] command [opts]").
		WithDescription("xt is a tool for working with XTon documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xtMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			CheckCommand(cfg),
			ConvCommand(cfg),
			GetCommand(cfg),
			EvalCommand(cfg),
			DiffCommand(cfg),
			PatchCommand(cfg),
			MatchCommand(cfg),
			ServeCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("decode and re-encode documents, in color on a terminal").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func CheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CheckConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithAliases("c").
		WithSynopsis("check [-q] [files]").
		WithDescription("validate documents, reporting errors as file:line:col").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return check(cfg, cc, args)
		})
}

func ConvCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Conv, "conv").
		WithSynopsis("conv -I <format> -O <format> [files]").
		WithDescription("convert documents between xton, json, yaml and toml").
		WithRun(func(cc *cli.Context, args []string) error {
			return conv(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <path> [files]").
		WithDescription("get the values at a path such as $.a[0].b, $.a[*] or $..b").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func EvalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EvalConfig{MainConfig: mainCfg, Env: eval.Env{}}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "e",
			Description: "set an expression variable",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(path=val)"),
		})
	return cli.NewCommandAt(&cfg.Eval, "eval").
		WithAliases("e", "ev").
		WithSynopsis("eval [-e path=val]... (<expr> [files] | -x [files])").
		WithDescription("evaluate an expression with each document bound to 'doc', or expand $[...] in documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xtEval(cfg, cc, args)
		})
}

func envOptTypeFunc(env eval.Env) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := env.Set(a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d", "di").
		WithSynopsis("diff [-r] [-text] a b").
		WithDescription("diff two documents, exiting 1 if they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p", "pa").
		WithSynopsis("patch [-merge] [-s|-f] <patch> [files]").
		WithDescription("apply a JSON patch (or, with -merge, a merge patch) to documents").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xtPatch(cfg, cc, args)
		})
}

func MatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "match").
		WithAliases("m").
		WithSynopsis("match [opts] <matchobj> [files]").
		WithDescription("output the documents matching a match document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return match(cfg, cc, args)
		})
}

func ServeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ServeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Serve, "serve").
		WithSynopsis("serve [-config file.toml] [-addr addr] [-gops]").
		WithDescription("run the XTon HTTP service").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return serve(cfg, cc, args)
		})
}
