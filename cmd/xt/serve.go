package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/redis/go-redis/v9"
	"github.com/scott-cotton/cli"

	"github.com/signadot/xton-format/go-xton/parse"
	"github.com/signadot/xton-format/go-xton/server"
	"github.com/signadot/xton-format/go-xton/store"
)

func serve(cfg *ServeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Serve.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: serve takes no arguments", cli.ErrUsage)
	}
	sCfg, err := serveConfig(cfg)
	if err != nil {
		return err
	}
	logger := server.InitLogger(sCfg.Name)

	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			return fmt.Errorf("could not start gops agent: %w", err)
		}
		defer agent.Close()
	}

	opts := []server.Option{server.WithLogger(logger)}
	if sCfg.RedisAddr != "" {
		var sOpts []store.Option
		if sCfg.RedisPrefix != "" {
			sOpts = append(sOpts, store.WithPrefix(sCfg.RedisPrefix))
		}
		st, err := store.NewWithOptions(&redis.Options{Addr: sCfg.RedisAddr}, sOpts...)
		if err != nil {
			return err
		}
		defer st.Client().Close()
		opts = append(opts, server.WithStore(st))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(sCfg, opts...).Run(ctx)
}

func serveConfig(cfg *ServeConfig) (server.Config, error) {
	sCfg := server.DefaultConfig()
	if cfg.ConfigFile != "" {
		var err error
		sCfg, err = server.LoadConfig(cfg.ConfigFile)
		if err != nil {
			return sCfg, err
		}
	}
	if cfg.Addr != "" {
		sCfg.Addr = cfg.Addr
	}
	if cfg.MaxDepth > 0 {
		sCfg.MaxDepth = cfg.MaxDepth
	}
	if cfg.Strict {
		sCfg.DuplicateKeys = parse.RejectDuplicates
	}
	if err := sCfg.Validate(); err != nil {
		return sCfg, err
	}
	return sCfg, nil
}
