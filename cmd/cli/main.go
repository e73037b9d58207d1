package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/plasticoslc/console/internal/buildinfo"
	"github.com/plasticoslc/console/internal/client/cli"
	"github.com/plasticoslc/console/internal/client/config"
	"github.com/plasticoslc/console/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if s, ok := log.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		// the REPL blocks on stdin; a second interrupt kills the process
		<-ctx.Done()
		stop()
	}()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start console", "error", err)
		stop()
		os.Exit(1)
	}

	app.Run(ctx)
}
