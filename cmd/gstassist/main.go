package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"gstassist/internal/app"
	"gstassist/internal/cli"
	"gstassist/internal/config"
	"gstassist/internal/extract"
	"gstassist/internal/logging"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)

	cfg, err := config.Load(os.Getenv("GA_CONFIG"))
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Fatal: %s", err.Error()))
		os.Exit(1)
	}
	closer, err := logging.Setup(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Fatal: %s", err.Error()))
		os.Exit(1)
	}
	defer closer.Close()
	// Tier warnings are noise on a terminal unless they go to a file.
	if cfg.Log.File == "" {
		log.SetOutput(io.Discard)
	}

	cli.Res = app.NewResolver(cfg, nil)
	cli.Ext = extract.New(cfg.Extract.Documents, cfg.Extract.MaxBytes)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = cli.Execute(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %s", err.Error()))
		closer.Close()
		os.Exit(1)
	}
}
