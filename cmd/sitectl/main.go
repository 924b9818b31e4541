// Package main runs the site operator CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rust-in/site/internal/cmd/sitectl"
	"github.com/rust-in/site/internal/platform/config"
	"github.com/rust-in/site/internal/platform/logging"
)

func main() {
	defaults, err := sitectl.LoadDefaults(nil)
	if err != nil {
		config.Exitf("parse env: %v", err)
	}
	logger, err := logging.New(defaults.Logging)
	if err != nil {
		config.Exitf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sitectl.NewRootCommand(defaults, os.Stdout, logger).ExecuteContext(ctx); err != nil {
		stop()
		config.Exitf("sitectl: %v", err)
	}
}
