// Package main provides a CLI for importing and listing scenarios.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	scenariocmd "github.com/louisbranch/fableroom/internal/cmd/scenario"
	"github.com/louisbranch/fableroom/internal/platform/config"
)

func main() {
	cfg, err := scenariocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := scenariocmd.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
