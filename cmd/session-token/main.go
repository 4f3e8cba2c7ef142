// Package main provides a one-shot utility for websocket session auth: it
// generates signing secrets and signs player session tokens.
package main

import (
	"flag"
	"os"

	"github.com/louisbranch/fableroom/internal/platform/config"
	"github.com/louisbranch/fableroom/internal/tools/sessiontoken"
)

func main() {
	cfg, err := sessiontoken.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	if err := sessiontoken.Run(cfg, os.Stdout, nil); err != nil {
		config.Exitf("session token: %v", err)
	}
}
