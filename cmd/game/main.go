// Package main starts the simulation server or plays turns headless.
package main

import (
	"flag"
	"os"

	gamecmd "github.com/louisbranch/singularity/internal/cmd/game"
	entrypoint "github.com/louisbranch/singularity/internal/platform/cmd"
	"github.com/louisbranch/singularity/internal/platform/config"
)

func main() {
	cfg, err := gamecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	ctx, stop := entrypoint.SignalContext()
	defer stop()

	if err := gamecmd.Run(ctx, cfg); err != nil {
		config.Exitf("game: %v", err)
	}
}
