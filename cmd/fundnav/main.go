// Command fundnav fetches, caches and analyzes fund NAV series from the
// command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"

	"github.com/ndewijer/fundnav/internal/cli"
	"github.com/ndewijer/fundnav/internal/config"
	"github.com/ndewijer/fundnav/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(int(subcommands.ExitFailure))
	}

	// Results go to stdout; keep logs on stderr and quiet by default.
	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" {
		level = "warn"
	}
	log := logger.New(logger.Config{Level: level, Pretty: true})
	logger.SetGlobalLogger(log)

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range cli.Commands(cli.NewEnv(cfg, log)) {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
