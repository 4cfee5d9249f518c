// Package cli implements the fundnav subcommands.
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/ndewijer/fundnav/internal/cache"
	"github.com/ndewijer/fundnav/internal/config"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/service"
)

// Env holds the services the commands run against and where they write.
// Results go to Out as JSON, diagnostics to Err.
type Env struct {
	Fund      *service.FundService
	Nav       *service.NavService
	Analytics *service.AnalyticsService
	Out       io.Writer
	Err       io.Writer
}

// NewEnv wires the services from cfg, writing to stdout and stderr.
func NewEnv(cfg *config.Config, log zerolog.Logger) *Env {
	client := eastmoney.NewClient(eastmoney.ClientConfig{
		F10BaseURL:    cfg.Source.F10BaseURL,
		SearchBaseURL: cfg.Source.SearchBaseURL,
		Timeout:       cfg.Source.HTTPTimeout,
		PageDelay:     cfg.Source.PageDelay,
	}, log)
	store := cache.NewStore(cfg.Cache.Dir, log)
	nav := service.NewNavService(client, store, service.NavServiceConfig{
		MaxPages:      cfg.Source.MaxPages,
		FetchDeadline: cfg.Source.FetchDeadline,
	}, log)

	return &Env{
		Fund:      service.NewFundService(client, log),
		Nav:       nav,
		Analytics: service.NewAnalyticsService(nav, cfg.Analytics.RiskFreeRate),
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
}

// Commands returns every fundnav subcommand bound to env.
func Commands(env *Env) []subcommands.Command {
	return []subcommands.Command{
		&infoCmd{env: env},
		&navCmd{env: env},
		&statsCmd{env: env},
		&refreshCmd{env: env},
		&evictCmd{env: env},
	}
}

// printJSON writes v to env.Out as indented JSON.
func (e *Env) printJSON(v interface{}) subcommands.ExitStatus {
	enc := json.NewEncoder(e.Out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return e.fail("could not encode result: %v", err)
	}
	return subcommands.ExitSuccess
}

func (e *Env) fail(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// singleCode returns the only positional argument.
func singleCode(f *flag.FlagSet) (string, bool) {
	args := f.Args()
	if len(args) != 1 {
		return "", false
	}
	return args[0], true
}
