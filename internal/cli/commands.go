package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/service"
	"github.com/ndewijer/fundnav/internal/validation"
)

// infoCmd implements the "info" command.
type infoCmd struct {
	env *Env
}

func (*infoCmd) Name() string     { return "info" }
func (*infoCmd) Synopsis() string { return "prints a fund's identity" }
func (*infoCmd) Usage() string {
	return `info <code>

Prints the name, company, manager and category of a fund. Fields the source
could not resolve read "unresolved".
`
}

func (*infoCmd) SetFlags(*flag.FlagSet) {}

func (c *infoCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	code, ok := singleCode(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	if _, err := validation.NormalizeFundCode(code); err != nil {
		return c.env.fail("%v", err)
	}
	return c.env.printJSON(c.env.Fund.GetFundInfo(ctx, code))
}

// rangeFlags are the date bounds shared by nav and stats.
type rangeFlags struct {
	start string
	end   string
}

func (r *rangeFlags) set(f *flag.FlagSet) {
	f.StringVar(&r.start, "start", "", "first date to include, YYYY-MM-DD")
	f.StringVar(&r.end, "end", "", "last date to include, YYYY-MM-DD (default today)")
}

func (r *rangeFlags) request() (service.SeriesRequest, error) {
	start, err := validation.ParseDate("start", r.start)
	if err != nil {
		return service.SeriesRequest{}, err
	}
	end, err := validation.ParseDate("end", r.end)
	if err != nil {
		return service.SeriesRequest{}, err
	}
	if err := validation.ValidateDateRange(start, end); err != nil {
		return service.SeriesRequest{}, err
	}
	return service.SeriesRequest{Start: start, End: end}, nil
}

// navCmd implements the "nav" command.
type navCmd struct {
	env *Env
	rangeFlags
	fill bool
}

func (*navCmd) Name() string     { return "nav" }
func (*navCmd) Synopsis() string { return "prints a fund's NAV series" }
func (*navCmd) Usage() string {
	return `nav [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-fill] <code>

Prints the NAV series of a fund, updating the local cache first when it is
stale. With -fill, weekends and holidays carry the previous trading day's
values.
`
}

func (c *navCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.set(f)
	f.BoolVar(&c.fill, "fill", false, "forward-fill every calendar day")
}

func (c *navCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	code, ok := singleCode(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	req, err := c.request()
	if err != nil {
		return c.env.fail("%v", err)
	}
	req.FillMissing = c.fill

	series, err := c.env.Nav.GetSeries(ctx, code, req)
	if err != nil {
		return c.env.fail("%s: %v", apperrors.KindOf(err), err)
	}
	return c.env.printJSON(series)
}

// statsCmd implements the "stats" command.
type statsCmd struct {
	env *Env
	rangeFlags
	rf float64
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "prints performance and risk statistics" }
func (*statsCmd) Usage() string {
	return `stats [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-rf rate] <code>

Prints drawdown, volatility, Sharpe ratio, annualized return, periodic returns
and the daily return distribution of a fund over trading days.
`
}

func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	c.rangeFlags.set(f)
	f.Float64Var(&c.rf, "rf", 0, "annual risk-free rate as a decimal (default from RISK_FREE_RATE)")
}

func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	code, ok := singleCode(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	req, err := c.request()
	if err != nil {
		return c.env.fail("%v", err)
	}
	rate := c.rf
	if !rateSet(f) {
		rate = c.env.Analytics.DefaultRiskFreeRate()
	}

	result, err := c.env.Analytics.Report(ctx, code, req, rate)
	if err != nil {
		return c.env.fail("%s: %v", apperrors.KindOf(err), err)
	}
	return c.env.printJSON(result)
}

func rateSet(f *flag.FlagSet) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == "rf" {
			set = true
		}
	})
	return set
}

// refreshCmd implements the "refresh" command.
type refreshCmd struct {
	env *Env
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "brings cached series up to date" }
func (*refreshCmd) Usage() string {
	return `refresh <code>...

Updates the cache of every fund given, one at a time. Funds that fail are
reported and do not stop the others.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	codes, err := validation.NormalizeFundCodes(f.Args())
	if err != nil {
		if len(f.Args()) == 0 {
			return subcommands.ExitUsageError
		}
		return c.env.fail("%v", err)
	}
	if err := c.env.Nav.Refresh(ctx, codes); err != nil {
		return c.env.fail("%v", err)
	}
	return c.env.printJSON(map[string]interface{}{"refreshed": codes})
}

// evictCmd implements the "evict" command.
type evictCmd struct {
	env *Env
}

func (*evictCmd) Name() string     { return "evict" }
func (*evictCmd) Synopsis() string { return "removes a fund from the local cache" }
func (*evictCmd) Usage() string {
	return `evict <code>

Deletes the cached series of a fund. The next request fetches the full history.
`
}

func (*evictCmd) SetFlags(*flag.FlagSet) {}

func (c *evictCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	code, ok := singleCode(f)
	if !ok {
		return subcommands.ExitUsageError
	}
	if err := c.env.Nav.Evict(code); err != nil {
		return c.env.fail("%v", err)
	}
	return c.env.printJSON(map[string]string{"evicted": code})
}
