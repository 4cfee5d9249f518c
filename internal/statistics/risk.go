package statistics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ndewijer/fundnav/internal/model"
)

// MaxDrawdown returns the largest peak-to-trough decline of the unit NAV in
// percent, as a value <= 0. An empty series yields 0.
//
// Formula: min over t of (Nav[t] - max(Nav[0..t])) / max(Nav[0..t]) × 100
func MaxDrawdown(series model.NavSeries) float64 {
	var peak, worst float64
	for i, nav := range series.Navs() {
		if i == 0 || nav > peak {
			peak = nav
		}
		if peak <= 0 {
			continue
		}
		if dd := (nav - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst * 100
}

// Volatility returns the annualized volatility in percent: the sample
// standard deviation of daily returns × √252 × 100. Fewer than two returns
// yield 0.
func Volatility(series model.NavSeries) float64 {
	returns := DailyReturns(series)
	if len(returns) < 2 {
		return 0
	}
	return finite(stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear) * 100)
}

// SharpeRatio returns the annualized Sharpe ratio of daily excess returns
// over riskFreeRate/252.
//
// Sharpe = mean(excess) / std(excess) × √252
//
// It is 0 when the standard deviation of excess returns is zero or undefined,
// which includes series with fewer than two returns.
func SharpeRatio(series model.NavSeries, riskFreeRate float64) float64 {
	returns := DailyReturns(series)
	if len(returns) < 2 {
		return 0
	}

	daily := riskFreeRate / TradingDaysPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - daily
	}

	mean, std := stat.MeanStdDev(excess, nil)
	if std == 0 || math.IsNaN(std) {
		return 0
	}
	return finite(mean / std * math.Sqrt(TradingDaysPerYear))
}

// AnnualReturn returns the compound annualized return in percent over the
// calendar span of the series:
//
//	((last / first) ^ (365 / days) - 1) × 100
//
// A span of zero days or less yields 0.
func AnnualReturn(series model.NavSeries) float64 {
	if series.Len() < 2 {
		return 0
	}
	first, last := series.First(), series.Last()
	days := last.Date.Sub(first.Date).Hours() / 24
	if days <= 0 || first.Nav <= 0 {
		return 0
	}
	return finite((math.Pow(last.Nav/first.Nav, 365/math.Round(days)) - 1) * 100)
}
