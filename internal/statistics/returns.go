// Package statistics computes performance and risk figures over a NAV series.
// Every function is pure; percentages are returned unrounded unless noted.
package statistics

import (
	"math"

	"github.com/ndewijer/fundnav/internal/model"
)

// TradingDaysPerYear annualizes daily figures.
const TradingDaysPerYear = 252

// DefaultRiskFreeRate is the annual risk-free rate used when none is given.
const DefaultRiskFreeRate = 0.03

// DailyReturns computes simple day-over-day returns of the unit NAV.
// The undefined return of the first record is dropped, as are non-finite
// values.
//
// Returns[i] = (Nav[i+1] - Nav[i]) / Nav[i]
func DailyReturns(series model.NavSeries) []float64 {
	navs := series.Navs()
	if len(navs) < 2 {
		return []float64{}
	}

	returns := make([]float64, 0, len(navs)-1)
	for i := 1; i < len(navs); i++ {
		if r, ok := simpleReturn(navs[i-1], navs[i]); ok {
			returns = append(returns, r)
		}
	}
	return returns
}

func simpleReturn(prev, cur float64) (float64, bool) {
	if prev == 0 {
		return 0, false
	}
	r := (cur - prev) / prev
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// finite maps NaN and infinities to zero so results always encode as JSON.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
