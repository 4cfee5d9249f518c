package statistics

import (
	"math"

	"github.com/ndewijer/fundnav/internal/model"
)

// RoundingPrecision is the factor used to round report figures to two
// decimals.
const RoundingPrecision = 100.0

func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// Summarize assembles a full report for series, rounding every figure to two
// decimals.
func Summarize(series model.NavSeries, riskFreeRate float64) model.StatisticsResult {
	result := model.StatisticsResult{
		Code:         series.Code,
		Observations: series.Len(),
		RiskFreeRate: riskFreeRate,
		MaxDrawdown:  round(MaxDrawdown(series)),
		Volatility:   round(Volatility(series)),
		SharpeRatio:  round(SharpeRatio(series, riskFreeRate)),
		AnnualReturn: round(AnnualReturn(series)),
	}
	if !series.Empty() {
		result.Start = series.MinDate()
		result.End = series.MaxDate()
	}

	monthly, quarterly, yearly := PeriodReturns(series)
	result.Monthly = roundPeriods(monthly)
	result.Quarterly = roundPeriods(quarterly)
	result.Yearly = roundPeriods(yearly)

	dist := ReturnDistribution(series)
	dist.Mean = round(dist.Mean)
	dist.Std = round(dist.Std)
	dist.Skew = round(dist.Skew)
	dist.Kurtosis = round(dist.Kurtosis)
	dist.Min = round(dist.Min)
	dist.Max = round(dist.Max)
	dist.Median = round(dist.Median)
	for p, v := range dist.Percentiles {
		dist.Percentiles[p] = round(v)
	}
	result.Distribution = dist

	return result
}

func roundPeriods(periods []model.PeriodReturn) []model.PeriodReturn {
	for i := range periods {
		periods[i].Return = round(periods[i].Return)
	}
	return periods
}
