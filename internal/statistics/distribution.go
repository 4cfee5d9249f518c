package statistics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ndewijer/fundnav/internal/model"
)

// DistributionPercentiles are the percentiles reported by ReturnDistribution.
var DistributionPercentiles = []int{1, 5, 10, 25, 75, 90, 95, 99}

// ReturnDistribution describes the daily return distribution. Every figure
// is in percent except skew and kurtosis. Skew is the adjusted
// Fisher-Pearson coefficient and kurtosis is the sample excess kurtosis;
// both are 0 when the sample is too small or has no spread.
func ReturnDistribution(series model.NavSeries) model.ReturnDistribution {
	returns := DailyReturns(series)
	dist := model.ReturnDistribution{
		Count:       len(returns),
		Percentiles: make(map[int]float64, len(DistributionPercentiles)),
	}
	if len(returns) == 0 {
		for _, p := range DistributionPercentiles {
			dist.Percentiles[p] = 0
		}
		return dist
	}

	sorted := append([]float64(nil), returns...)
	sort.Float64s(sorted)

	dist.Mean = stat.Mean(returns, nil) * 100
	dist.Min = sorted[0] * 100
	dist.Max = sorted[len(sorted)-1] * 100
	dist.Median = percentile(sorted, 50) * 100

	if len(returns) >= 2 {
		std := stat.StdDev(returns, nil)
		dist.Std = finite(std * 100)
		if std > 0 {
			if len(returns) >= 3 {
				dist.Skew = finite(stat.Skew(returns, nil))
			}
			if len(returns) >= 4 {
				dist.Kurtosis = finite(stat.ExKurtosis(returns, nil))
			}
		}
	}

	for _, p := range DistributionPercentiles {
		dist.Percentiles[p] = percentile(sorted, float64(p)) * 100
	}
	return dist
}

// percentile interpolates linearly between the order statistics of sorted at
// rank p/100 × (n − 1).
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
