package statistics

import (
	"time"

	"github.com/ndewijer/fundnav/internal/model"
)

// bucketEnd maps a date to the last calendar day of the bucket holding it.
type bucketEnd func(time.Time) time.Time

func monthEnd(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC)
}

func quarterEnd(d time.Time) time.Time {
	q := (int(d.Month())-1)/3 + 1
	return time.Date(d.Year(), time.Month(q*3)+1, 0, 0, 0, 0, 0, time.UTC)
}

func yearEnd(d time.Time) time.Time {
	return time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// PeriodReturns compounds daily returns per calendar month, quarter and year.
// Each bucket's return is ∏(1 + r) − 1 in percent, labelled by the bucket's
// last calendar day. Every bucket from the first to the last record is
// present; a bucket without returns reports 0.
func PeriodReturns(series model.NavSeries) (monthly, quarterly, yearly []model.PeriodReturn) {
	return periodReturns(series, monthEnd),
		periodReturns(series, quarterEnd),
		periodReturns(series, yearEnd)
}

func periodReturns(series model.NavSeries, end bucketEnd) []model.PeriodReturn {
	out := []model.PeriodReturn{}
	if series.Empty() {
		return out
	}

	growth := map[time.Time]float64{}
	for i := 1; i < series.Len(); i++ {
		r, ok := simpleReturn(series.Records[i-1].Nav, series.Records[i].Nav)
		if !ok {
			continue
		}
		key := end(series.Records[i].Date)
		g, seen := growth[key]
		if !seen {
			g = 1
		}
		growth[key] = g * (1 + r)
	}

	last := end(series.MaxDate())
	for b := end(series.MinDate()); !b.After(last); b = end(b.AddDate(0, 0, 1)) {
		ret := 0.0
		if g, ok := growth[b]; ok {
			ret = (g - 1) * 100
		}
		out = append(out, model.PeriodReturn{PeriodEnd: b, Return: finite(ret)})
	}
	return out
}
