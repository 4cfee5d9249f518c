package testutil

import (
	"time"

	"github.com/ndewijer/fundnav/internal/model"
)

// Day parses a YYYY-MM-DD date and panics on malformed input.
func Day(s string) time.Time {
	d, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

// SeriesBuilder provides a fluent interface for building NAV histories.
type SeriesBuilder struct {
	code     string
	start    time.Time
	navs     []float64
	weekdays bool
	accNav   bool
}

// NewSeries creates a builder for code's history starting on start.
//
// Example:
//
//	history := testutil.NewSeries("000001", "2024-01-01").
//	    Navs(1.0, 1.01, 1.02).
//	    TradingDays().
//	    WithAccNav().
//	    Records()
func NewSeries(code, start string) *SeriesBuilder {
	return &SeriesBuilder{code: code, start: Day(start)}
}

// Navs sets the unit NAV of consecutive records.
func (b *SeriesBuilder) Navs(navs ...float64) *SeriesBuilder {
	b.navs = navs
	return b
}

// Rising sets n navs starting at 1.0 and growing by 0.001 per record.
func (b *SeriesBuilder) Rising(n int) *SeriesBuilder {
	b.navs = make([]float64, n)
	for i := range b.navs {
		b.navs[i] = 1.0 + float64(i)*0.001
	}
	return b
}

// TradingDays skips Saturdays and Sundays when assigning dates.
func (b *SeriesBuilder) TradingDays() *SeriesBuilder {
	b.weekdays = true
	return b
}

// WithAccNav gives every record an accumulated NAV of nav + 1.
func (b *SeriesBuilder) WithAccNav() *SeriesBuilder {
	b.accNav = true
	return b
}

// Records returns the ascending records.
func (b *SeriesBuilder) Records() []model.NavRecord {
	records := make([]model.NavRecord, 0, len(b.navs))
	d := b.start
	for _, nav := range b.navs {
		for b.weekdays && (d.Weekday() == time.Saturday || d.Weekday() == time.Sunday) {
			d = d.AddDate(0, 0, 1)
		}
		rec := model.NavRecord{Date: d, Nav: nav}
		if b.accNav {
			rec.AccNav = model.Float(nav + 1)
		}
		records = append(records, rec)
		d = d.AddDate(0, 0, 1)
	}
	return records
}

// Build returns the records as a series.
func (b *SeriesBuilder) Build() model.NavSeries {
	return model.NavSeries{Code: b.code, Records: b.Records()}
}
