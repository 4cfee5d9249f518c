package model

import (
	"time"
)

// DateLayout is the calendar date format used by the source and the cache.
const DateLayout = "2006-01-02"

// TimestampLayout is the format of CacheMetadata.LastUpdate on disk.
const TimestampLayout = "2006-01-02 15:04:05"

// NavRecord is one trading day of a fund's NAV history.
// For money-market funds Nav carries the yield per 10,000 units and AccNav is nil.
type NavRecord struct {
	Date               time.Time `json:"date"`
	Nav                float64   `json:"nav"`
	AccNav             *float64  `json:"accNav,omitempty"`
	AnnualYield        *float64  `json:"annualYield,omitempty"`
	SubscriptionStatus string    `json:"subscriptionStatus,omitempty"`
	RedemptionStatus   string    `json:"redemptionStatus,omitempty"`
	Dividend           string    `json:"dividend,omitempty"`
}

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CacheMetadata describes the persisted state of one fund's series.
type CacheMetadata struct {
	LastUpdate time.Time `json:"lastUpdate"`
	FundCode   string    `json:"fundCode"`
	DataCount  int       `json:"dataCount"`
	DateRange  DateRange `json:"dateRange"`
}

// NavSeries is the ascending, date-unique NAV history of one fund.
type NavSeries struct {
	Code     string        `json:"code"`
	Records  []NavRecord   `json:"records"`
	Metadata CacheMetadata `json:"metadata"`
}

// EmptySeries returns a series for code with no records.
func EmptySeries(code string) NavSeries {
	return NavSeries{Code: code, Records: []NavRecord{}}
}

// Len returns the number of records.
func (s NavSeries) Len() int { return len(s.Records) }

// Empty reports whether the series has no records.
func (s NavSeries) Empty() bool { return len(s.Records) == 0 }

// First returns the oldest record. Callers must check Empty first.
func (s NavSeries) First() NavRecord { return s.Records[0] }

// Last returns the newest record. Callers must check Empty first.
func (s NavSeries) Last() NavRecord { return s.Records[len(s.Records)-1] }

// MinDate returns the first date, or the zero time for an empty series.
func (s NavSeries) MinDate() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.First().Date
}

// MaxDate returns the last date, or the zero time for an empty series.
func (s NavSeries) MaxDate() time.Time {
	if s.Empty() {
		return time.Time{}
	}
	return s.Last().Date
}

// HasAccNav reports whether any record carries an accumulated NAV.
func (s NavSeries) HasAccNav() bool {
	return HasAccNav(s.Records)
}

// Navs returns the unit NAV column.
func (s NavSeries) Navs() []float64 {
	navs := make([]float64, len(s.Records))
	for i, r := range s.Records {
		navs[i] = r.Nav
	}
	return navs
}

// Between returns the records within [start, end]. A zero bound is open.
// Metadata is kept as-is since it describes the persisted series.
func (s NavSeries) Between(start, end time.Time) NavSeries {
	out := NavSeries{Code: s.Code, Metadata: s.Metadata, Records: make([]NavRecord, 0, len(s.Records))}
	for _, r := range s.Records {
		if !start.IsZero() && r.Date.Before(start) {
			continue
		}
		if !end.IsZero() && r.Date.After(end) {
			continue
		}
		out.Records = append(out.Records, r)
	}
	return out
}

// HasAccNav reports whether any record carries an accumulated NAV.
func HasAccNav(records []NavRecord) bool {
	for _, r := range records {
		if r.AccNav != nil {
			return true
		}
	}
	return false
}

// StoredRecords returns records reduced to the columns the cache keeps:
// date, nav and acc_nav.
func StoredRecords(records []NavRecord) []NavRecord {
	out := make([]NavRecord, len(records))
	for i, r := range records {
		out[i] = NavRecord{Date: r.Date, Nav: r.Nav, AccNav: r.AccNav}
	}
	return out
}

// Day truncates t to its calendar date at UTC midnight, keeping the wall
// clock date of t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
