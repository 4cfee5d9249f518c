package service

import (
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/normalize"
)

// MergeRecords concatenates cached and fresh records, keeps the last record
// seen for each date and sorts ascending.
func MergeRecords(cached, fresh []model.NavRecord) []model.NavRecord {
	merged := make([]model.NavRecord, 0, len(cached)+len(fresh))
	merged = append(merged, cached...)
	merged = append(merged, fresh...)
	return normalize.Dedupe(merged)
}

// FillMissing reindexes records to every calendar day between the first and
// the last date. A missing day repeats the previous record with its own date.
func FillMissing(records []model.NavRecord) []model.NavRecord {
	if len(records) < 2 {
		return records
	}

	first := records[0].Date
	last := records[len(records)-1].Date
	days := int(last.Sub(first).Hours()/24) + 1

	filled := make([]model.NavRecord, 0, days)
	next := 0
	var prev model.NavRecord
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		if next < len(records) && records[next].Date.Equal(d) {
			prev = records[next]
			next++
		} else {
			prev.Date = d
		}
		filled = append(filled, prev)
	}
	return filled
}
