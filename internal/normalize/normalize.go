package normalize

import (
	"sort"
	"strings"

	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
)

// Normalize converts a raw page into typed records, ascending by date with
// at most one record per date. Rows without a date or without a positive
// primary value are dropped.
func Normalize(page eastmoney.RawPage, schema Schema) ([]model.NavRecord, error) {
	if err := Validate(schema, page); err != nil {
		return nil, err
	}

	records := make([]model.NavRecord, 0, len(page.Rows))
	for _, row := range page.Rows {
		rec, ok := normalizeRow(row, schema)
		if ok {
			records = append(records, rec)
		}
	}
	return Dedupe(records), nil
}

func normalizeRow(row []string, schema Schema) (model.NavRecord, bool) {
	if len(row) < 2 {
		return model.NavRecord{}, false
	}
	date, ok := ParseDate(row[0])
	if !ok {
		return model.NavRecord{}, false
	}
	primary := ParseNumber(row[1])
	if primary == nil || *primary <= 0 {
		return model.NavRecord{}, false
	}

	rec := model.NavRecord{Date: date, Nav: *primary}
	switch schema {
	case SchemaMoneyMarket:
		rec.AnnualYield = ParseNumber(cell(row, 2))
		rec.SubscriptionStatus = cell(row, 3)
		rec.RedemptionStatus = cell(row, 4)
		rec.Dividend = cell(row, 5)
	default:
		if acc := ParseNumber(cell(row, 2)); acc != nil && *acc > 0 {
			rec.AccNav = acc
		}
		rec.SubscriptionStatus = cell(row, 4)
		rec.RedemptionStatus = cell(row, 5)
		rec.Dividend = cell(row, 6)
	}
	return rec, true
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Dedupe sorts records ascending by date and keeps the last record seen for
// each date.
func Dedupe(records []model.NavRecord) []model.NavRecord {
	byDate := make(map[int64]int, len(records))
	out := make([]model.NavRecord, 0, len(records))
	for _, r := range records {
		key := r.Date.Unix()
		if i, seen := byDate[key]; seen {
			out[i] = r
			continue
		}
		byDate[key] = len(out)
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
