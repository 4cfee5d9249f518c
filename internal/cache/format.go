package cache

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/model"
)

// metadataFile is the on-disk layout of {code}_meta.json.
type metadataFile struct {
	LastUpdate string        `json:"last_update"`
	FundCode   string        `json:"fund_code"`
	DataCount  int           `json:"data_count"`
	DateRange  dateRangeFile `json:"date_range"`
}

type dateRangeFile struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func encodeMetadata(meta model.CacheMetadata) ([]byte, error) {
	return json.MarshalIndent(metadataFile{
		LastUpdate: meta.LastUpdate.Format(model.TimestampLayout),
		FundCode:   meta.FundCode,
		DataCount:  meta.DataCount,
		DateRange: dateRangeFile{
			Start: meta.DateRange.Start.Format(model.DateLayout),
			End:   meta.DateRange.End.Format(model.DateLayout),
		},
	}, "", "    ")
}

// decodeMetadata parses the sidecar. The timestamp carries no zone and is
// read in loc, the zone of the store clock.
func decodeMetadata(data []byte, loc *time.Location) (model.CacheMetadata, error) {
	var f metadataFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.CacheMetadata{}, fmt.Errorf("%w: metadata: %v", apperrors.ErrCacheCorrupt, err)
	}

	lastUpdate, err := time.ParseInLocation(model.TimestampLayout, f.LastUpdate, loc)
	if err != nil {
		return model.CacheMetadata{}, fmt.Errorf("%w: last_update: %v", apperrors.ErrCacheCorrupt, err)
	}
	start, err := time.Parse(model.DateLayout, f.DateRange.Start)
	if err != nil {
		return model.CacheMetadata{}, fmt.Errorf("%w: date_range.start: %v", apperrors.ErrCacheCorrupt, err)
	}
	end, err := time.Parse(model.DateLayout, f.DateRange.End)
	if err != nil {
		return model.CacheMetadata{}, fmt.Errorf("%w: date_range.end: %v", apperrors.ErrCacheCorrupt, err)
	}

	return model.CacheMetadata{
		LastUpdate: lastUpdate,
		FundCode:   f.FundCode,
		DataCount:  f.DataCount,
		DateRange:  model.DateRange{Start: start, End: end},
	}, nil
}

// encodeRecords writes date,nav[,acc_nav]. The acc_nav column is present
// only when some record carries it.
func encodeRecords(records []model.NavRecord) ([]byte, error) {
	withAcc := model.HasAccNav(records)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "nav"}
	if withAcc {
		header = append(header, "acc_nav")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range records {
		row := []string{r.Date.Format(model.DateLayout), formatFloat(r.Nav)}
		if withAcc {
			acc := ""
			if r.AccNav != nil {
				acc = formatFloat(*r.AccNav)
			}
			row = append(row, acc)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeRecords(r io.Reader) ([]model.NavRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", apperrors.ErrCacheCorrupt, err)
	}
	withAcc, err := checkHeader(header)
	if err != nil {
		return nil, err
	}
	width := len(header)

	var records []model.NavRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", apperrors.ErrCacheCorrupt, line, err)
		}
		if len(row) != width {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", apperrors.ErrCacheCorrupt, line, len(row), width)
		}

		date, err := time.Parse(model.DateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid date %q", apperrors.ErrCacheCorrupt, line, row[0])
		}
		nav, err := parsePositive(row[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid nav %q", apperrors.ErrCacheCorrupt, line, row[1])
		}
		rec := model.NavRecord{Date: date, Nav: nav}

		if withAcc && row[2] != "" {
			acc, err := parsePositive(row[2])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid acc_nav %q", apperrors.ErrCacheCorrupt, line, row[2])
			}
			rec.AccNav = &acc
		}

		if n := len(records); n > 0 && !records[n-1].Date.Before(date) {
			return nil, fmt.Errorf("%w: line %d: dates not strictly increasing", apperrors.ErrCacheCorrupt, line)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rows", apperrors.ErrCacheCorrupt)
	}
	return records, nil
}

func checkHeader(header []string) (withAcc bool, err error) {
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	switch {
	case len(header) == 2 && header[0] == "date" && header[1] == "nav":
		return false, nil
	case len(header) == 3 && header[0] == "date" && header[1] == "nav" && header[2] == "acc_nav":
		return true, nil
	}
	return false, fmt.Errorf("%w: unexpected header %v", apperrors.ErrCacheCorrupt, header)
}

func parsePositive(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("not a positive number")
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
