package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/fundnav/internal/model"
)

// markerReplacer removes the characters the source uses to flag estimated or
// adjusted values, plus thousands separators and stray whitespace.
var markerReplacer = strings.NewReplacer(
	"*", "",
	"＊", "",
	",", "",
	"，", "",
	"%", "",
	" ", "",
	"\u00a0", "",
	"\u3000", "",
	"\t", "",
)

// ParseDate parses a YYYY-MM-DD cell after stripping markers. It returns
// false when the cell is not a date.
func ParseDate(cell string) (time.Time, bool) {
	cleaned := markerReplacer.Replace(cell)
	if cleaned == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(model.DateLayout, cleaned)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// ParseNumber parses a decimal cell after stripping markers and separators.
// It returns nil for empty, placeholder ("--") or malformed cells.
func ParseNumber(cell string) *float64 {
	cleaned := markerReplacer.Replace(cell)
	if cleaned == "" || strings.Trim(cleaned, "-") == "" {
		return nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}
