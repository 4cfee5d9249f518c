package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/model"
)

var fundCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// NormalizeFundCode trims a fund code and checks that it is a 6-digit
// identifier.
func NormalizeFundCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if !fundCodePattern.MatchString(code) {
		return "", &Error{
			Fields: map[string]string{"code": fmt.Sprintf("fund code must be 6 digits, got %q", code)},
			Cause:  apperrors.ErrInvalidFundCode,
		}
	}
	return code, nil
}

// ParseDate parses an optional YYYY-MM-DD parameter. An empty value yields nil.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return nil, &Error{
			Fields: map[string]string{field: fmt.Sprintf("expected YYYY-MM-DD, got %q", value)},
			Cause:  apperrors.ErrInvalidDate,
		}
	}
	return &d, nil
}

// ValidateDateRange checks that start is not after end when both are set.
func ValidateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && start.After(*end) {
		return &Error{
			Fields: map[string]string{"startDate": fmt.Sprintf(
				"start date %s is after end date %s",
				start.Format(model.DateLayout), end.Format(model.DateLayout),
			)},
			Cause: apperrors.ErrInvalidDateRange,
		}
	}
	return nil
}

// ValidateRiskFreeRate accepts annual rates in [-1, 1] (decimal form, 0.03 = 3%).
func ValidateRiskFreeRate(rate float64) error {
	if rate < -1 || rate > 1 || math.IsNaN(rate) {
		return &Error{
			Fields: map[string]string{"riskFreeRate": fmt.Sprintf("must be a decimal between -1 and 1, got %v", rate)},
			Cause:  apperrors.ErrInvalidRiskFreeRate,
		}
	}
	return nil
}

// Common validation errors
var (
	ErrEmptySlice      = fmt.Errorf("%w: no fund codes given", apperrors.ErrInvalidFundCode)
	ErrInvalidCodeList = fmt.Errorf("%w: list contains invalid entries", apperrors.ErrInvalidFundCode)
)
