// Package request parses and validates HTTP request parameters.
package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/service"
	"github.com/ndewijer/fundnav/internal/validation"
)

// ParseSeriesQuery reads start_date, end_date and fill_missing from the
// query string. Dates are YYYY-MM-DD and optional; fill_missing accepts any
// strconv.ParseBool value.
func ParseSeriesQuery(r *http.Request) (service.SeriesRequest, error) {
	q := r.URL.Query()

	start, err := validation.ParseDate("start_date", q.Get("start_date"))
	if err != nil {
		return service.SeriesRequest{}, err
	}
	end, err := validation.ParseDate("end_date", q.Get("end_date"))
	if err != nil {
		return service.SeriesRequest{}, err
	}
	if err := validation.ValidateDateRange(start, end); err != nil {
		return service.SeriesRequest{}, err
	}

	req := service.SeriesRequest{Start: start, End: end}
	if raw := strings.TrimSpace(q.Get("fill_missing")); raw != "" {
		fill, err := strconv.ParseBool(raw)
		if err != nil {
			return service.SeriesRequest{}, &validation.Error{
				Fields: map[string]string{"fill_missing": "must be true or false"},
				Cause:  apperrors.ErrInvalidParameter,
			}
		}
		req.FillMissing = fill
	}
	return req, nil
}

// ParseRiskFreeRate reads risk_free_rate from the query string, falling back
// to def when absent.
func ParseRiskFreeRate(r *http.Request, def float64) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("risk_free_rate"))
	if raw == "" {
		return def, nil
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &validation.Error{
			Fields: map[string]string{"risk_free_rate": "must be a decimal number, e.g. 0.03"},
			Cause:  apperrors.ErrInvalidRiskFreeRate,
		}
	}
	if err := validation.ValidateRiskFreeRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}
