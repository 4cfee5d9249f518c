package service

import (
	"context"

	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/statistics"
	"github.com/ndewijer/fundnav/internal/validation"
)

// SeriesProvider returns NAV series. NavService implements it.
type SeriesProvider interface {
	GetSeries(ctx context.Context, code string, req SeriesRequest) (model.NavSeries, error)
}

// AnalyticsService computes statistics reports over cached series.
type AnalyticsService struct {
	series          SeriesProvider
	defaultRiskFree float64
}

// NewAnalyticsService creates an AnalyticsService. defaultRiskFree is used
// by callers that do not pass their own rate.
func NewAnalyticsService(series SeriesProvider, defaultRiskFree float64) *AnalyticsService {
	return &AnalyticsService{
		series:          series,
		defaultRiskFree: defaultRiskFree,
	}
}

// DefaultRiskFreeRate returns the configured annual risk-free rate.
func (s *AnalyticsService) DefaultRiskFreeRate() float64 {
	return s.defaultRiskFree
}

// Report summarizes the series of code over the requested range on trading
// days only; req.FillMissing is ignored.
func (s *AnalyticsService) Report(ctx context.Context, code string, req SeriesRequest, riskFreeRate float64) (model.StatisticsResult, error) {
	if err := validation.ValidateRiskFreeRate(riskFreeRate); err != nil {
		return model.StatisticsResult{}, err
	}

	req.FillMissing = false
	series, err := s.series.GetSeries(ctx, code, req)
	if err != nil {
		return model.StatisticsResult{}, err
	}

	return statistics.Summarize(series, riskFreeRate), nil
}
