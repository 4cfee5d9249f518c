package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/fundnav/internal/api/request"
	"github.com/ndewijer/fundnav/internal/api/response"
	"github.com/ndewijer/fundnav/internal/service"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// to the fund, NAV and analytics services.
type FundHandler struct {
	fundService      *service.FundService
	navService       *service.NavService
	analyticsService *service.AnalyticsService
}

// NewFundHandler creates a new FundHandler with the provided service dependencies.
func NewFundHandler(
	fundService *service.FundService,
	navService *service.NavService,
	analyticsService *service.AnalyticsService,
) *FundHandler {
	return &FundHandler{
		fundService:      fundService,
		navService:       navService,
		analyticsService: analyticsService,
	}
}

// Info handles GET requests for a fund's identity.
// Fields the source could not resolve carry "unresolved"; the request never fails.
//
// Endpoint: GET /api/fund/{code}
// Response: 200 OK with model.FundIdentity
func (h *FundHandler) Info(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	response.RespondJSON(w, http.StatusOK, h.fundService.GetFundInfo(r.Context(), code))
}

// Nav handles GET requests for a fund's NAV series. The cache is refreshed
// first when it is stale.
//
// Endpoint: GET /api/fund/{code}/nav
// Query: start_date, end_date (YYYY-MM-DD), fill_missing (bool)
// Response: 200 OK with model.NavSeries
// Error: 400 for invalid parameters, 404 when no records fall in the range,
// 502 when the source fails
func (h *FundHandler) Nav(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	req, err := request.ParseSeriesQuery(r)
	if err != nil {
		response.RespondServiceError(w, err)
		return
	}

	series, err := h.navService.GetSeries(r.Context(), code, req)
	if err != nil {
		response.RespondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, series)
}

// Statistics handles GET requests for a fund's performance and risk report.
//
// Endpoint: GET /api/fund/{code}/statistics
// Query: start_date, end_date (YYYY-MM-DD), risk_free_rate (decimal, default from config)
// Response: 200 OK with model.StatisticsResult
// Error: 400 for invalid parameters, 404 when no records fall in the range,
// 502 when the source fails
func (h *FundHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	req, err := request.ParseSeriesQuery(r)
	if err != nil {
		response.RespondServiceError(w, err)
		return
	}
	rate, err := request.ParseRiskFreeRate(r, h.analyticsService.DefaultRiskFreeRate())
	if err != nil {
		response.RespondServiceError(w, err)
		return
	}

	result, err := h.analyticsService.Report(r.Context(), code, req, rate)
	if err != nil {
		response.RespondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// EvictCache handles DELETE requests removing a fund's cached series.
// Evicting a fund that is not cached succeeds.
//
// Endpoint: DELETE /api/fund/{code}/cache
// Response: 204 No Content
// Error: 500 if the files cannot be removed
func (h *FundHandler) EvictCache(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.navService.Evict(code); err != nil {
		response.RespondServiceError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
