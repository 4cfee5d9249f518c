package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ndewijer/fundnav/internal/api/handlers"
	"github.com/ndewijer/fundnav/internal/api/response"
	"github.com/ndewijer/fundnav/internal/cache"
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/testutil"
)

const fundCode = "000001"

// Monday 2024-01-08; the history ends on Friday 2024-01-05.
var monday = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

func setupFundHandler(t *testing.T) (*handlers.FundHandler, *testutil.MockSource, *cache.Store) {
	t.Helper()

	clock := testutil.NewClock(monday)
	history := testutil.NewSeries(fundCode, "2023-12-01").Rising(26).TradingDays().WithAccNav().Records()
	source := testutil.NewMockSource(fundCode, history)

	nav, store := testutil.NewTestNavService(t, source, clock)
	handler := handlers.NewFundHandler(
		testutil.NewTestFundService(t, source),
		nav,
		testutil.NewTestAnalyticsService(t, nav),
	)
	return handler, source, store
}

func TestFundHandler_Info(t *testing.T) {
	t.Run("returns the fund identity", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001", fundCode, nil)
		w := httptest.NewRecorder()

		handler.Info(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var identity model.FundIdentity
		testutil.DecodeJSON(t, w, &identity)

		if identity.Code != fundCode {
			t.Errorf("Expected code %s, got %s", fundCode, identity.Code)
		}
		if identity.Category != model.CategoryMixed {
			t.Errorf("Expected category %s, got %s", model.CategoryMixed, identity.Category)
		}
		if identity.IsMoneyMarket {
			t.Error("Expected a regular fund")
		}
	})
}

func TestFundHandler_Nav(t *testing.T) {
	t.Run("returns the full series", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, nil)
		w := httptest.NewRecorder()

		handler.Nav(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", ct)
		}

		var series model.NavSeries
		testutil.DecodeJSON(t, w, &series)

		if len(series.Records) != 26 {
			t.Errorf("Expected 26 records, got %d", len(series.Records))
		}
		if series.Records[0].AccNav == nil {
			t.Error("Expected accumulated NAV on regular fund records")
		}
	})

	t.Run("filters by date range", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, map[string]string{
			"start_date": "2023-12-04",
			"end_date":   "2023-12-08",
		})
		w := httptest.NewRecorder()

		handler.Nav(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var series model.NavSeries
		testutil.DecodeJSON(t, w, &series)

		if len(series.Records) != 5 {
			t.Errorf("Expected 5 records, got %d", len(series.Records))
		}
	})

	t.Run("fills calendar days when asked", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, map[string]string{
			"start_date":   "2023-12-01",
			"end_date":     "2023-12-11",
			"fill_missing": "true",
		})
		w := httptest.NewRecorder()

		handler.Nav(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var series model.NavSeries
		testutil.DecodeJSON(t, w, &series)

		if len(series.Records) != 11 {
			t.Fatalf("Expected 11 calendar days, got %d", len(series.Records))
		}
		// Saturday 2023-12-02 carries Friday's value.
		if series.Records[1].Nav != series.Records[0].Nav {
			t.Errorf("Expected Saturday NAV %v, got %v", series.Records[0].Nav, series.Records[1].Nav)
		}
	})

	t.Run("returns 400 for malformed parameters", func(t *testing.T) {
		tests := []map[string]string{
			{"start_date": "2023/12/01"},
			{"end_date": "yesterday"},
			{"start_date": "2024-01-05", "end_date": "2023-12-01"},
			{"fill_missing": "maybe"},
		}
		for _, query := range tests {
			handler, source, _ := setupFundHandler(t)

			req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, query)
			w := httptest.NewRecorder()

			handler.Nav(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("%v: expected status 400, got %d", query, w.Code)
			}
			if _, pages := source.Counts(); pages != 0 {
				t.Errorf("%v: expected no source call, got %d page requests", query, pages)
			}
		}
	})

	t.Run("returns 404 when no records fall in the range", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, map[string]string{
			"start_date": "2022-01-01",
			"end_date":   "2022-02-01",
		})
		w := httptest.NewRecorder()

		handler.Nav(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d: %s", w.Code, w.Body.String())
		}

		var body response.ErrorResponse
		testutil.DecodeJSON(t, w, &body)
		if body.Error != "no_data" {
			t.Errorf("Expected error 'no_data', got '%s'", body.Error)
		}
	})

	t.Run("returns 502 when the first page fails", func(t *testing.T) {
		handler, source, _ := setupFundHandler(t)
		source.WithPageError(1, errors.New("connection reset"))

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, nil)
		w := httptest.NewRecorder()

		handler.Nav(w, req)

		if w.Code != http.StatusBadGateway {
			t.Errorf("Expected status 502, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestFundHandler_Statistics(t *testing.T) {
	t.Run("returns the report with the default rate", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/statistics", fundCode, nil)
		w := httptest.NewRecorder()

		handler.Statistics(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result model.StatisticsResult
		testutil.DecodeJSON(t, w, &result)

		if result.Observations != 26 {
			t.Errorf("Expected 26 observations, got %d", result.Observations)
		}
		if result.RiskFreeRate != 0.03 {
			t.Errorf("Expected risk-free rate 0.03, got %v", result.RiskFreeRate)
		}
		if result.MaxDrawdown != 0 {
			t.Errorf("Expected no drawdown on a rising series, got %v", result.MaxDrawdown)
		}
		if result.Volatility < 0 {
			t.Errorf("Expected non-negative volatility, got %v", result.Volatility)
		}
	})

	t.Run("uses the requested risk-free rate", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/statistics", fundCode, map[string]string{
			"risk_free_rate": "0.015",
		})
		w := httptest.NewRecorder()

		handler.Statistics(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var result model.StatisticsResult
		testutil.DecodeJSON(t, w, &result)

		if result.RiskFreeRate != 0.015 {
			t.Errorf("Expected risk-free rate 0.015, got %v", result.RiskFreeRate)
		}
	})

	t.Run("returns 400 for an invalid rate", func(t *testing.T) {
		for _, rate := range []string{"three percent", "3", "-2"} {
			handler, _, _ := setupFundHandler(t)

			req := testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/statistics", fundCode, map[string]string{
				"risk_free_rate": rate,
			})
			w := httptest.NewRecorder()

			handler.Statistics(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("rate %q: expected status 400, got %d", rate, w.Code)
			}
		}
	})
}

func TestFundHandler_EvictCache(t *testing.T) {
	t.Run("removes the cached series", func(t *testing.T) {
		handler, _, store := setupFundHandler(t)

		w := httptest.NewRecorder()
		handler.Nav(w, testutil.NewFundRequest(http.MethodGet, "/api/fund/000001/nav", fundCode, nil))
		if _, _, ok := store.Read(fundCode); !ok {
			t.Fatal("Expected the series to be cached")
		}

		w = httptest.NewRecorder()
		handler.EvictCache(w, testutil.NewFundRequest(http.MethodDelete, "/api/fund/000001/cache", fundCode, nil))

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d: %s", w.Code, w.Body.String())
		}
		if _, _, ok := store.Read(fundCode); ok {
			t.Error("Expected the cache entry to be gone")
		}
	})

	t.Run("succeeds when nothing is cached", func(t *testing.T) {
		handler, _, _ := setupFundHandler(t)

		w := httptest.NewRecorder()
		handler.EvictCache(w, testutil.NewFundRequest(http.MethodDelete, "/api/fund/000001/cache", fundCode, nil))

		if w.Code != http.StatusNoContent {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})
}
