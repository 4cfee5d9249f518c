package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
)

// MockSource is an in-memory eastmoney.Source for testing.
// It paginates History newest first the way the real source does and counts
// every call, so tests can assert that a cache hit made no network call.
type MockSource struct {
	mu sync.Mutex

	// Identity is returned by FetchMetadata.
	Identity model.FundIdentity
	// History is the full NAV history, ascending by date.
	History []model.NavRecord
	// PageErrors makes FetchPage fail on the given page numbers.
	PageErrors map[int]error
	// Headers overrides the header row of every page.
	Headers []string

	// MetadataCount tracks how many times FetchMetadata was called.
	MetadataCount int
	// PageCount tracks how many times FetchPage was called.
	PageCount int
	// Queries records every page query in call order.
	Queries []eastmoney.PageQuery
}

// NewMockSource creates a mock source for a regular (non money-market) fund.
func NewMockSource(code string, history []model.NavRecord) *MockSource {
	identity := model.NewUnresolvedIdentity(code)
	identity.Name = "Test Fund " + code
	identity.Company = "Test Fund Management Co."
	identity.SetCategoryText("混合型-偏股")

	return &MockSource{
		Identity:   identity,
		History:    history,
		PageErrors: map[int]error{},
	}
}

// WithCategory sets the category text returned by FetchMetadata.
func (m *MockSource) WithCategory(text string) *MockSource {
	m.Identity.SetCategoryText(text)
	return m
}

// WithUnresolvedCategory makes FetchMetadata report an unknown category.
func (m *MockSource) WithUnresolvedCategory() *MockSource {
	m.Identity.CategoryText = model.Unresolved
	m.Identity.Category = model.CategoryUnknown
	m.Identity.IsMoneyMarket = false
	return m
}

// WithPageError makes FetchPage fail on page.
func (m *MockSource) WithPageError(page int, err error) *MockSource {
	m.PageErrors[page] = err
	return m
}

// WithHistory replaces the history served by the mock.
func (m *MockSource) WithHistory(history []model.NavRecord) *MockSource {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.History = history
	return m
}

// ResetCounts zeroes the call counters.
func (m *MockSource) ResetCounts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MetadataCount = 0
	m.PageCount = 0
	m.Queries = nil
}

// Counts returns the metadata and page call counters.
func (m *MockSource) Counts() (metadata, pages int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.MetadataCount, m.PageCount
}

// FetchMetadata returns the configured identity.
func (m *MockSource) FetchMetadata(_ context.Context, code string) model.FundIdentity {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MetadataCount++

	identity := m.Identity
	identity.Code = code
	return identity
}

// FetchPage serves one page of History within the query bounds, newest
// first, in the column layout matching the identity's category.
func (m *MockSource) FetchPage(ctx context.Context, _ string, query eastmoney.PageQuery) (eastmoney.RawPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PageCount++
	m.Queries = append(m.Queries, query)

	if err := ctx.Err(); err != nil {
		return eastmoney.RawPage{}, err
	}
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return eastmoney.RawPage{}, context.DeadlineExceeded
	}
	if err, ok := m.PageErrors[query.Page]; ok {
		return eastmoney.RawPage{}, err
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = eastmoney.DefaultPageSize
	}

	var selected []model.NavRecord
	for i := len(m.History) - 1; i >= 0; i-- {
		r := m.History[i]
		if query.Start != nil && r.Date.Before(*query.Start) {
			continue
		}
		if query.End != nil && r.Date.After(*query.End) {
			continue
		}
		selected = append(selected, r)
	}

	from := (query.Page - 1) * pageSize
	if from >= len(selected) {
		return eastmoney.RawPage{}, eastmoney.ErrEndOfData
	}
	to := min(from+pageSize, len(selected))

	page := eastmoney.RawPage{
		Page:    query.Page,
		Pages:   (len(selected) + pageSize - 1) / pageSize,
		Records: len(selected),
		Headers: m.headers(),
	}
	for _, r := range selected[from:to] {
		page.Rows = append(page.Rows, m.row(r))
	}
	return page, nil
}

func (m *MockSource) headers() []string {
	if m.Headers != nil {
		return m.Headers
	}
	if m.Identity.IsMoneyMarket {
		return MoneyMarketHeaders
	}
	return RegularHeaders
}

func (m *MockSource) row(r model.NavRecord) []string {
	if m.Identity.IsMoneyMarket {
		return []string{
			r.Date.Format(model.DateLayout),
			formatFloat(r.Nav),
			optionalFloat(r.AnnualYield, "%"),
			"开放申购",
			"开放赎回",
			r.Dividend,
		}
	}
	return []string{
		r.Date.Format(model.DateLayout),
		formatFloat(r.Nav),
		optionalFloat(r.AccNav, ""),
		"",
		"开放申购",
		"开放赎回",
		r.Dividend,
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optionalFloat(v *float64, suffix string) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v) + suffix
}
