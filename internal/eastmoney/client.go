package eastmoney

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ndewijer/fundnav/internal/model"
)

// ErrEndOfData is returned by FetchPage when the source reports no more rows.
var ErrEndOfData = errors.New("end of data")

// ErrMalformedPage is returned when a response cannot be parsed.
var ErrMalformedPage = errors.New("malformed page")

// Source is the remote NAV data source.
type Source interface {
	// FetchMetadata never fails; fields it cannot resolve carry model.Unresolved.
	FetchMetadata(ctx context.Context, code string) model.FundIdentity
	FetchPage(ctx context.Context, code string, query PageQuery) (RawPage, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	F10BaseURL    string
	SearchBaseURL string
	Timeout       time.Duration // per request
	PageDelay     time.Duration // minimum spacing between requests
}

// Client fetches fund pages from Eastmoney. It wraps an HTTP client and a
// token bucket limiter shared by every request it sends, so successive page
// requests are spaced by at least PageDelay.
type Client struct {
	httpClient    *http.Client
	f10BaseURL    string
	searchBaseURL string
	limiter       *rate.Limiter
	log           zerolog.Logger
}

// NewClient creates a new Eastmoney client.
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	limit := rate.Inf
	if cfg.PageDelay > 0 {
		limit = rate.Every(cfg.PageDelay)
	}
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		f10BaseURL:    cfg.F10BaseURL,
		searchBaseURL: cfg.SearchBaseURL,
		limiter:       rate.NewLimiter(limit, 1),
		log:           log.With().Str("component", "eastmoney").Logger(),
	}
}

// FetchPage fetches one page of NAV history for code.
//
// The source answers with a JS envelope holding an HTML table:
//
//	var apidata={ content:"<table>...</table>",records:1234,pages:62,curpage:1};
//
// ErrEndOfData is returned when the table carries the "no data" marker or no
// rows at all.
func (c *Client) FetchPage(ctx context.Context, code string, query PageQuery) (RawPage, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PageSize <= 0 {
		query.PageSize = DefaultPageSize
	}

	params := url.Values{}
	params.Set("type", "lsjz")
	params.Set("code", code)
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("per", strconv.Itoa(query.PageSize))
	params.Set("sdate", formatBound(query.Start))
	params.Set("edate", formatBound(query.End))

	body, err := c.get(ctx, c.f10BaseURL+"/F10DataApi.aspx?"+params.Encode())
	if err != nil {
		return RawPage{}, err
	}

	page, err := ParsePage(body)
	if err != nil {
		return RawPage{}, err
	}
	page.Page = query.Page

	c.log.Debug().
		Str("code", code).
		Int("page", query.Page).
		Int("pages", page.Pages).
		Int("rows", len(page.Rows)).
		Msg("Fetched NAV page")

	return page, nil
}

// FetchMetadata resolves a fund's identity. The overview page is queried
// first; when it leaves the category or the company unresolved, the search
// API is queried and fills only the fields still missing.
func (c *Client) FetchMetadata(ctx context.Context, code string) model.FundIdentity {
	identity := model.NewUnresolvedIdentity(code)

	body, err := c.get(ctx, fmt.Sprintf("%s/jbgk_%s.html", c.f10BaseURL, code))
	if err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("Overview page unavailable")
	} else if err := parseOverview(body, &identity); err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("Failed to parse overview page")
	}

	if identity.Resolved() && !model.IsUnresolved(identity.Company) {
		return identity
	}

	params := url.Values{}
	params.Set("m", "1")
	params.Set("key", code)
	body, err = c.get(ctx, c.searchBaseURL+"/FundSearch/api/FundSearchAPI.ashx?"+params.Encode())
	if err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("Search API unavailable")
		return identity
	}
	if err := mergeSearch(body, code, &identity); err != nil {
		c.log.Warn().Err(err).Str("code", code).Msg("Failed to parse search response")
	}

	return identity
}

// get waits for the limiter, then executes a GET request and returns the body.
// The request headers mimic a browser; the source rejects bare clients.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", c.f10BaseURL+"/")
	req.Header.Set("Accept", "*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eastmoney returned status %d for %s", resp.StatusCode, req.URL.Path)
	}

	return io.ReadAll(resp.Body)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(model.DateLayout)
}
