package apperrors

import "errors"

// Input errors indicate that a request cannot be served as asked.
var (
	// ErrInvalidFundCode indicates that a fund code is not a 6-digit identifier.
	ErrInvalidFundCode = errors.New("invalid fund code")

	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidDate indicates a date parameter that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRiskFreeRate indicates a risk-free rate outside the accepted bounds.
	ErrInvalidRiskFreeRate = errors.New("invalid risk-free rate")

	// ErrInvalidParameter indicates any other malformed request parameter,
	// such as a flag that is not a boolean.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Data errors describe what the source or the cache returned.
var (
	// ErrNoData indicates that no NAV records exist for the fund or date range.
	ErrNoData = errors.New("no data available")

	// ErrFetchFailed indicates that the remote source could not be reached or
	// returned an unusable first page.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUnresolvedCategory indicates that the fund category could not be
	// determined, so the page schema is unknown.
	ErrUnresolvedCategory = errors.New("fund category unresolved")

	// ErrSchemaMismatch indicates that a page's columns do not match the
	// schema resolved from the fund category.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrCacheCorrupt indicates an unreadable cache entry. It never leaves the
	// cache package; corrupt entries are evicted and read as a miss.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
)

// ErrInternal wraps unexpected failures, including recovered panics.
var ErrInternal = errors.New("internal error")

// Kind classifies an error for callers that need to tell "no data" apart
// from "the fetch failed".
type Kind int

const (
	KindNone Kind = iota
	KindInvalidInput
	KindNoData
	KindFetchFailed
	KindSchemaMismatch
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidInput:
		return "invalid_input"
	case KindNoData:
		return "no_data"
	case KindFetchFailed:
		return "fetch_failed"
	case KindSchemaMismatch:
		return "schema_mismatch"
	default:
		return "internal"
	}
}

// KindOf maps err onto its Kind. A nil error is KindNone.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidFundCode),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidRiskFreeRate),
		errors.Is(err, ErrInvalidParameter):
		return KindInvalidInput
	case errors.Is(err, ErrNoData):
		return KindNoData
	case errors.Is(err, ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, ErrFetchFailed), errors.Is(err, ErrUnresolvedCategory):
		return KindFetchFailed
	default:
		return KindInternal
	}
}
