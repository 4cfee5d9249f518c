package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/normalize"
)

// DefaultMaxPages bounds a single paginated fetch.
const DefaultMaxPages = 1000

// Fetcher walks the paginated NAV history of a fund, newest page first.
type Fetcher struct {
	source   eastmoney.Source
	maxPages int
	log      zerolog.Logger
}

// NewFetcher creates a Fetcher. A non-positive maxPages uses DefaultMaxPages.
func NewFetcher(source eastmoney.Source, maxPages int, log zerolog.Logger) *Fetcher {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Fetcher{
		source:   source,
		maxPages: maxPages,
		log:      log.With().Str("component", "fetcher").Logger(),
	}
}

// FetchAll fetches every page of code's history within the optional bounds
// and returns the normalized records, ascending and unique by date.
//
// A failure on page 1 is returned as an error with no records. A failure on a
// later page ends the walk and the records gathered so far are returned.
//
// The walk stops at the source's end-of-data marker, at a page with no usable
// rows, at a short page, at the last page reported by the source or at the
// page bound.
func (f *Fetcher) FetchAll(ctx context.Context, code string, schema normalize.Schema, start, end *time.Time) ([]model.NavRecord, error) {
	var all []model.NavRecord

	for page := 1; page <= f.maxPages; page++ {
		raw, err := f.source.FetchPage(ctx, code, eastmoney.PageQuery{
			Page:     page,
			PageSize: eastmoney.DefaultPageSize,
			Start:    start,
			End:      end,
		})
		if errors.Is(err, eastmoney.ErrEndOfData) {
			break
		}
		var records []model.NavRecord
		if err == nil {
			records, err = normalize.Normalize(raw, schema)
		}
		if err != nil {
			if page == 1 {
				if errors.Is(err, apperrors.ErrSchemaMismatch) {
					return nil, err
				}
				return nil, fmt.Errorf("%w: fund %s page 1: %w", apperrors.ErrFetchFailed, code, err)
			}
			f.log.Warn().
				Err(err).
				Str("code", code).
				Int("page", page).
				Int("records", len(all)).
				Msg("Page failed, keeping records fetched so far")
			break
		}
		if len(records) == 0 {
			break
		}
		all = append(all, records...)

		f.log.Debug().
			Str("code", code).
			Int("page", page).
			Int("rows", len(records)).
			Str("oldest", records[0].Date.Format(model.DateLayout)).
			Msg("Page normalized")

		if len(raw.Rows) < eastmoney.DefaultPageSize || (raw.Pages > 0 && page >= raw.Pages) {
			break
		}
	}

	return normalize.Dedupe(all), nil
}
