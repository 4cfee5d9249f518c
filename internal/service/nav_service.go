package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/normalize"
	"github.com/ndewijer/fundnav/internal/validation"
)

// SeriesStore persists NAV series. cache.Store implements it.
type SeriesStore interface {
	Read(code string) (series model.NavSeries, fresh bool, ok bool)
	Write(code string, series model.NavSeries) (model.NavSeries, error)
	Evict(code string) error
}

// SeriesRequest selects the part of a series a caller wants. Nil bounds are
// open; End defaults to today.
type SeriesRequest struct {
	Start       *time.Time
	End         *time.Time
	FillMissing bool
}

// NavServiceConfig holds the orchestrator limits.
type NavServiceConfig struct {
	MaxPages      int
	FetchDeadline time.Duration
}

// NavService keeps each fund's cached series up to date and answers series
// requests from it. It is the only writer of the cache.
type NavService struct {
	source   eastmoney.Source
	store    SeriesStore
	fetcher  *Fetcher
	deadline time.Duration
	now      func() time.Time
	group    singleflight.Group
	log      zerolog.Logger
}

// NavOption configures a NavService.
type NavOption func(*NavService)

// WithNavClock overrides the clock used for freshness decisions.
func WithNavClock(now func() time.Time) NavOption {
	return func(s *NavService) {
		s.now = now
	}
}

// NewNavService creates a NavService.
func NewNavService(source eastmoney.Source, store SeriesStore, cfg NavServiceConfig, log zerolog.Logger, opts ...NavOption) *NavService {
	s := &NavService{
		source:   source,
		store:    store,
		fetcher:  NewFetcher(source, cfg.MaxPages, log),
		deadline: cfg.FetchDeadline,
		now:      time.Now,
		log:      log.With().Str("component", "nav_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSeries returns code's NAV series restricted to the requested range.
//
// Resolution order:
//  1. A cache written today is returned without touching the network.
//  2. A cache already covering the requested end date is returned as-is.
//  3. A cache written less than 24 hours ago on a weekend is returned as-is.
//  4. Otherwise the missing tail is fetched and merged into the cache. When
//     the tail carries accumulated NAV the cache lacks, the full history is
//     refetched instead.
//  5. Without a cache the full history is fetched and cached.
//
// Concurrent calls for the same fund share one resolution, whatever their
// requested range.
// Errors carry an apperrors kind and come with an empty series.
func (s *NavService) GetSeries(ctx context.Context, code string, req SeriesRequest) (model.NavSeries, error) {
	normalized, err := validation.NormalizeFundCode(code)
	if err != nil {
		return model.EmptySeries(code), err
	}
	code = normalized

	end := model.Day(s.now())
	if req.End != nil {
		end = model.Day(*req.End)
	}
	var start time.Time
	if req.Start != nil {
		start = model.Day(*req.Start)
		if start.After(end) {
			return model.EmptySeries(code), fmt.Errorf("%w: start %s is after end %s",
				apperrors.ErrInvalidDateRange, start.Format(model.DateLayout), end.Format(model.DateLayout))
		}
	}

	full, err := s.resolveShared(ctx, code, end)
	if err != nil {
		return model.EmptySeries(code), err
	}

	series := full.Between(start, end)
	if series.Empty() {
		return model.EmptySeries(code), fmt.Errorf("%w: fund %s has no records in range", apperrors.ErrNoData, code)
	}
	if req.FillMissing {
		series.Records = FillMissing(series.Records)
	}
	return series, nil
}

// GetFundData returns the series like GetSeries but never fails: errors are
// logged and an empty series is returned.
func (s *NavService) GetFundData(ctx context.Context, code string, start, end *time.Time, fillMissing bool) model.NavSeries {
	series, err := s.GetSeries(ctx, code, SeriesRequest{Start: start, End: end, FillMissing: fillMissing})
	if err != nil {
		s.log.Error().
			Err(err).
			Str("code", code).
			Str("kind", apperrors.KindOf(err).String()).
			Msg("Failed to get fund data")
		return model.EmptySeries(code)
	}
	return series
}

// Evict drops the cached series of code.
func (s *NavService) Evict(code string) error {
	code, err := validation.NormalizeFundCode(code)
	if err != nil {
		return err
	}
	return s.store.Evict(code)
}

// Refresh brings the cache of every code up to today, one fund at a time.
// It returns the joined errors of the funds that failed.
func (s *NavService) Refresh(ctx context.Context, codes []string) error {
	var errs []error
	for _, code := range codes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		series, err := s.GetSeries(ctx, code, SeriesRequest{})
		if err != nil {
			s.log.Warn().Err(err).Str("code", code).Msg("Refresh failed")
			errs = append(errs, fmt.Errorf("refresh %s: %w", code, err))
			continue
		}
		s.log.Info().
			Str("code", code).
			Int("records", series.Len()).
			Str("latest", series.MaxDate().Format(model.DateLayout)).
			Msg("Fund refreshed")
	}
	return errors.Join(errs...)
}

// resolveShared runs resolve under the per-fund single-flight guard. A
// caller that joined a resolution made for an earlier end date resolves again
// for its own; a fill written by the first one makes that a fresh hit. The resolution is detached from the caller's cancellation so one
// disconnecting caller does not fail the others; the fetch deadline still
// bounds it, and each caller stops waiting when its own context ends.
func (s *NavService) resolveShared(ctx context.Context, code string, end time.Time) (model.NavSeries, error) {
	detached := context.WithoutCancel(ctx)
	for {
		ch := s.group.DoChan(code, func() (interface{}, error) {
			series, err := s.resolve(detached, code, end)
			return resolution{series: series, end: end}, err
		})

		var res singleflight.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			return model.EmptySeries(code), fmt.Errorf("%w: fund %s: %w", apperrors.ErrFetchFailed, code, ctx.Err())
		}
		if res.Err != nil {
			return model.EmptySeries(code), res.Err
		}

		r := res.Val.(resolution)
		if !end.After(r.end) {
			return r.series, nil
		}
		s.log.Debug().
			Str("code", code).
			Str("resolvedTo", r.end.Format(model.DateLayout)).
			Msg("Joined resolution for an earlier end date, resolving again")
	}
}

// resolution is the shared result of one resolve call and the end date it
// was made for.
type resolution struct {
	series model.NavSeries
	end    time.Time
}

// resolve returns the full cached series of code, updated as far as end
// warrants. Panics are converted to ErrInternal.
func (s *NavService) resolve(ctx context.Context, code string, end time.Time) (series model.NavSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("code", code).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("Recovered panic while resolving series")
			series = model.EmptySeries(code)
			err = fmt.Errorf("%w: %v", apperrors.ErrInternal, r)
		}
	}()

	if s.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}

	cached, fresh, ok := s.store.Read(code)
	if !ok {
		return s.fetchFull(ctx, code)
	}
	if fresh {
		return cached, nil
	}

	cacheEnd := cached.MaxDate()
	if !end.After(cacheEnd) {
		return cached, nil
	}

	now := s.now()
	if now.Sub(cached.Metadata.LastUpdate) < 24*time.Hour && isWeekend(now) {
		s.log.Debug().
			Str("code", code).
			Time("lastUpdate", cached.Metadata.LastUpdate).
			Msg("Cache updated within 24h on a weekend, skipping fetch")
		return cached, nil
	}

	return s.fetchIncrement(ctx, code, cached, end)
}

// fetchIncrement fetches the records after the cached tail and merges them.
// Failures keep the cached series.
func (s *NavService) fetchIncrement(ctx context.Context, code string, cached model.NavSeries, end time.Time) (model.NavSeries, error) {
	schema, err := s.schemaFor(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Keeping cached series, category unresolved")
		return cached, nil
	}

	from := cached.MaxDate().AddDate(0, 0, 1)
	s.log.Info().
		Str("code", code).
		Str("from", from.Format(model.DateLayout)).
		Str("to", end.Format(model.DateLayout)).
		Msg("Fetching cache increment")

	increment, err := s.fetcher.FetchAll(ctx, code, schema, &from, &end)
	if err != nil {
		s.log.Warn().Err(err).Str("code", code).Msg("Keeping cached series, increment fetch failed")
		return cached, nil
	}

	if len(increment) == 0 {
		return s.persist(code, cached), nil
	}

	if model.HasAccNav(increment) && !cached.HasAccNav() {
		s.log.Info().Str("code", code).Msg("Increment adds accumulated NAV, refetching full history")
		full, err := s.fetcher.FetchAll(ctx, code, schema, nil, nil)
		if err != nil {
			return model.EmptySeries(code), err
		}
		if len(full) == 0 {
			return model.EmptySeries(code), fmt.Errorf("%w: fund %s", apperrors.ErrNoData, code)
		}
		return s.persist(code, model.NavSeries{Code: code, Records: full}), nil
	}

	merged := model.NavSeries{Code: code, Records: MergeRecords(cached.Records, increment)}
	return s.persist(code, merged), nil
}

// fetchFull fetches and caches the complete history of code.
func (s *NavService) fetchFull(ctx context.Context, code string) (model.NavSeries, error) {
	schema, err := s.schemaFor(ctx, code)
	if err != nil {
		return model.EmptySeries(code), err
	}

	s.log.Info().Str("code", code).Str("schema", schema.String()).Msg("Fetching full history")

	records, err := s.fetcher.FetchAll(ctx, code, schema, nil, nil)
	if err != nil {
		return model.EmptySeries(code), err
	}
	if len(records) == 0 {
		return model.EmptySeries(code), fmt.Errorf("%w: fund %s", apperrors.ErrNoData, code)
	}

	return s.persist(code, model.NavSeries{Code: code, Records: records}), nil
}

func (s *NavService) schemaFor(ctx context.Context, code string) (normalize.Schema, error) {
	identity := s.source.FetchMetadata(ctx, code)
	return normalize.SchemaFor(identity)
}

// persist writes series to the cache. Records are reduced to the cached
// columns first, so a fetched series reads the same as a cached one. A failed
// write is logged and the reduced series is still returned.
func (s *NavService) persist(code string, series model.NavSeries) model.NavSeries {
	series.Records = model.StoredRecords(series.Records)
	written, err := s.store.Write(code, series)
	if err != nil {
		s.log.Error().Err(err).Str("code", code).Msg("Failed to write cache")
		return series
	}
	return written
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
