package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/fundnav/internal/apperrors"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/model"
	"github.com/ndewijer/fundnav/internal/service"
	"github.com/ndewijer/fundnav/internal/testutil"
)

const code = "000001"

// Monday 2024-01-08; the history below ends on Friday 2024-01-05.
var monday = time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)

func historyUntil(n int) []model.NavRecord {
	// 26 trading days from 2023-12-01 end on 2024-01-05, 29 on 2024-01-10.
	return testutil.NewSeries(code, "2023-12-01").Rising(n).TradingDays().Records()
}

func ptr(t time.Time) *time.Time {
	return &t
}

// TestNavService_CacheMiss tests the full fetch of a fund without a cache.
//
// WHY: The first request for a fund must walk every page of the history and
// persist it, so later requests can be answered locally.
func TestNavService_CacheMiss(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	svc, store := testutil.NewTestNavService(t, source, clock)

	series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)

	assert.Equal(t, 26, series.Len())
	assert.Equal(t, testutil.Day("2023-12-01"), series.MinDate())
	assert.Equal(t, testutil.Day("2024-01-05"), series.MaxDate())

	metadata, pages := source.Counts()
	assert.Equal(t, 1, metadata)
	assert.Equal(t, 2, pages, "a short second page ends the walk")
	assert.Nil(t, source.Queries[0].Start, "a full fetch has no date bounds")

	cached, fresh, ok := store.Read(code)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, 26, cached.Metadata.DataCount)
}

// TestNavService_SameDayIdempotence tests that a second call on the same day
// is served from the cache.
//
// WHY: Repeated requests within a day must not hit the source again; the
// call counters prove that no network request was made.
func TestNavService_SameDayIdempotence(t *testing.T) {
	t.Run("after a full fetch", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		first, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)
		source.ResetCounts()

		clock.Advance(3 * time.Hour)
		second, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		metadata, pages := source.Counts()
		assert.Equal(t, 0, metadata)
		assert.Equal(t, 0, pages)
		assert.Equal(t, first.Records, second.Records)
	})

	t.Run("after an incremental merge", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		clock.Set(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
		source.WithHistory(historyUntil(29))
		merged, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		clock.Advance(time.Hour)
		again, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		assert.Equal(t, merged.Records, again.Records)
	})

	// WHY: the cache keeps date, nav and acc_nav only. Returning the status
	// and dividend text of a fresh fetch would make the first answer of the
	// day differ from every later one, and forward fill would repeat a
	// dividend on the days after it.
	t.Run("fetched records carry only cached columns", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		history := historyUntil(26)
		history[25].Dividend = "每份派现金0.0100元"
		source := testutil.NewMockSource(code, history)
		svc, _ := testutil.NewTestNavService(t, source, clock)

		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{FillMissing: true})
		require.NoError(t, err)

		for _, r := range series.Records {
			assert.Empty(t, r.SubscriptionStatus, r.Date)
			assert.Empty(t, r.RedemptionStatus, r.Date)
			assert.Empty(t, r.Dividend, r.Date)
			assert.Nil(t, r.AnnualYield, r.Date)
		}
	})

	t.Run("after an empty increment", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		// Tuesday, nothing new published since Friday.
		clock.Advance(24 * time.Hour)
		source.ResetCounts()
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)
		assert.Equal(t, 26, series.Len())
		_, pages := source.Counts()
		assert.Equal(t, 1, pages)

		source.ResetCounts()
		clock.Advance(time.Hour)
		_, err = svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		metadata, pages := source.Counts()
		assert.Equal(t, 0, metadata)
		assert.Equal(t, 0, pages)
	})
}

// TestNavService_IncrementalMerge tests the update of a stale cache.
//
// WHY: Only the days after the cached tail are fetched and the merged series
// holds exactly the distinct dates of both parts.
func TestNavService_IncrementalMerge(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	svc, store := testutil.NewTestNavService(t, source, clock)

	_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)

	// Wednesday: Monday to Wednesday were published.
	clock.Set(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	source.WithHistory(historyUntil(29))
	source.ResetCounts()

	series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)

	assert.Equal(t, 29, series.Len())
	assert.Equal(t, testutil.Day("2024-01-10"), series.MaxDate())

	_, pages := source.Counts()
	require.Equal(t, 1, pages)
	require.NotNil(t, source.Queries[0].Start)
	assert.Equal(t, testutil.Day("2024-01-06"), *source.Queries[0].Start)
	assert.Equal(t, testutil.Day("2024-01-10"), *source.Queries[0].End)

	cached, fresh, ok := store.Read(code)
	require.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, 29, cached.Len())
}

func TestNavService_SkipsUpdate(t *testing.T) {
	t.Run("cache already covers the requested end", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		clock.Advance(48 * time.Hour)
		source.ResetCounts()
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{End: ptr(testutil.Day("2024-01-05"))})
		require.NoError(t, err)

		assert.Equal(t, 26, series.Len())
		_, pages := source.Counts()
		assert.Equal(t, 0, pages)
	})

	t.Run("weekend within 24 hours of the last update", func(t *testing.T) {
		// Friday 2024-01-12 18:00, history ends that day.
		clock := testutil.NewClock(time.Date(2024, 1, 12, 18, 0, 0, 0, time.UTC))
		source := testutil.NewMockSource(code, historyUntil(31))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		clock.Set(time.Date(2024, 1, 13, 10, 0, 0, 0, time.UTC))
		source.ResetCounts()
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		assert.Equal(t, testutil.Day("2024-01-12"), series.MaxDate())
		metadata, pages := source.Counts()
		assert.Equal(t, 0, metadata)
		assert.Equal(t, 0, pages)

		// WHY: the heuristic only holds for 24 hours; Monday triggers a fetch.
		clock.Set(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
		_, err = svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)
		_, pages = source.Counts()
		assert.Equal(t, 1, pages)
	})
}

// TestNavService_SchemaUpgrade tests the refetch when an increment exposes
// accumulated NAV that the cache lacks.
//
// WHY: Mixing rows with and without accumulated NAV is not allowed; the
// result must equal a full fetch of the new history.
func TestNavService_SchemaUpgrade(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	svc, _ := testutil.NewTestNavService(t, source, clock)

	initial, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)
	require.False(t, initial.HasAccNav())

	withAcc := testutil.NewSeries(code, "2023-12-01").Rising(29).TradingDays().WithAccNav().Records()
	clock.Set(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	source.WithHistory(withAcc)
	source.ResetCounts()

	upgraded, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)

	reference := testutil.NewMockSource(code, withAcc)
	fresh, _ := testutil.NewTestNavService(t, reference, clock)
	full, err := fresh.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)

	assert.Equal(t, full.Records, upgraded.Records)
	for _, r := range upgraded.Records {
		assert.NotNil(t, r.AccNav, r.Date.Format(model.DateLayout))
	}

	_, pages := source.Counts()
	assert.Equal(t, 3, pages, "one increment page, then two pages of full history")
	assert.Nil(t, source.Queries[len(source.Queries)-1].Start)
}

func TestNavService_FetchFailures(t *testing.T) {
	t.Run("page 1 failure returns a fetch error", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26)).
			WithPageError(1, errors.New("connection reset"))
		svc, store := testutil.NewTestNavService(t, source, clock)

		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

		assert.True(t, errors.Is(err, apperrors.ErrFetchFailed))
		assert.Equal(t, apperrors.KindFetchFailed, apperrors.KindOf(err))
		assert.True(t, series.Empty())
		_, _, ok := store.Read(code)
		assert.False(t, ok, "nothing is cached after a failed fetch")
	})

	t.Run("later page failure keeps earlier pages", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		history := testutil.NewSeries(code, "2023-10-02").Rising(50).TradingDays().Records()
		source := testutil.NewMockSource(code, history).
			WithPageError(2, errors.New("timeout"))
		svc, store := testutil.NewTestNavService(t, source, clock)

		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		// WHY: page 1 holds the 20 newest records.
		assert.Equal(t, 20, series.Len())
		assert.Equal(t, history[49].Date, series.MaxDate())
		assert.Equal(t, history[30].Date, series.MinDate())
		cached, _, ok := store.Read(code)
		require.True(t, ok)
		assert.Equal(t, 20, cached.Len())
	})

	t.Run("unresolved category aborts before any page", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26)).WithUnresolvedCategory()
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

		assert.True(t, errors.Is(err, apperrors.ErrUnresolvedCategory))
		assert.Equal(t, apperrors.KindFetchFailed, apperrors.KindOf(err))
		_, pages := source.Counts()
		assert.Equal(t, 0, pages)
	})

	t.Run("page in the wrong layout is a schema mismatch", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26)).WithCategory("货币型")
		source.Headers = testutil.RegularHeaders
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

		assert.Equal(t, apperrors.KindSchemaMismatch, apperrors.KindOf(err))
	})

	t.Run("fund without history", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, nil)
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

		assert.Equal(t, apperrors.KindNoData, apperrors.KindOf(err))
	})

	t.Run("stale cache survives a failed increment", func(t *testing.T) {
		clock := testutil.NewClock(monday)
		source := testutil.NewMockSource(code, historyUntil(26))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		require.NoError(t, err)

		clock.Advance(48 * time.Hour)
		source.WithPageError(1, errors.New("503"))
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

		require.NoError(t, err)
		assert.Equal(t, 26, series.Len())
	})
}

func TestNavService_MoneyMarket(t *testing.T) {
	clock := testutil.NewClock(monday)
	history := historyUntil(5)
	for i := range history {
		history[i].Nav = 0.45 + float64(i)*0.01
		history[i].AnnualYield = model.Float(1.65)
	}
	source := testutil.NewMockSource(code, history).WithCategory("货币型")
	svc, _ := testutil.NewTestNavService(t, source, clock)

	series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
	require.NoError(t, err)

	require.Equal(t, 5, series.Len())
	assert.InDelta(t, 0.45, series.First().Nav, 1e-12)
	assert.Nil(t, series.First().AccNav)
	// The annualized yield is parsed but not cached, so no path returns it.
	assert.Nil(t, series.First().AnnualYield)
}

func TestNavService_RangeAndFill(t *testing.T) {
	clock := testutil.NewClock(time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC))
	source := testutil.NewMockSource(code, historyUntil(29))
	svc, _ := testutil.NewTestNavService(t, source, clock)

	t.Run("filters to the requested range", func(t *testing.T) {
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{
			Start: ptr(testutil.Day("2024-01-04")),
			End:   ptr(testutil.Day("2024-01-09")),
		})
		require.NoError(t, err)

		require.Equal(t, 4, series.Len())
		assert.Equal(t, testutil.Day("2024-01-04"), series.MinDate())
		assert.Equal(t, testutil.Day("2024-01-09"), series.MaxDate())
	})

	t.Run("fills weekends with Friday's record", func(t *testing.T) {
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{
			Start:       ptr(testutil.Day("2024-01-05")),
			End:         ptr(testutil.Day("2024-01-08")),
			FillMissing: true,
		})
		require.NoError(t, err)

		require.Equal(t, 4, series.Len())
		friday := series.Records[0]
		for i, want := range []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08"} {
			assert.Equal(t, testutil.Day(want), series.Records[i].Date)
		}
		assert.Equal(t, friday.Nav, series.Records[1].Nav)
		assert.Equal(t, friday.Nav, series.Records[2].Nav)
		assert.NotEqual(t, friday.Nav, series.Records[3].Nav)
	})

	t.Run("range without records is no data", func(t *testing.T) {
		_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{
			Start: ptr(testutil.Day("2024-01-06")),
			End:   ptr(testutil.Day("2024-01-07")),
		})
		assert.Equal(t, apperrors.KindNoData, apperrors.KindOf(err))
	})
}

func TestNavService_InvalidInput(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	svc, _ := testutil.NewTestNavService(t, source, clock)

	_, err := svc.GetSeries(context.Background(), "12345", service.SeriesRequest{})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidFundCode))

	_, err = svc.GetSeries(context.Background(), code, service.SeriesRequest{
		Start: ptr(testutil.Day("2024-01-05")),
		End:   ptr(testutil.Day("2024-01-01")),
	})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDateRange))

	metadata, pages := source.Counts()
	assert.Equal(t, 0, metadata)
	assert.Equal(t, 0, pages)
}

func TestNavService_GetFundData(t *testing.T) {
	clock := testutil.NewClock(monday)

	t.Run("returns the series", func(t *testing.T) {
		source := testutil.NewMockSource(code, historyUntil(26))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		series := svc.GetFundData(context.Background(), code, nil, nil, false)
		assert.Equal(t, 26, series.Len())
	})

	t.Run("degrades to an empty series", func(t *testing.T) {
		source := testutil.NewMockSource(code, historyUntil(26)).WithPageError(1, errors.New("down"))
		svc, _ := testutil.NewTestNavService(t, source, clock)

		series := svc.GetFundData(context.Background(), code, nil, nil, false)
		assert.True(t, series.Empty())
		assert.Equal(t, code, series.Code)
	})
}

// TestNavService_ConcurrentCallers tests the per-fund guard.
//
// WHY: Concurrent requests for an uncached fund must not each walk the
// source; callers either share the in-flight fill or hit the fresh cache.
func TestNavService_ConcurrentCallers(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	svc, _ := testutil.NewTestNavService(t, source, clock)

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
			if err == nil {
				results[i] = series.Len()
			}
		}(i)
	}
	wg.Wait()

	for _, n := range results {
		assert.Equal(t, 26, n)
	}
	metadata, _ := source.Counts()
	assert.Equal(t, 1, metadata)
}

// gatedSource blocks FetchMetadata until release is closed, signalling on
// started when the first call arrives.
type gatedSource struct {
	*testutil.MockSource
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGatedSource(inner *testutil.MockSource) *gatedSource {
	return &gatedSource{
		MockSource: inner,
		started:    make(chan struct{}),
		release:    make(chan struct{}),
	}
}

func (g *gatedSource) FetchMetadata(ctx context.Context, code string) model.FundIdentity {
	g.once.Do(func() { close(g.started) })
	<-g.release
	return g.MockSource.FetchMetadata(ctx, code)
}

// TestNavService_ConcurrentRanges tests that the guard is per fund, not per
// requested range.
//
// WHY: Two requests for the same uncached fund with different end dates
// must not both walk the whole history.
func TestNavService_ConcurrentRanges(t *testing.T) {
	clock := testutil.NewClock(monday)
	inner := testutil.NewMockSource(code, historyUntil(26))
	source := newGatedSource(inner)
	svc, _ := testutil.NewTestNavService(t, source, clock)

	ends := []time.Time{testutil.Day("2024-01-08"), testutil.Day("2024-01-05"), testutil.Day("2023-12-15")}
	lens := make([]int, len(ends))
	errs := make([]error, len(ends))

	var wg sync.WaitGroup
	for i, end := range ends {
		wg.Add(1)
		go func(i int, end time.Time) {
			defer wg.Done()
			series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{End: ptr(end)})
			lens[i], errs[i] = series.Len(), err
		}(i, end)
	}

	<-source.started
	// Give the other callers time to join the in-flight fill.
	time.Sleep(50 * time.Millisecond)
	close(source.release)
	wg.Wait()

	for i := range ends {
		require.NoError(t, errs[i])
	}
	assert.Equal(t, 26, lens[0])
	assert.Equal(t, 26, lens[1])
	assert.Equal(t, 11, lens[2])

	metadata, pages := inner.Counts()
	assert.Equal(t, 1, metadata, "one metadata lookup for the fund")
	assert.Equal(t, 2, pages, "one walk of the history")
}

// TestNavService_CallerCancellation tests that a caller giving up does not
// fail the shared fill.
//
// WHY: The resolution is shared; when the HTTP client that started it
// disconnects, the callers still waiting must get their series.
func TestNavService_CallerCancellation(t *testing.T) {
	clock := testutil.NewClock(monday)
	inner := testutil.NewMockSource(code, historyUntil(26))
	source := newGatedSource(inner)
	svc, store := testutil.NewTestNavService(t, source, clock)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.GetSeries(ctx, code, service.SeriesRequest{})
		first <- err
	}()

	<-source.started
	second := make(chan int, 1)
	go func() {
		series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})
		if err != nil {
			second <- -1
			return
		}
		second <- series.Len()
	}()

	cancel()
	err := <-first
	assert.Equal(t, apperrors.KindFetchFailed, apperrors.KindOf(err))
	assert.True(t, errors.Is(err, context.Canceled))

	close(source.release)
	assert.Equal(t, 26, <-second)

	_, _, ok := store.Read(code)
	assert.True(t, ok, "the fill completes after its starter left")
}

type panickingSource struct {
	eastmoney.Source
}

func (panickingSource) FetchMetadata(context.Context, string) model.FundIdentity {
	panic("boom")
}

func TestNavService_RecoversPanics(t *testing.T) {
	clock := testutil.NewClock(monday)
	svc, _ := testutil.NewTestNavService(t, panickingSource{}, clock)

	series, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

	assert.True(t, errors.Is(err, apperrors.ErrInternal))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.True(t, series.Empty())
}

func TestNavService_EvictAndRefresh(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	svc, store := testutil.NewTestNavService(t, source, clock)

	err := svc.Refresh(context.Background(), []string{"000001", "110022"})
	require.NoError(t, err)

	for _, c := range []string{"000001", "110022"} {
		_, err := os.Stat(filepath.Join(store.Dir(), c+".csv"))
		assert.NoError(t, err, c)
	}

	require.NoError(t, svc.Evict("000001"))
	_, _, ok := store.Read("000001")
	assert.False(t, ok)

	assert.Error(t, svc.Evict("abc"))
	assert.Error(t, svc.Refresh(context.Background(), []string{"bad"}))
}

func TestNavService_FetchDeadline(t *testing.T) {
	clock := testutil.NewClock(monday)
	source := testutil.NewMockSource(code, historyUntil(26))
	store := testutil.NewTestStore(t, clock)
	svc := service.NewNavService(source, store,
		service.NavServiceConfig{FetchDeadline: time.Nanosecond},
		zerolog.Nop(), service.WithNavClock(clock.Now))

	_, err := svc.GetSeries(context.Background(), code, service.SeriesRequest{})

	// WHY: the mock honours the context like the HTTP client does, so an
	// expired deadline fails the first page.
	assert.Equal(t, apperrors.KindFetchFailed, apperrors.KindOf(err))
}
