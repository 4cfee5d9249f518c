package testutil

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/fundnav/internal/cache"
	"github.com/ndewijer/fundnav/internal/eastmoney"
	"github.com/ndewijer/fundnav/internal/service"
)

// Clock is a settable time source shared by the store and the services
// under test.
type Clock struct {
	now time.Time
}

// NewClock creates a clock frozen at now.
func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	return c.now
}

// Set moves the clock to now.
func (c *Clock) Set(now time.Time) {
	c.now = now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// NewTestStore creates a cache store in a temporary directory.
func NewTestStore(t *testing.T, clock *Clock) *cache.Store {
	t.Helper()

	return cache.NewStore(t.TempDir(), zerolog.Nop(), cache.WithClock(clock.Now))
}

// NewTestNavService creates a NavService over source with a temporary cache.
func NewTestNavService(t *testing.T, source eastmoney.Source, clock *Clock) (*service.NavService, *cache.Store) {
	t.Helper()

	store := NewTestStore(t, clock)
	svc := service.NewNavService(
		source,
		store,
		service.NavServiceConfig{MaxPages: 100, FetchDeadline: time.Minute},
		zerolog.Nop(),
		service.WithNavClock(clock.Now),
	)
	return svc, store
}

// NewTestFundService creates a FundService over source.
func NewTestFundService(t *testing.T, source eastmoney.Source) *service.FundService {
	t.Helper()

	return service.NewFundService(source, zerolog.Nop())
}

// NewTestAnalyticsService creates an AnalyticsService over nav.
func NewTestAnalyticsService(t *testing.T, nav *service.NavService) *service.AnalyticsService {
	t.Helper()

	return service.NewAnalyticsService(nav, 0.03)
}

// NewTestSystemService creates a SystemService over store.
func NewTestSystemService(t *testing.T, store *cache.Store) *service.SystemService {
	t.Helper()

	return service.NewSystemService(store)
}
