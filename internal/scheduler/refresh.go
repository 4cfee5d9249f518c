package scheduler

import (
	"context"
	"time"
)

// Refresher brings cached series up to date. service.NavService implements it.
type Refresher interface {
	Refresh(ctx context.Context, codes []string) error
}

// RefreshJob refreshes the cache of a fixed watchlist.
type RefreshJob struct {
	nav     Refresher
	codes   []string
	timeout time.Duration
}

// NewRefreshJob creates a job refreshing codes. A zero timeout leaves the
// run unbounded; each fund is still bounded by the service's fetch deadline.
func NewRefreshJob(nav Refresher, codes []string, timeout time.Duration) *RefreshJob {
	return &RefreshJob{nav: nav, codes: codes, timeout: timeout}
}

// Name implements Job.
func (j *RefreshJob) Name() string {
	return "refresh_watchlist"
}

// Run implements Job.
func (j *RefreshJob) Run() error {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	return j.nav.Refresh(ctx, j.codes)
}
