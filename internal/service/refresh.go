package service

import (
	"context"
	"log/slog"
	"time"

	"quietspace/internal/middleware"
)

// DefaultRefreshDelay is how long a scheduled feed refresh waits before
// running. The pause lets the best-effort counter writes land first, so the
// refreshed feed shows reconciled numbers instead of the optimistic ones.
const DefaultRefreshDelay = 500 * time.Millisecond

// Refresher schedules a delayed refresh of the feed cache after a mutation.
// The timer source is injectable so tests can fire it deterministically.
type Refresher struct {
	delay   time.Duration
	after   func(time.Duration) <-chan time.Time
	refresh func(ctx context.Context) error
}

// NewRefresher returns a Refresher running refresh after delay. A non-positive
// delay falls back to DefaultRefreshDelay.
func NewRefresher(delay time.Duration, refresh func(ctx context.Context) error) *Refresher {
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}
	return &Refresher{
		delay:   delay,
		after:   time.After,
		refresh: refresh,
	}
}

// Schedule queues one refresh to run after the configured delay. The refresh
// outlives the originating request; only its values are carried over. A nil
// Refresher is valid and does nothing, so callers never need to guard.
func (r *Refresher) Schedule(ctx context.Context) {
	if r == nil || r.refresh == nil {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		<-r.after(r.delay)
		if err := r.refresh(detached); err != nil {
			middleware.Logger.Warn("scheduled feed refresh failed",
				slog.String("error", err.Error()),
			)
		}
	}()
}
