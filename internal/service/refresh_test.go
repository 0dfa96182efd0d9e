package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefresher_FiresAfterDelay(t *testing.T) {
	t.Parallel()

	fire := make(chan time.Time)
	done := make(chan struct{})
	var calls atomic.Int32

	r := NewRefresher(time.Minute, func(_ context.Context) error {
		calls.Add(1)
		close(done)
		return nil
	})
	r.after = func(d time.Duration) <-chan time.Time {
		assert.Equal(t, time.Minute, d)
		return fire
	}

	r.Schedule(context.Background())
	assert.Equal(t, int32(0), calls.Load(), "nothing runs until the timer fires")

	fire <- time.Time{}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run after the timer fired")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestRefresher_SurvivesRequestCancellation(t *testing.T) {
	t.Parallel()

	fire := make(chan time.Time)
	done := make(chan error, 1)

	r := NewRefresher(time.Minute, func(ctx context.Context) error {
		done <- ctx.Err()
		return nil
	})
	r.after = func(time.Duration) <-chan time.Time { return fire }

	ctx, cancel := context.WithCancel(context.Background())
	r.Schedule(ctx)
	cancel()

	fire <- time.Time{}
	select {
	case err := <-done:
		require.NoError(t, err, "the refresh context must outlive the request")
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run")
	}
}

func TestRefresher_FailureIsSwallowed(t *testing.T) {
	t.Parallel()

	fire := make(chan time.Time)
	done := make(chan struct{})

	r := NewRefresher(time.Minute, func(_ context.Context) error {
		defer close(done)
		return errors.New("cache down")
	})
	r.after = func(time.Duration) <-chan time.Time { return fire }

	r.Schedule(context.Background())
	fire <- time.Time{}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not run")
	}
}

func TestRefresher_NilIsSafe(t *testing.T) {
	t.Parallel()

	var r *Refresher
	r.Schedule(context.Background())
}

func TestNewRefresher_DefaultsDelay(t *testing.T) {
	t.Parallel()

	r := NewRefresher(0, func(_ context.Context) error { return nil })
	assert.Equal(t, DefaultRefreshDelay, r.delay)

	r = NewRefresher(2*time.Second, func(_ context.Context) error { return nil })
	assert.Equal(t, 2*time.Second, r.delay)
}
