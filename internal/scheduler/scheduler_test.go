package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	s := New(time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("startup run never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSchedulerTicks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping tick test in short mode")
	}
	// cron rounds sub-second intervals up to one second.
	var runs atomic.Int32
	s := New(time.Second, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(2500 * time.Millisecond)

	// One immediate run plus at least two ticks.
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

func TestSchedulerSurvivesRunErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping tick test in short mode")
	}
	var runs atomic.Int32
	s := New(time.Second, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("transient failure")
	})
	defer s.Stop()

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(1500 * time.Millisecond)
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestSchedulerSpec(t *testing.T) {
	s := New(24*time.Hour, func(ctx context.Context) error { return nil })
	assert.Equal(t, "@every 24h0m0s", s.spec)
}
