package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunOnceExecutesJobsInOrder(t *testing.T) {
	s := NewScheduler()

	var order []string
	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		order = append(order, "first")
		return nil
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRunOnceStopsAtFirstFailure(t *testing.T) {
	s := NewScheduler()

	boom := errors.New("boom")
	var ran bool
	s.AddJob("failing", time.Hour, func(ctx context.Context) error { return boom })
	s.AddJob("after", time.Hour, func(ctx context.Context) error {
		ran = true
		return nil
	})

	err := s.RunOnce(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, ran)
}

func TestStartRunsJobImmediatelyAndStopWaits(t *testing.T) {
	s := NewScheduler()

	done := make(chan struct{})
	s.AddJob("immediate", time.Hour, func(ctx context.Context) error {
		close(done)
		return nil
	})

	s.Start()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestPanickingJobDoesNotKillScheduler(t *testing.T) {
	s := NewScheduler()
	s.AddJob("panicky", time.Hour, func(ctx context.Context) error {
		panic("oops")
	})

	s.Start()
	s.Stop()
}
