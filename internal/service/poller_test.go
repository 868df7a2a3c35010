package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthavgonda/timetable-gateway/internal/models"
	"github.com/arthavgonda/timetable-gateway/internal/upstream"
)

type scriptedFetcher struct {
	responses []fetchStep
	calls     int
}

type fetchStep struct {
	status *upstream.TaskStatus
	err    error
}

func (f *scriptedFetcher) TaskStatus(context.Context, string) (*upstream.TaskStatus, error) {
	step := f.responses[len(f.responses)-1]
	if f.calls < len(f.responses) {
		step = f.responses[f.calls]
	}
	f.calls++
	return step.status, step.err
}

type recordingSleeper struct {
	durations []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.durations = append(s.durations, d)
	return nil
}

func running(progress int, message string) fetchStep {
	return fetchStep{status: &upstream.TaskStatus{Status: upstream.StatusRunning, Progress: progress, Message: message}}
}

func newTestPoller(fetcher taskStatusFetcher, sleeper *recordingSleeper, onUpdate func(PollUpdate)) *Poller {
	p := NewPoller(fetcher, PollerConfig{
		InitialDelay: time.Second,
		Interval:     2 * time.Second,
		MaxAttempts:  300,
	}, nil, nil, onUpdate)
	p.sleep = sleeper.sleep
	return p
}

func TestPollerCompletesOnThirdPoll(t *testing.T) {
	result := &models.Timetable{Date: "02-03-2026", EndDate: "07-03-2026"}
	fetcher := &scriptedFetcher{responses: []fetchStep{
		running(40, "placing sections"),
		running(75, "resolving clashes"),
		{status: &upstream.TaskStatus{Status: upstream.StatusCompleted, Progress: 100, Message: "done", Result: result}},
	}}
	sleeper := &recordingSleeper{}
	var updates []PollUpdate
	poller := newTestPoller(fetcher, sleeper, func(u PollUpdate) { updates = append(updates, u) })

	outcome, err := poller.Run(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, models.TaskCompleted, outcome.State)
	assert.Equal(t, result, outcome.Result)
	assert.Equal(t, 3, fetcher.calls)
	// Initial delay, then one interval between each consecutive poll.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 2 * time.Second}, sleeper.durations)
	require.Len(t, updates, 3)
	assert.Equal(t, 40, updates[0].Progress)
	assert.Equal(t, 75, updates[1].Progress)
}

func TestPollerReportsFailure(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchStep{
		running(10, "starting"),
		{status: &upstream.TaskStatus{Status: upstream.StatusFailed, Message: "optimizer crashed", Error: "no feasible assignment"}},
	}}
	poller := newTestPoller(fetcher, &recordingSleeper{}, nil)

	outcome, err := poller.Run(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, models.TaskFailed, outcome.State)
	assert.Equal(t, "no feasible assignment", outcome.Error)
	assert.Equal(t, 2, fetcher.calls)
}

func TestPollerFailureFallsBackToMessage(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchStep{
		{status: &upstream.TaskStatus{Status: upstream.StatusFailed, Message: "optimizer crashed"}},
	}}
	poller := newTestPoller(fetcher, &recordingSleeper{}, nil)

	outcome, err := poller.Run(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "optimizer crashed", outcome.Error)
}

func TestPollerTimesOutAfterBudget(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchStep{running(50, "still working")}}
	poller := newTestPoller(fetcher, &recordingSleeper{}, nil)

	outcome, err := poller.Run(context.Background(), "abc123")
	require.NoError(t, err)

	assert.Equal(t, models.TaskTimedOut, outcome.State)
	// Exactly the budget, never a 301st poll.
	assert.Equal(t, 300, fetcher.calls)
}

func TestPollerTreatsTransportErrorsAsTransient(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchStep{
		{err: errors.New("connection refused")},
		running(20, "starting"),
		{err: errors.New("connection refused")},
		{status: &upstream.TaskStatus{Status: upstream.StatusCompleted, Progress: 100}},
	}}
	poller := newTestPoller(fetcher, &recordingSleeper{}, nil)

	outcome, err := poller.Run(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, outcome.State)
	assert.Equal(t, 4, fetcher.calls)
}

func TestPollerTransportErrorsShareAttemptBudget(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchStep{{err: errors.New("connection refused")}}}
	sleeper := &recordingSleeper{}
	poller := NewPoller(fetcher, PollerConfig{InitialDelay: time.Second, Interval: 2 * time.Second, MaxAttempts: 5}, nil, nil, nil)
	poller.sleep = sleeper.sleep

	outcome, err := poller.Run(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, models.TaskTimedOut, outcome.State)
	assert.Equal(t, 5, fetcher.calls)
}

func TestPollerStopsOnCancellation(t *testing.T) {
	fetcher := &scriptedFetcher{responses: []fetchStep{running(10, "starting")}}
	ctx, cancel := context.WithCancel(context.Background())

	var updates int
	poller := NewPoller(fetcher, PollerConfig{}, nil, nil, func(PollUpdate) { updates++ })
	calls := 0
	poller.sleep = func(ctx context.Context, d time.Duration) error {
		calls++
		if calls > 2 {
			cancel()
		}
		return ctx.Err()
	}

	_, err := poller.Run(ctx, "abc123")
	require.ErrorIs(t, err, context.Canceled)
	// Two polls happened before cancellation, then nothing more.
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, 2, updates)
}
