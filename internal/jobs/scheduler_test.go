package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJobsSvc struct {
	overdueAt  time.Time
	renewedAt  time.Time
	deadlineAt time.Time
	window     time.Duration
}

func (f *fakeJobsSvc) MarkOverdueInvoices(_ context.Context, now time.Time) (int, error) {
	f.overdueAt = now
	return 2, nil
}

func (f *fakeJobsSvc) RenewDueSubscriptions(_ context.Context, now time.Time) (int, error) {
	f.renewedAt = now
	return 4, nil
}

func (f *fakeJobsSvc) NotifyUpcomingDeadlines(_ context.Context, now time.Time, window time.Duration) (int, error) {
	f.deadlineAt, f.window = now, window
	return 1, nil
}

func TestNewScheduler_RejectsBadInput(t *testing.T) {
	noop := func(context.Context, time.Time) (int, error) { return 0, nil }

	_, err := NewScheduler(slog.Default(), Job{Name: "a", Schedule: "not a cron", Run: noop})
	assert.Error(t, err)

	_, err = NewScheduler(slog.Default(),
		Job{Name: "a", Schedule: "0 5 * * *", Run: noop},
		Job{Name: "a", Schedule: "0 6 * * *", Run: noop},
	)
	assert.ErrorContains(t, err, "registered twice")
}

func TestRunOnce(t *testing.T) {
	fixed := time.Date(2026, 4, 2, 6, 0, 0, 0, time.UTC)
	var got time.Time
	s, err := NewScheduler(slog.Default(), Job{
		Name:     OverdueInvoices,
		Schedule: "0 6 * * *",
		Run: func(_ context.Context, now time.Time) (int, error) {
			got = now
			return 3, nil
		},
	})
	require.NoError(t, err)
	s.now = func() time.Time { return fixed }

	n, err := s.RunOnce(t.Context(), OverdueInvoices)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, fixed, got)
}

func TestRunOnce_UnknownJob(t *testing.T) {
	s, err := NewScheduler(slog.Default())
	require.NoError(t, err)

	_, err = s.RunOnce(t.Context(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRunOnce_PropagatesError(t *testing.T) {
	boom := errors.New("db down")
	s, err := NewScheduler(slog.Default(), Job{
		Name:     "failing",
		Schedule: "@daily",
		Run:      func(context.Context, time.Time) (int, error) { return 0, boom },
	})
	require.NoError(t, err)

	_, err = s.RunOnce(t.Context(), "failing")
	assert.ErrorIs(t, err, boom)
}

func TestDefaultJobs(t *testing.T) {
	svc := &fakeJobsSvc{}
	s, err := NewScheduler(slog.Default(), DefaultJobs(svc, svc, svc)...)
	require.NoError(t, err)
	assert.Equal(t, []string{OverdueInvoices, ProjectDeadlines, SubscriptionRenewals}, s.Names())

	n, err := s.RunOnce(t.Context(), ProjectDeadlines)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 72*time.Hour, svc.window)

	_, err = s.RunOnce(t.Context(), OverdueInvoices)
	require.NoError(t, err)
	assert.False(t, svc.overdueAt.IsZero())

	n, err = s.RunOnce(t.Context(), SubscriptionRenewals)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.False(t, svc.renewedAt.IsZero())
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(slog.Default())
	require.NoError(t, err)
	s.Start()
	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
