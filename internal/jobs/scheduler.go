// Package jobs runs the daily maintenance jobs on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/observability"
	"github.com/robfig/cron/v3"
)

const (
	OverdueInvoices      = "overdue-invoices"
	SubscriptionRenewals = "subscription-renewals"
	ProjectDeadlines     = "project-deadlines"

	deadlineWindow = 72 * time.Hour
	jobTimeout     = 10 * time.Minute
)

// Job is a named unit of work. Run returns how many records it touched.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context, now time.Time) (int, error)
}

// Scheduler owns the cron runner and the job registry.
type Scheduler struct {
	cron   *cron.Cron
	jobs   map[string]Job
	logger *slog.Logger
	now    func() time.Time
}

// NewScheduler registers jobs on a UTC cron that recovers panics and skips
// a run while the previous one is still going.
func NewScheduler(logger *slog.Logger, jobs ...Job) (*Scheduler, error) {
	cronLogger := cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		jobs:   make(map[string]Job, len(jobs)),
		logger: logger,
		now:    time.Now,
	}
	for _, j := range jobs {
		if _, dup := s.jobs[j.Name]; dup {
			return nil, fmt.Errorf("job %s registered twice", j.Name)
		}
		job := j
		if _, err := s.cron.AddFunc(job.Schedule, func() { _, _ = s.execute(context.Background(), job) }); err != nil {
			return nil, fmt.Errorf("invalid schedule %q for job %s: %w", job.Schedule, job.Name, err)
		}
		s.jobs[job.Name] = job
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", slog.Any("jobs", s.Names()))
}

// Stop waits for running jobs or for ctx, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out with jobs still running")
	}
}

// Names lists the registered jobs in order.
func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.jobs))
	for n := range s.jobs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RunOnce executes the named job immediately.
func (s *Scheduler) RunOnce(ctx context.Context, name string) (int, error) {
	job, ok := s.jobs[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown job %q (known: %v)", apperrors.ErrNotFound, name, s.Names())
	}
	return s.execute(ctx, job)
}

func (s *Scheduler) execute(ctx context.Context, job Job) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	start := time.Now()
	n, err := job.Run(ctx, s.now().UTC())
	observability.RecordJobRun(job.Name, err)
	logger := s.logger.With(slog.String("job", job.Name), slog.Duration("elapsed", time.Since(start)))
	if err != nil {
		logger.Error("Job failed", slog.String("error", err.Error()), slog.Int("processed", n))
		return n, err
	}
	logger.Info("Job finished", slog.Int("processed", n))
	return n, nil
}
