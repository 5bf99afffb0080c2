// Package workers runs the background dispatchers that drain the webhook inbox
// and the email outbox.
package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/observability"
)

// Options tunes a dispatcher.
type Options struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

func (o Options) withDefaults() Options {
	if o.PollInterval <= 0 {
		o.PollInterval = 2 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	return o
}

// loop polls step until ctx is cancelled. A full batch is followed
// immediately by another poll instead of waiting for the ticker.
type loop struct {
	name             string
	opts             Options
	logger           *slog.Logger
	step             func(ctx context.Context) (int, error)
	shutdownComplete chan struct{}
}

func newLoop(name string, opts Options, logger *slog.Logger, step func(ctx context.Context) (int, error)) *loop {
	return &loop{
		name:             name,
		opts:             opts.withDefaults(),
		logger:           logger.With(slog.String("dispatcher", name)),
		step:             step,
		shutdownComplete: make(chan struct{}),
	}
}

// Start runs the polling loop. It should be called in a goroutine.
func (l *loop) Start(ctx context.Context) {
	ticker := time.NewTicker(l.opts.PollInterval)
	defer func() {
		ticker.Stop()
		close(l.shutdownComplete)
	}()
	l.logger.Info("Dispatcher started", slog.Duration("poll_interval", l.opts.PollInterval))

	for {
		n, err := l.runBatch(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			l.logger.Error("Dispatcher batch failed", slog.String("error", err.Error()))
		}
		if n >= l.opts.BatchSize && ctx.Err() == nil {
			continue
		}

		select {
		case <-ctx.Done():
			l.logger.Info("Dispatcher stopped")
			return
		case <-ticker.C:
		}
	}
}

// Wait blocks until Start has returned.
func (l *loop) Wait() {
	<-l.shutdownComplete
}

func (l *loop) runBatch(ctx context.Context) (int, error) {
	start := time.Now()
	n, err := l.step(ctx)
	if n > 0 {
		observability.ObserveDispatcherBatch(l.name, time.Since(start))
	}
	return n, err
}

// truncate keeps stored error messages bounded.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
