package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	"github.com/kevkotuto/freelance_backend/internal/observability"
)

// EventProcessor applies one stored webhook event.
type EventProcessor interface {
	ProcessEvent(ctx context.Context, event domain.WebhookEvent) error
}

// WaveInboxDispatcher processes verified Wave webhook events stored by the receiver.
type WaveInboxDispatcher struct {
	*loop
	inbox     portsrepo.WebhookInboxRepository
	processor EventProcessor
	now       func() time.Time
}

func NewWaveInboxDispatcher(inbox portsrepo.WebhookInboxRepository, processor EventProcessor, opts Options, logger *slog.Logger) *WaveInboxDispatcher {
	d := &WaveInboxDispatcher{inbox: inbox, processor: processor, now: time.Now}
	d.loop = newLoop("wave_inbox", opts, logger, d.processBatch)
	return d
}

func (d *WaveInboxDispatcher) processBatch(ctx context.Context) (int, error) {
	events, err := d.inbox.ClaimWebhookEvents(ctx, d.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim webhook events: %w", err)
	}
	for _, ev := range events {
		if ctx.Err() != nil {
			return len(events), ctx.Err()
		}
		d.handle(ctx, ev)
	}
	return len(events), nil
}

func (d *WaveInboxDispatcher) handle(ctx context.Context, ev domain.WebhookEvent) {
	logger := d.logger.With(slog.String("event_id", ev.EventID), slog.String("event_type", ev.EventType))

	if err := d.processor.ProcessEvent(ctx, ev); err != nil {
		logger.Warn("Webhook event processing failed", slog.Int("attempt", ev.Attempts+1), slog.String("error", err.Error()))
		observability.RecordDispatcherItem(d.name, "failed")
		if markErr := d.inbox.MarkWebhookAttemptFailed(ctx, ev.EventID, truncate(err.Error(), 1000), d.opts.MaxAttempts); markErr != nil {
			logger.Error("Failed to record webhook attempt", slog.String("error", markErr.Error()))
		}
		return
	}
	if err := d.inbox.MarkWebhookProcessed(ctx, ev.EventID, d.now().UTC()); err != nil {
		logger.Error("Failed to mark webhook processed", slog.String("error", err.Error()))
		return
	}
	observability.RecordDispatcherItem(d.name, "processed")
	logger.Debug("Webhook event processed")
}
