package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	"github.com/kevkotuto/freelance_backend/internal/observability"
)

// EmailDispatcher delivers queued outbox emails through the mailer.
type EmailDispatcher struct {
	*loop
	outbox portsrepo.EmailOutboxRepository
	mailer gateways.Mailer
	now    func() time.Time
}

func NewEmailDispatcher(outbox portsrepo.EmailOutboxRepository, mailer gateways.Mailer, opts Options, logger *slog.Logger) *EmailDispatcher {
	d := &EmailDispatcher{outbox: outbox, mailer: mailer, now: time.Now}
	d.loop = newLoop("email", opts, logger, d.processBatch)
	return d
}

func (d *EmailDispatcher) processBatch(ctx context.Context) (int, error) {
	if d.mailer == nil || !d.mailer.Enabled() {
		return 0, nil
	}
	emails, err := d.outbox.ClaimPendingEmails(ctx, d.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim pending emails: %w", err)
	}
	for _, msg := range emails {
		if ctx.Err() != nil {
			return len(emails), ctx.Err()
		}
		d.send(ctx, msg)
	}
	return len(emails), nil
}

func (d *EmailDispatcher) send(ctx context.Context, msg domain.EmailMessage) {
	logger := d.logger.With(slog.String("email_id", msg.EmailID))

	if err := d.mailer.Send(ctx, msg.ToAddress, msg.Subject, msg.Body); err != nil {
		logger.Warn("Email delivery failed", slog.Int("attempt", msg.Attempts+1), slog.String("error", err.Error()))
		observability.RecordDispatcherItem(d.name, "failed")
		if markErr := d.outbox.MarkEmailAttemptFailed(ctx, msg.EmailID, truncate(err.Error(), 1000), d.opts.MaxAttempts); markErr != nil {
			logger.Error("Failed to record email attempt", slog.String("error", markErr.Error()))
		}
		return
	}
	if err := d.outbox.MarkEmailSent(ctx, msg.EmailID, d.now().UTC()); err != nil {
		logger.Error("Failed to mark email sent", slog.String("error", err.Error()))
		return
	}
	observability.RecordDispatcherItem(d.name, "sent")
}
