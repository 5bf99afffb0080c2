package repositories

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// WaveSettingsRepository stores per-user Wave credentials.
type WaveSettingsRepository interface {
	// FindWaveSettings returns ErrNotFound when the user never configured Wave.
	FindWaveSettings(ctx context.Context, userID string) (*domain.WaveSettings, error)
	UpsertWaveSettings(ctx context.Context, settings domain.WaveSettings) error
	// ListWebhookSecrets returns every user that has a webhook secret.
	ListWebhookSecrets(ctx context.Context) ([]domain.WaveSettings, error)
}

// PayoutRepository stores Wave payouts and payout batches.
type PayoutRepository interface {
	// SavePayout inserts a payout; a reused (user, idempotency key) yields ErrDuplicate.
	SavePayout(ctx context.Context, payout domain.Payout) error
	FindPayoutByID(ctx context.Context, userID, payoutID string) (*domain.Payout, error)
	FindPayoutByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Payout, error)
	FindPayoutByWaveID(ctx context.Context, userID, wavePayoutID string) (*domain.Payout, error)
	ListPayouts(ctx context.Context, userID string, params domain.ListParams) ([]domain.Payout, error)
	UpdatePayout(ctx context.Context, payout domain.Payout) error

	// SavePayoutBatch inserts the batch and its payouts atomically.
	SavePayoutBatch(ctx context.Context, batch domain.PayoutBatch) error
	FindPayoutBatchByID(ctx context.Context, userID, batchID string) (*domain.PayoutBatch, error)
	UpdatePayoutBatch(ctx context.Context, batch domain.PayoutBatch) error
}

// AssignmentRepository stores Wave transaction assignments.
type AssignmentRepository interface {
	// CreateAssignment inserts the assignment; when paidAt is set the target
	// invoice is moved to PAID in the same transaction. A transaction already
	// assigned by the user yields ErrDuplicate.
	CreateAssignment(ctx context.Context, assignment domain.WaveTransactionAssignment, paidAt *time.Time) error
	ListAssignments(ctx context.Context, userID string, params domain.ListParams) ([]domain.WaveTransactionAssignment, error)
	FindAssignmentsByTransactionIDs(ctx context.Context, userID string, transactionIDs []string) (map[string]domain.WaveTransactionAssignment, error)
	DeleteAssignment(ctx context.Context, userID, assignmentID string) error
}

// WebhookInboxRepository persists verified webhook events for deferred processing.
type WebhookInboxRepository interface {
	// InsertWebhookEvent returns false when the event id was already received.
	InsertWebhookEvent(ctx context.Context, event domain.WebhookEvent) (bool, error)
	// ClaimWebhookEvents leases up to limit pending events with FOR UPDATE SKIP LOCKED.
	ClaimWebhookEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, eventID string, at time.Time) error
	// MarkWebhookAttemptFailed records the error; the event becomes FAILED once maxAttempts is reached.
	MarkWebhookAttemptFailed(ctx context.Context, eventID, lastError string, maxAttempts int) error
}
