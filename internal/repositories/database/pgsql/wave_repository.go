package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

// webhookLease keeps a claimed inbox row away from other dispatchers while it is processed.
const webhookLease = 2 * time.Minute

// webhookRetryBackoff spaces out retries of a failed inbox row, growing with each attempt.
const webhookRetryBackoff = 30 * time.Second

// PgxWaveRepository stores Wave credentials, payouts, assignments and the webhook inbox.
type PgxWaveRepository struct {
	BaseRepository
}

func newPgxWaveRepository(pool *pgxpool.Pool) *PgxWaveRepository {
	return &PgxWaveRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.WaveSettingsRepository = (*PgxWaveRepository)(nil)
	_ portsrepo.PayoutRepository       = (*PgxWaveRepository)(nil)
	_ portsrepo.AssignmentRepository   = (*PgxWaveRepository)(nil)
	_ portsrepo.WebhookInboxRepository = (*PgxWaveRepository)(nil)
)

// --- settings ---

func (r *PgxWaveRepository) FindWaveSettings(ctx context.Context, userID string) (*domain.WaveSettings, error) {
	var s domain.WaveSettings
	err := r.Pool.QueryRow(ctx, `
		SELECT user_id, api_key, webhook_secret, created_at, last_updated_at
		FROM wave_settings WHERE user_id = $1`, userID).
		Scan(&s.UserID, &s.APIKey, &s.WebhookSecret, &s.CreatedAt, &s.LastUpdatedAt)
	if err != nil {
		return nil, mapError(err, "find wave settings")
	}
	return &s, nil
}

func (r *PgxWaveRepository) UpsertWaveSettings(ctx context.Context, s domain.WaveSettings) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO wave_settings (user_id, api_key, webhook_secret, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			api_key = EXCLUDED.api_key,
			webhook_secret = EXCLUDED.webhook_secret,
			last_updated_at = EXCLUDED.last_updated_at;`,
		s.UserID, s.APIKey, s.WebhookSecret, s.CreatedAt, s.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert wave settings: %w", err)
	}
	return nil
}

func (r *PgxWaveRepository) ListWebhookSecrets(ctx context.Context) ([]domain.WaveSettings, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT user_id, api_key, webhook_secret, created_at, last_updated_at
		FROM wave_settings WHERE webhook_secret <> ''`)
	if err != nil {
		return nil, fmt.Errorf("failed to query webhook secrets: %w", err)
	}
	defer rows.Close()

	var items []domain.WaveSettings
	for rows.Next() {
		var s domain.WaveSettings
		if err := rows.Scan(&s.UserID, &s.APIKey, &s.WebhookSecret, &s.CreatedAt, &s.LastUpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wave settings row: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// --- payouts ---

const payoutSelect = `
SELECT p.payout_id, p.user_id, p.batch_id, p.idempotency_key, p.wave_payout_id, p.mobile, p.name,
	p.amount, p.currency, p.reason, p.status, p.fee, p.last_error, p.created_at, p.last_updated_at
FROM wave_payouts p
`

func scanPayout(row pgx.Row) (domain.Payout, error) {
	var p domain.Payout
	err := row.Scan(&p.PayoutID, &p.UserID, &p.BatchID, &p.IdempotencyKey, &p.WavePayoutID, &p.Mobile, &p.Name,
		&p.Amount, &p.Currency, &p.Reason, &p.Status, &p.Fee, &p.LastError, &p.CreatedAt, &p.LastUpdatedAt)
	return p, err
}

func (r *PgxWaveRepository) getPayouts(ctx context.Context, filterQuery string, args ...any) ([]domain.Payout, error) {
	rows, err := r.Pool.Query(ctx, payoutSelect+filterQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payouts: %w", err)
	}
	defer rows.Close()

	payouts := []domain.Payout{}
	for rows.Next() {
		p, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payout row: %w", err)
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}

func (r *PgxWaveRepository) findPayout(ctx context.Context, where string, args ...any) (*domain.Payout, error) {
	p, err := scanPayout(r.Pool.QueryRow(ctx, payoutSelect+where, args...))
	if err != nil {
		return nil, mapError(err, "find payout")
	}
	return &p, nil
}

func insertPayout(ctx context.Context, q querier, p domain.Payout) error {
	_, err := q.Exec(ctx, `
		INSERT INTO wave_payouts (payout_id, user_id, batch_id, idempotency_key, wave_payout_id, mobile, name,
			amount, currency, reason, status, fee, last_error, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		p.PayoutID, p.UserID, p.BatchID, p.IdempotencyKey, p.WavePayoutID, p.Mobile, p.Name,
		p.Amount, p.Currency, p.Reason, p.Status, p.Fee, p.LastError, p.CreatedAt, p.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save payout: %w", err)
	}
	return nil
}

func updatePayout(ctx context.Context, q querier, p domain.Payout) error {
	tag, err := q.Exec(ctx, `
		UPDATE wave_payouts
		SET wave_payout_id = $1, status = $2, fee = $3, last_error = $4, last_updated_at = $5
		WHERE user_id = $6 AND payout_id = $7;`,
		p.WavePayoutID, p.Status, p.Fee, p.LastError, p.LastUpdatedAt, p.UserID, p.PayoutID)
	return expectOne(tag, err, "update payout")
}

func (r *PgxWaveRepository) SavePayout(ctx context.Context, p domain.Payout) error {
	return insertPayout(ctx, r.Pool, p)
}

func (r *PgxWaveRepository) FindPayoutByID(ctx context.Context, userID, payoutID string) (*domain.Payout, error) {
	return r.findPayout(ctx, `WHERE p.user_id = $1 AND p.payout_id = $2`, userID, payoutID)
}

func (r *PgxWaveRepository) FindPayoutByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Payout, error) {
	return r.findPayout(ctx, `WHERE p.user_id = $1 AND p.idempotency_key = $2`, userID, key)
}

func (r *PgxWaveRepository) FindPayoutByWaveID(ctx context.Context, userID, wavePayoutID string) (*domain.Payout, error) {
	return r.findPayout(ctx, `WHERE p.user_id = $1 AND p.wave_payout_id = $2`, userID, wavePayoutID)
}

func (r *PgxWaveRepository) ListPayouts(ctx context.Context, userID string, params domain.ListParams) ([]domain.Payout, error) {
	return r.getPayouts(ctx, `WHERE p.user_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`,
		userID, params.Limit, params.Offset)
}

func (r *PgxWaveRepository) UpdatePayout(ctx context.Context, p domain.Payout) error {
	return updatePayout(ctx, r.Pool, p)
}

func (r *PgxWaveRepository) SavePayoutBatch(ctx context.Context, b domain.PayoutBatch) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO wave_payout_batches (batch_id, user_id, wave_batch_id, status, created_at, last_updated_at)
			VALUES ($1, $2, $3, $4, $5, $6);`,
			b.BatchID, b.UserID, b.WaveBatchID, b.Status, b.CreatedAt, b.LastUpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to save payout batch: %w", err)
		}
		for _, p := range b.Payouts {
			if err := insertPayout(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PgxWaveRepository) FindPayoutBatchByID(ctx context.Context, userID, batchID string) (*domain.PayoutBatch, error) {
	var b domain.PayoutBatch
	err := r.Pool.QueryRow(ctx, `
		SELECT batch_id, user_id, wave_batch_id, status, created_at, last_updated_at
		FROM wave_payout_batches WHERE user_id = $1 AND batch_id = $2`, userID, batchID).
		Scan(&b.BatchID, &b.UserID, &b.WaveBatchID, &b.Status, &b.CreatedAt, &b.LastUpdatedAt)
	if err != nil {
		return nil, mapError(err, "find payout batch")
	}
	if b.Payouts, err = r.getPayouts(ctx, `WHERE p.user_id = $1 AND p.batch_id = $2 ORDER BY p.created_at, p.payout_id`, userID, batchID); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PgxWaveRepository) UpdatePayoutBatch(ctx context.Context, b domain.PayoutBatch) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE wave_payout_batches SET wave_batch_id = $1, status = $2, last_updated_at = $3
			WHERE user_id = $4 AND batch_id = $5;`,
			b.WaveBatchID, b.Status, b.LastUpdatedAt, b.UserID, b.BatchID)
		if err := expectOne(tag, err, "update payout batch"); err != nil {
			return err
		}
		for _, p := range b.Payouts {
			if err := updatePayout(ctx, tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

// --- assignments ---

const assignmentColumns = `assignment_id, user_id, transaction_id, type, invoice_id, expense_id, amount, currency, note, created_at`

func scanAssignment(row pgx.Row) (domain.WaveTransactionAssignment, error) {
	var a domain.WaveTransactionAssignment
	err := row.Scan(&a.AssignmentID, &a.UserID, &a.TransactionID, &a.Type, &a.InvoiceID, &a.ExpenseID,
		&a.Amount, &a.Currency, &a.Note, &a.CreatedAt)
	return a, err
}

func (r *PgxWaveRepository) CreateAssignment(ctx context.Context, a domain.WaveTransactionAssignment, paidAt *time.Time) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO wave_transaction_assignments (`+assignmentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
			a.AssignmentID, a.UserID, a.TransactionID, a.Type, a.InvoiceID, a.ExpenseID,
			a.Amount, a.Currency, a.Note, a.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicate
			}
			return fmt.Errorf("failed to save assignment: %w", err)
		}
		if paidAt == nil || a.InvoiceID == nil {
			return nil
		}
		return updateStatus(ctx, tx, a.UserID, *a.InvoiceID,
			[]domain.InvoiceStatus{domain.InvoicePending, domain.InvoiceOverdue}, domain.InvoicePaid, paidAt)
	})
}

func (r *PgxWaveRepository) ListAssignments(ctx context.Context, userID string, params domain.ListParams) ([]domain.WaveTransactionAssignment, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+assignmentColumns+` FROM wave_transaction_assignments
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	items := []domain.WaveTransactionAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *PgxWaveRepository) FindAssignmentsByTransactionIDs(ctx context.Context, userID string, transactionIDs []string) (map[string]domain.WaveTransactionAssignment, error) {
	result := make(map[string]domain.WaveTransactionAssignment, len(transactionIDs))
	if len(transactionIDs) == 0 {
		return result, nil
	}
	rows, err := r.Pool.Query(ctx, `SELECT `+assignmentColumns+` FROM wave_transaction_assignments
		WHERE user_id = $1 AND transaction_id = ANY($2)`, userID, transactionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		result[a.TransactionID] = a
	}
	return result, rows.Err()
}

func (r *PgxWaveRepository) DeleteAssignment(ctx context.Context, userID, assignmentID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM wave_transaction_assignments WHERE user_id = $1 AND assignment_id = $2`, userID, assignmentID)
	return expectOne(tag, err, "delete assignment")
}

// --- webhook inbox ---

func (r *PgxWaveRepository) InsertWebhookEvent(ctx context.Context, e domain.WebhookEvent) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `
		INSERT INTO wave_webhook_events (event_id, user_id, event_type, payload, status, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (event_id) DO NOTHING;`,
		e.EventID, e.UserID, e.EventType, string(e.Payload), e.Status, e.ReceivedAt)
	if err != nil {
		return false, fmt.Errorf("failed to insert webhook event: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxWaveRepository) ClaimWebhookEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error) {
	var claimed []domain.WebhookEvent
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE wave_webhook_events SET leased_until = NOW() + $2 * INTERVAL '1 second'
			WHERE event_id IN (
				SELECT event_id FROM wave_webhook_events
				WHERE status = 'PENDING' AND (leased_until IS NULL OR leased_until < NOW())
				ORDER BY received_at
				LIMIT $1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING event_id, user_id, event_type, payload::text, status, attempts, last_error, received_at, processed_at`,
			limit, int(webhookLease.Seconds()))
		if err != nil {
			return fmt.Errorf("failed to claim webhook events: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var e domain.WebhookEvent
			var payload string
			if err := rows.Scan(&e.EventID, &e.UserID, &e.EventType, &payload, &e.Status, &e.Attempts, &e.LastError, &e.ReceivedAt, &e.ProcessedAt); err != nil {
				return fmt.Errorf("failed to scan webhook event: %w", err)
			}
			e.Payload = []byte(payload)
			claimed = append(claimed, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *PgxWaveRepository) MarkWebhookProcessed(ctx context.Context, eventID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE wave_webhook_events
		SET status = 'PROCESSED', processed_at = $1, attempts = attempts + 1, leased_until = NULL
		WHERE event_id = $2;`, at, eventID)
	return expectOne(tag, err, "mark webhook processed")
}

func (r *PgxWaveRepository) MarkWebhookAttemptFailed(ctx context.Context, eventID, lastError string, maxAttempts int) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE wave_webhook_events
		SET attempts = attempts + 1,
			last_error = $1,
			leased_until = NOW() + (attempts + 1) * $4 * INTERVAL '1 second',
			status = CASE WHEN attempts + 1 >= $2 THEN 'FAILED' ELSE status END
		WHERE event_id = $3;`, lastError, maxAttempts, eventID, int(webhookRetryBackoff.Seconds()))
	return expectOne(tag, err, "record webhook failure")
}
