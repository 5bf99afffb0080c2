package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

// emailLease keeps a claimed outbox row away from other dispatchers while it is sent.
const emailLease = 2 * time.Minute

// PgxNotificationRepository stores notifications and the email outbox.
type PgxNotificationRepository struct {
	BaseRepository
}

func newPgxNotificationRepository(pool *pgxpool.Pool) *PgxNotificationRepository {
	return &PgxNotificationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var (
	_ portsrepo.NotificationRepositoryFacade = (*PgxNotificationRepository)(nil)
	_ portsrepo.EmailOutboxRepository        = (*PgxNotificationRepository)(nil)
)

func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO notifications (notification_id, user_id, type, title, message, entity_type, entity_id, read_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`,
		n.NotificationID, n.UserID, n.Type, n.Title, n.Message, n.EntityType, n.EntityID, n.ReadAt, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, params domain.ListParams) ([]domain.Notification, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT notification_id, user_id, type, title, message, entity_type, entity_id, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND (NOT $2 OR read_at IS NULL)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userID, unreadOnly, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	items := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.NotificationID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.EntityType, &n.EntityID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

func (r *PgxNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *PgxNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE notifications SET read_at = COALESCE(read_at, $1)
		WHERE user_id = $2 AND notification_id = $3;`, at, userID, notificationID)
	return expectOne(tag, err, "mark notification read")
}

func (r *PgxNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `UPDATE notifications SET read_at = $1 WHERE user_id = $2 AND read_at IS NULL`, at, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PgxNotificationRepository) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1 AND notification_id = $2`, userID, notificationID)
	return expectOne(tag, err, "delete notification")
}

func (r *PgxNotificationRepository) ExistsSince(ctx context.Context, userID string, nType domain.NotificationType, entityID string, since time.Time) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND entity_id = $3 AND created_at >= $4
		)`, userID, nType, entityID, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification: %w", err)
	}
	return exists, nil
}

func (r *PgxNotificationRepository) EnqueueEmail(ctx context.Context, m domain.EmailMessage) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO email_outbox (email_id, user_id, to_address, subject, body, status, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7);`,
		m.EmailID, m.UserID, m.ToAddress, m.Subject, m.Body, m.Status, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	return nil
}

func (r *PgxNotificationRepository) ClaimPendingEmails(ctx context.Context, limit int) ([]domain.EmailMessage, error) {
	var claimed []domain.EmailMessage
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			UPDATE email_outbox SET leased_until = NOW() + $2 * INTERVAL '1 second'
			WHERE email_id IN (
				SELECT email_id FROM email_outbox
				WHERE status = 'PENDING' AND (leased_until IS NULL OR leased_until < NOW())
				ORDER BY created_at
				LIMIT $1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING email_id, COALESCE(user_id, ''), to_address, subject, body, status, attempts, last_error, created_at, sent_at`,
			limit, int(emailLease.Seconds()))
		if err != nil {
			return fmt.Errorf("failed to claim emails: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var m domain.EmailMessage
			if err := rows.Scan(&m.EmailID, &m.UserID, &m.ToAddress, &m.Subject, &m.Body, &m.Status, &m.Attempts, &m.LastError, &m.CreatedAt, &m.SentAt); err != nil {
				return fmt.Errorf("failed to scan email row: %w", err)
			}
			claimed = append(claimed, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

func (r *PgxNotificationRepository) MarkEmailSent(ctx context.Context, emailID string, at time.Time) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE email_outbox SET status = 'SENT', sent_at = $1, attempts = attempts + 1, leased_until = NULL
		WHERE email_id = $2;`, at, emailID)
	return expectOne(tag, err, "mark email sent")
}

func (r *PgxNotificationRepository) MarkEmailAttemptFailed(ctx context.Context, emailID, lastError string, maxAttempts int) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE email_outbox
		SET attempts = attempts + 1,
			last_error = $1,
			leased_until = NULL,
			status = CASE WHEN attempts + 1 >= $2 THEN 'FAILED' ELSE status END
		WHERE email_id = $3;`, lastError, maxAttempts, emailID)
	return expectOne(tag, err, "record email failure")
}
