package repositories

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// NotificationRepositoryFacade stores in-app notifications.
type NotificationRepositoryFacade interface {
	SaveNotification(ctx context.Context, n domain.Notification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, params domain.ListParams) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	// ExistsSince reports whether a notification of type for entityID was created at or after since.
	ExistsSince(ctx context.Context, userID string, nType domain.NotificationType, entityID string, since time.Time) (bool, error)
}

// EmailOutboxRepository queues outbound email for the email dispatcher.
type EmailOutboxRepository interface {
	EnqueueEmail(ctx context.Context, msg domain.EmailMessage) error
	// ClaimPendingEmails locks up to limit pending rows with FOR UPDATE SKIP LOCKED
	// and leases them to the caller.
	ClaimPendingEmails(ctx context.Context, limit int) ([]domain.EmailMessage, error)
	MarkEmailSent(ctx context.Context, emailID string, at time.Time) error
	// MarkEmailAttemptFailed records the error; the row becomes FAILED once maxAttempts is reached.
	MarkEmailAttemptFailed(ctx context.Context, emailID, lastError string, maxAttempts int) error
}
