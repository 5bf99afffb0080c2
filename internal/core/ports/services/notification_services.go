package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// NotifyInput describes a notification to create.
type NotifyInput struct {
	UserID     string
	Type       domain.NotificationType
	Title      string
	Message    string
	EntityType string
	EntityID   string
	// Email also queues the message to the user's address when mail is enabled.
	Email bool
}

// NotifierSvc creates notifications on behalf of other services.
type NotifierSvc interface {
	// Notify stores the notification. Email queueing failures are logged only.
	Notify(ctx context.Context, in NotifyInput) (*domain.Notification, error)
}

// NotificationSvcFacade combines the user-facing notification operations with Notify.
type NotificationSvcFacade interface {
	NotifierSvc
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, params domain.ListParams) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	DeleteNotification(ctx context.Context, userID, notificationID string) error
	// QueueEmail puts an arbitrary email in the outbox. It returns false when mail is disabled.
	QueueEmail(ctx context.Context, userID, to, subject, body string) (bool, error)
}

// ActivityRecorderSvc appends to the activity feed.
type ActivityRecorderSvc interface {
	// Record never fails the caller; errors are logged.
	Record(ctx context.Context, userID, entityType, entityID, action, description string)
}

// ActivitySvcFacade combines recording with listing.
type ActivitySvcFacade interface {
	ActivityRecorderSvc
	ListActivities(ctx context.Context, userID string, entityType *string, params domain.ListParams) ([]domain.Activity, error)
}
