package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
)

type notificationService struct {
	BaseService
	notifRepo  portsrepo.NotificationRepositoryFacade
	outboxRepo portsrepo.EmailOutboxRepository
	userRepo   portsrepo.UserReader
	mailer     gateways.Mailer
	now        func() time.Time
}

// NewNotificationService creates the notification service. A nil or disabled
// mailer turns email queueing off.
func NewNotificationService(
	notifRepo portsrepo.NotificationRepositoryFacade,
	outboxRepo portsrepo.EmailOutboxRepository,
	userRepo portsrepo.UserReader,
	mailer gateways.Mailer,
) portssvc.NotificationSvcFacade {
	return &notificationService{
		notifRepo:  notifRepo,
		outboxRepo: outboxRepo,
		userRepo:   userRepo,
		mailer:     mailer,
		now:        time.Now,
	}
}

var _ portssvc.NotificationSvcFacade = (*notificationService)(nil)

func (s *notificationService) Notify(ctx context.Context, in portssvc.NotifyInput) (*domain.Notification, error) {
	n := domain.Notification{
		NotificationID: uuid.NewString(),
		UserID:         in.UserID,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		EntityType:     in.EntityType,
		EntityID:       in.EntityID,
		CreatedAt:      s.now(),
	}
	if n.Type == "" {
		n.Type = domain.NotificationSystem
	}
	if err := s.notifRepo.SaveNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to save notification: %w", err)
	}
	s.LogDebug(ctx, "Notification created",
		slog.String("notification_id", n.NotificationID),
		slog.String("type", string(n.Type)))

	if in.Email && s.mailEnabled() {
		s.emailUser(ctx, n)
	}
	return &n, nil
}

// emailUser queues the notification to the user's address; failures are logged.
func (s *notificationService) emailUser(ctx context.Context, n domain.Notification) {
	user, err := s.userRepo.FindUserByID(ctx, n.UserID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to load user for notification email", slog.String("user_id", n.UserID))
		return
	}
	if strings.TrimSpace(user.Email) == "" {
		return
	}
	if _, err := s.QueueEmail(ctx, n.UserID, user.Email, n.Title, n.Message); err != nil {
		s.LogError(ctx, err, "Failed to queue notification email", slog.String("notification_id", n.NotificationID))
	}
}

func (s *notificationService) QueueEmail(ctx context.Context, userID, to, subject, body string) (bool, error) {
	if !s.mailEnabled() {
		return false, nil
	}
	msg := domain.EmailMessage{
		EmailID:   uuid.NewString(),
		UserID:    userID,
		ToAddress: to,
		Subject:   subject,
		Body:      body,
		Status:    domain.EmailPending,
		CreatedAt: s.now(),
	}
	if err := s.outboxRepo.EnqueueEmail(ctx, msg); err != nil {
		return false, fmt.Errorf("failed to enqueue email: %w", err)
	}
	return true, nil
}

func (s *notificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, params domain.ListParams) ([]domain.Notification, error) {
	items, err := s.notifRepo.ListNotifications(ctx, userID, unreadOnly, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list notifications")
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if items == nil {
		return []domain.Notification{}, nil
	}
	return items, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.notifRepo.CountUnread(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to count unread notifications")
		return 0, err
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.notifRepo.MarkRead(ctx, userID, notificationID, s.now()); err != nil {
		s.LogUnexpected(ctx, err, "Failed to mark notification read", slog.String("notification_id", notificationID))
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.notifRepo.MarkAllRead(ctx, userID, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to mark notifications read")
		return 0, err
	}
	return n, nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	if err := s.notifRepo.DeleteNotification(ctx, userID, notificationID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete notification", slog.String("notification_id", notificationID))
		return err
	}
	return nil
}

func (s *notificationService) mailEnabled() bool {
	return s.mailer != nil && s.mailer.Enabled() && s.outboxRepo != nil
}
