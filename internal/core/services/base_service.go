package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Activities portssvc.ActivityRecorderSvc
	Notifier   portssvc.NotifierSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogUnexpected logs err unless it is an expected client-facing error.
func (s *BaseService) LogUnexpected(ctx context.Context, err error, msg string, keyvals ...any) {
	if isExpected(err) {
		return
	}
	s.LogError(ctx, err, msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// RecordActivity appends to the activity feed when a recorder is configured.
func (s *BaseService) RecordActivity(ctx context.Context, userID, entityType, entityID, action, description string) {
	if s.Activities == nil {
		return
	}
	s.Activities.Record(ctx, userID, entityType, entityID, action, description)
}

// Notify creates a notification when a notifier is configured. Failures are logged only.
func (s *BaseService) Notify(ctx context.Context, in portssvc.NotifyInput) {
	if s.Notifier == nil {
		return
	}
	if _, err := s.Notifier.Notify(ctx, in); err != nil {
		s.LogError(ctx, err, "Failed to create notification",
			slog.String("user_id", in.UserID),
			slog.String("type", string(in.Type)))
	}
}

func isExpected(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrDuplicate) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrUnauthorized)
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// validationError wraps a domain rule violation so it maps to 400.
func validationError(err error) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
}

// validationf builds a validation error from a format string.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
