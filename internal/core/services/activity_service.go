package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
)

type activityService struct {
	BaseService
	activityRepo portsrepo.ActivityRepository
}

// NewActivityService creates the activity feed service.
func NewActivityService(repo portsrepo.ActivityRepository) portssvc.ActivitySvcFacade {
	return &activityService{activityRepo: repo}
}

var _ portssvc.ActivitySvcFacade = (*activityService)(nil)

func (s *activityService) Record(ctx context.Context, userID, entityType, entityID, action, description string) {
	activity := domain.Activity{
		ActivityID:  uuid.NewString(),
		UserID:      userID,
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.activityRepo.SaveActivity(ctx, activity); err != nil {
		s.LogError(ctx, err, "Failed to record activity",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID),
			slog.String("action", action))
	}
}

func (s *activityService) ListActivities(ctx context.Context, userID string, entityType *string, params domain.ListParams) ([]domain.Activity, error) {
	items, err := s.activityRepo.ListActivities(ctx, userID, entityType, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list activities")
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	if items == nil {
		return []domain.Activity{}, nil
	}
	return items, nil
}
