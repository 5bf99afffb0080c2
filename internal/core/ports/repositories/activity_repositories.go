package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ActivityRepository stores the append-only activity feed.
type ActivityRepository interface {
	SaveActivity(ctx context.Context, activity domain.Activity) error
	ListActivities(ctx context.Context, userID string, entityType *string, params domain.ListParams) ([]domain.Activity, error)
}
