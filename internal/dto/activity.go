package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ListActivitiesParams defines query parameters for the activity feed.
type ListActivitiesParams struct {
	EntityType string `form:"entityType" binding:"omitempty,oneof=CLIENT PROJECT TASK INVOICE EXPENSE PAYOUT FILE"`
	PageParams
}

type ActivityResponse struct {
	ActivityID  string    `json:"id"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ToListActivityResponse(items []domain.Activity) []ActivityResponse {
	res := make([]ActivityResponse, len(items))
	for i, a := range items {
		res[i] = ActivityResponse{
			ActivityID:  a.ActivityID,
			EntityType:  a.EntityType,
			EntityID:    a.EntityID,
			Action:      a.Action,
			Description: a.Description,
			CreatedAt:   a.CreatedAt,
		}
	}
	return res
}
