package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ListNotificationsParams defines query parameters for listing notifications.
type ListNotificationsParams struct {
	Unread bool `form:"unread"`
	PageParams
}

// NotificationResponse defines the data returned for a notification.
type NotificationResponse struct {
	NotificationID string     `json:"id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	EntityType     string     `json:"entityType,omitempty"`
	EntityID       string     `json:"entityId,omitempty"`
	Read           bool       `json:"read"`
	ReadAt         *time.Time `json:"readAt"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// UnreadCountResponse returns the number of unread notifications.
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		NotificationID: n.NotificationID,
		Type:           string(n.Type),
		Title:          n.Title,
		Message:        n.Message,
		EntityType:     n.EntityType,
		EntityID:       n.EntityID,
		Read:           n.ReadAt != nil,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

func ToListNotificationResponse(items []domain.Notification) []NotificationResponse {
	res := make([]NotificationResponse, len(items))
	for i := range items {
		res[i] = ToNotificationResponse(&items[i])
	}
	return res
}
