package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTaskRequest defines the data needed to create a task.
type CreateTaskRequest struct {
	Title          string           `json:"title" binding:"required,max=300"`
	Description    string           `json:"description"`
	Status         string           `json:"status" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Priority       string           `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
}

// UpdateTaskRequest uses pointers for partial updates.
type UpdateTaskRequest struct {
	Title          *string          `json:"title" binding:"omitempty,min=1,max=300"`
	Description    *string          `json:"description"`
	Priority       *string          `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
}

// UpdateTaskStatusRequest changes only the task status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=TODO IN_PROGRESS DONE"`
}

// TaskResponse defines the data returned for a task.
type TaskResponse struct {
	TaskID         string           `json:"id"`
	ProjectID      string           `json:"projectId"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	DueDate        *time.Time       `json:"dueDate"`
	EstimatedHours *decimal.Decimal `json:"estimatedHours"`
	CompletedAt    *time.Time       `json:"completedAt"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
}

func ToTaskResponse(t *domain.Task) TaskResponse {
	res := TaskResponse{
		TaskID:        t.TaskID,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      string(t.Priority),
		DueDate:       t.DueDate,
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
		LastUpdatedAt: t.LastUpdatedAt,
	}
	if t.EstimatedHours.Valid {
		h := t.EstimatedHours.Decimal
		res.EstimatedHours = &h
	}
	return res
}

func ToListTaskResponse(tasks []domain.Task) []TaskResponse {
	res := make([]TaskResponse, len(tasks))
	for i := range tasks {
		res[i] = ToTaskResponse(&tasks[i])
	}
	return res
}
