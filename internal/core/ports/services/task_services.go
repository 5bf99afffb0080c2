package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// TaskSvcFacade manages project tasks.
type TaskSvcFacade interface {
	CreateTask(ctx context.Context, userID, projectID string, req dto.CreateTaskRequest) (*domain.Task, error)
	GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, userID, projectID string, params domain.ListParams) ([]domain.Task, error)
	UpdateTask(ctx context.Context, userID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) (*domain.Task, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
}
