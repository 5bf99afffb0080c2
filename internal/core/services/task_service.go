package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/shopspring/decimal"
)

type taskService struct {
	BaseService
	taskRepo    portsrepo.TaskRepositoryFacade
	projectRepo portsrepo.ProjectReader
}

// NewTaskService creates the task service.
func NewTaskService(taskRepo portsrepo.TaskRepositoryFacade, projectRepo portsrepo.ProjectReader) portssvc.TaskSvcFacade {
	return &taskService{taskRepo: taskRepo, projectRepo: projectRepo}
}

var _ portssvc.TaskSvcFacade = (*taskService)(nil)

func (s *taskService) CreateTask(ctx context.Context, userID, projectID string, req dto.CreateTaskRequest) (*domain.Task, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, userID, projectID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to find project", slog.String("project_id", projectID))
		return nil, err
	}

	now := time.Now()
	task := domain.Task{
		TaskID:      uuid.NewString(),
		UserID:      userID,
		ProjectID:   projectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.TaskTodo,
		Priority:    domain.PriorityMedium,
		DueDate:     req.DueDate,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if task.Title == "" {
		return nil, validationf("title must not be blank")
	}
	if req.Priority != "" {
		task.Priority = domain.TaskPriority(req.Priority)
	}
	if req.EstimatedHours != nil {
		if req.EstimatedHours.IsNegative() {
			return nil, validationf("estimated hours must not be negative")
		}
		task.EstimatedHours = decimal.NewNullDecimal(*req.EstimatedHours)
	}
	if req.Status != "" {
		task.SetStatus(domain.TaskStatus(req.Status), now)
	}

	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("task_id", task.TaskID))
		return nil, err
	}
	s.LogInfo(ctx, "Task created", slog.String("task_id", task.TaskID), slog.String("project_id", projectID))
	return &task, nil
}

func (s *taskService) GetTask(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	task, err := s.taskRepo.FindTaskByID(ctx, userID, taskID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find task", slog.String("task_id", taskID))
		return nil, err
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, userID, projectID string, params domain.ListParams) ([]domain.Task, error) {
	if _, err := s.projectRepo.FindProjectByID(ctx, userID, projectID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to find project", slog.String("project_id", projectID))
		return nil, err
	}
	tasks, err := s.taskRepo.ListTasksByProject(ctx, userID, projectID, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks", slog.String("project_id", projectID))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		return []domain.Task{}, nil
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, userID, taskID string, req dto.UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
		if task.Title == "" {
			return nil, validationf("title must not be blank")
		}
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = domain.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.EstimatedHours != nil {
		if req.EstimatedHours.IsNegative() {
			return nil, validationf("estimated hours must not be negative")
		}
		task.EstimatedHours = decimal.NewNullDecimal(*req.EstimatedHours)
	}
	task.LastUpdatedAt = time.Now()

	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update task", slog.String("task_id", taskID))
		return nil, err
	}
	return task, nil
}

func (s *taskService) UpdateTaskStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	task, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	task.SetStatus(status, now)
	task.LastUpdatedAt = now

	if err := s.taskRepo.UpdateTask(ctx, *task); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update task status", slog.String("task_id", taskID))
		return nil, err
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, userID, taskID string) error {
	if err := s.taskRepo.DeleteTask(ctx, userID, taskID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete task", slog.String("task_id", taskID))
		return err
	}
	return nil
}
