package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/shopspring/decimal"
)

type timeEntryService struct {
	BaseService
	entryRepo   portsrepo.TimeEntryRepositoryFacade
	projectRepo portsrepo.ProjectReader
	taskRepo    portsrepo.TaskRepositoryFacade
	now         func() time.Time
}

// NewTimeEntryService creates the time tracking service.
func NewTimeEntryService(
	entryRepo portsrepo.TimeEntryRepositoryFacade,
	projectRepo portsrepo.ProjectReader,
	taskRepo portsrepo.TaskRepositoryFacade,
) portssvc.TimeEntrySvcFacade {
	return &timeEntryService{entryRepo: entryRepo, projectRepo: projectRepo, taskRepo: taskRepo, now: time.Now}
}

var _ portssvc.TimeEntrySvcFacade = (*timeEntryService)(nil)

func (s *timeEntryService) CreateTimeEntry(ctx context.Context, userID string, req dto.CreateTimeEntryRequest) (*domain.TimeEntry, error) {
	if !req.EndedAt.After(req.StartedAt) {
		return nil, validationf("endedAt must be after startedAt")
	}
	now := s.now()
	ended := req.EndedAt
	entry := domain.TimeEntry{
		TimeEntryID: uuid.NewString(),
		UserID:      userID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		Description: req.Description,
		StartedAt:   req.StartedAt,
		EndedAt:     &ended,
		Billable:    req.Billable,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.applyRate(&entry, req.HourlyRate); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, userID, entry.ProjectID, entry.TaskID); err != nil {
		return nil, err
	}
	if err := s.entryRepo.SaveTimeEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save time entry", slog.String("time_entry_id", entry.TimeEntryID))
		return nil, err
	}
	return &entry, nil
}

func (s *timeEntryService) StartTimer(ctx context.Context, userID string, req dto.StartTimerRequest) (*domain.TimeEntry, error) {
	now := s.now()
	entry := domain.TimeEntry{
		TimeEntryID: uuid.NewString(),
		UserID:      userID,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
		Description: req.Description,
		StartedAt:   now,
		Billable:    req.Billable,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if err := s.applyRate(&entry, req.HourlyRate); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, userID, entry.ProjectID, entry.TaskID); err != nil {
		return nil, err
	}
	if err := s.entryRepo.SaveTimeEntry(ctx, entry); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a timer is already running", apperrors.ErrConflict)
		}
		s.LogError(ctx, err, "Failed to start timer")
		return nil, err
	}
	s.LogInfo(ctx, "Timer started", slog.String("time_entry_id", entry.TimeEntryID))
	return &entry, nil
}

func (s *timeEntryService) StopTimer(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	entry, err := s.find(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.IsRunning() {
		return nil, fmt.Errorf("%w: timer is not running", apperrors.ErrConflict)
	}
	now := s.now()
	entry.EndedAt = &now
	entry.LastUpdatedAt = now
	if err := s.entryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		s.LogUnexpected(ctx, err, "Failed to stop timer", slog.String("time_entry_id", entryID))
		return nil, err
	}
	s.LogInfo(ctx, "Timer stopped", slog.String("time_entry_id", entryID), slog.Int64("seconds", entry.DurationSeconds(now)))
	return entry, nil
}

func (s *timeEntryService) ListTimeEntries(ctx context.Context, userID string, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	filter.ListParams = filter.ListParams.Normalize()
	entries, err := s.entryRepo.ListTimeEntries(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list time entries")
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	if entries == nil {
		return []domain.TimeEntry{}, nil
	}
	return entries, nil
}

func (s *timeEntryService) UpdateTimeEntry(ctx context.Context, userID, entryID string, req dto.UpdateTimeEntryRequest) (*domain.TimeEntry, error) {
	entry, err := s.find(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if req.ProjectID != nil {
		entry.ProjectID = req.ProjectID
	}
	if req.TaskID != nil {
		entry.TaskID = req.TaskID
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.StartedAt != nil {
		entry.StartedAt = *req.StartedAt
	}
	if req.EndedAt != nil {
		if entry.IsRunning() {
			return nil, validationf("stop the running timer instead of setting endedAt")
		}
		ended := *req.EndedAt
		entry.EndedAt = &ended
	}
	if req.Billable != nil {
		entry.Billable = *req.Billable
	}
	if err := s.applyRate(entry, req.HourlyRate); err != nil {
		return nil, err
	}
	if entry.EndedAt != nil && !entry.EndedAt.After(entry.StartedAt) {
		return nil, validationf("endedAt must be after startedAt")
	}
	if req.ProjectID != nil || req.TaskID != nil {
		if err := s.checkRefs(ctx, userID, entry.ProjectID, entry.TaskID); err != nil {
			return nil, err
		}
	}
	entry.LastUpdatedAt = s.now()

	if err := s.entryRepo.UpdateTimeEntry(ctx, *entry); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update time entry", slog.String("time_entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) DeleteTimeEntry(ctx context.Context, userID, entryID string) error {
	if err := s.entryRepo.DeleteTimeEntry(ctx, userID, entryID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete time entry", slog.String("time_entry_id", entryID))
		return err
	}
	return nil
}

func (s *timeEntryService) Summary(ctx context.Context, userID string, rng domain.DateRange) (*domain.TimeSummary, error) {
	if rng.From != nil && rng.To != nil && rng.To.Before(*rng.From) {
		return nil, validationf("to must not be before from")
	}
	entries, err := s.entryRepo.ListTimeEntries(ctx, userID, domain.TimeEntryFilter{DateRange: rng})
	if err != nil {
		s.LogError(ctx, err, "Failed to load time entries for summary")
		return nil, err
	}

	ids := make([]string, 0)
	seen := map[string]struct{}{}
	for _, e := range entries {
		if e.ProjectID == nil {
			continue
		}
		if _, ok := seen[*e.ProjectID]; !ok {
			seen[*e.ProjectID] = struct{}{}
			ids = append(ids, *e.ProjectID)
		}
	}
	names := map[string]string{}
	if len(ids) > 0 {
		names, err = s.projectRepo.ProjectNames(ctx, userID, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to load project names")
			return nil, err
		}
	}

	summary := domain.SummarizeTime(entries, names, s.now())
	return &summary, nil
}

func (s *timeEntryService) RunningTimer(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	entry, err := s.entryRepo.FindRunningTimeEntry(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to find running timer")
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) find(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	entry, err := s.entryRepo.FindTimeEntryByID(ctx, userID, entryID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find time entry", slog.String("time_entry_id", entryID))
		return nil, err
	}
	return entry, nil
}

func (s *timeEntryService) applyRate(entry *domain.TimeEntry, rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() {
		return validationf("hourly rate must not be negative")
	}
	entry.HourlyRate = decimal.NewNullDecimal(*rate)
	return nil
}

// checkRefs verifies that the referenced project and task belong to the user
// and that the task sits in the project when both are given.
func (s *timeEntryService) checkRefs(ctx context.Context, userID string, projectID, taskID *string) error {
	if projectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, userID, *projectID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return validationf("project %s does not exist", *projectID)
			}
			return err
		}
	}
	if taskID != nil {
		task, err := s.taskRepo.FindTaskByID(ctx, userID, *taskID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return validationf("task %s does not exist", *taskID)
			}
			return err
		}
		if projectID != nil && task.ProjectID != *projectID {
			return validationf("task %s does not belong to project %s", *taskID, *projectID)
		}
	}
	return nil
}
