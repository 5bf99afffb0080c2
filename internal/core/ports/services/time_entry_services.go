package services

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// TimeEntrySvcFacade manages time tracking.
type TimeEntrySvcFacade interface {
	CreateTimeEntry(ctx context.Context, userID string, req dto.CreateTimeEntryRequest) (*domain.TimeEntry, error)
	// StartTimer starts a running timer; a second running timer yields ErrConflict.
	StartTimer(ctx context.Context, userID string, req dto.StartTimerRequest) (*domain.TimeEntry, error)
	StopTimer(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error)
	ListTimeEntries(ctx context.Context, userID string, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, userID, entryID string, req dto.UpdateTimeEntryRequest) (*domain.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, userID, entryID string) error
	Summary(ctx context.Context, userID string, rng domain.DateRange) (*domain.TimeSummary, error)
	// RunningTimer returns nil without error when no timer runs.
	RunningTimer(ctx context.Context, userID string) (*domain.TimeEntry, error)
}
