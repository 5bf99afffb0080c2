package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// TimeEntryRepositoryFacade stores tracked time.
type TimeEntryRepositoryFacade interface {
	// SaveTimeEntry inserts an entry. A second running timer for the user yields ErrDuplicate.
	SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error
	FindTimeEntryByID(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error)
	// FindRunningTimeEntry returns ErrNotFound when no timer is running.
	FindRunningTimeEntry(ctx context.Context, userID string) (*domain.TimeEntry, error)
	// ListTimeEntries returns entries newest first; a zero Limit returns every match.
	ListTimeEntries(ctx context.Context, userID string, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error
	DeleteTimeEntry(ctx context.Context, userID, entryID string) error
}
