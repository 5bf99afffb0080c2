package services

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// ProjectReaderSvc defines read operations for projects
type ProjectReaderSvc interface {
	GetProject(ctx context.Context, userID, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, userID string, filter domain.ProjectFilter) ([]domain.Project, error)
}

// ProjectWriterSvc defines write operations for projects
type ProjectWriterSvc interface {
	CreateProject(ctx context.Context, userID string, req dto.CreateProjectRequest) (*domain.Project, error)
	UpdateProject(ctx context.Context, userID, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error)
	DeleteProject(ctx context.Context, userID, projectID string) error
}

// ProjectJobsSvc defines scheduled project operations
type ProjectJobsSvc interface {
	// NotifyUpcomingDeadlines notifies owners of open projects ending within the
	// given window, at most once per project per day. It returns the number notified.
	NotifyUpcomingDeadlines(ctx context.Context, now time.Time, window time.Duration) (int, error)
}

// ProjectSvcFacade combines all project-related service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	ProjectJobsSvc
}
