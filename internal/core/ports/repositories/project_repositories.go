package repositories

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ProjectReader defines read operations for projects
type ProjectReader interface {
	// FindProjectByID returns the project with its tags.
	FindProjectByID(ctx context.Context, userID, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, userID string, filter domain.ProjectFilter) ([]domain.Project, error)
	// ProjectNames maps project ids to names for the given ids owned by the user.
	ProjectNames(ctx context.Context, userID string, projectIDs []string) (map[string]string, error)
	// ListProjectsEndingBetween returns open projects of every user whose end date falls in [from, to].
	ListProjectsEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Project, error)
}

// ProjectWriter defines write operations for projects
type ProjectWriter interface {
	// SaveProject inserts the project and its tag links atomically.
	SaveProject(ctx context.Context, project domain.Project) error
	// UpdateProject updates the project and, when replaceTags is set, replaces its tag links.
	UpdateProject(ctx context.Context, project domain.Project, replaceTags bool) error
	DeleteProject(ctx context.Context, userID, projectID string) error
}

// ProjectRepositoryFacade combines all project-related repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
}
