package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/shopspring/decimal"
)

type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	clientRepo  portsrepo.ClientReader
	tagRepo     portsrepo.TagRepositoryFacade
	notifRepo   portsrepo.NotificationRepositoryFacade
}

// ProjectServiceOption is a functional option for configuring the project service
type ProjectServiceOption func(*projectService)

// WithProjectActivityRecorder records project changes in the activity feed.
func WithProjectActivityRecorder(rec portssvc.ActivityRecorderSvc) ProjectServiceOption {
	return func(s *projectService) {
		s.Activities = rec
	}
}

// WithProjectNotifier enables deadline notifications.
func WithProjectNotifier(n portssvc.NotifierSvc, repo portsrepo.NotificationRepositoryFacade) ProjectServiceOption {
	return func(s *projectService) {
		s.Notifier = n
		s.notifRepo = repo
	}
}

// NewProjectService creates a new project service with the provided options
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	clientRepo portsrepo.ClientReader,
	tagRepo portsrepo.TagRepositoryFacade,
	options ...ProjectServiceOption,
) portssvc.ProjectSvcFacade {
	svc := &projectService{projectRepo: projectRepo, clientRepo: clientRepo, tagRepo: tagRepo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func (s *projectService) CreateProject(ctx context.Context, userID string, req dto.CreateProjectRequest) (*domain.Project, error) {
	now := time.Now()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		UserID:      userID,
		ClientID:    req.ClientID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      domain.ProjectPlanning,
		Currency:    req.Currency,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if req.Status != "" {
		project.Status = domain.ProjectStatus(req.Status)
	}
	if project.Currency == "" {
		project.Currency = domain.DefaultCurrency
	}
	if req.Budget != nil {
		project.Budget = decimal.NewNullDecimal(*req.Budget)
	}
	if err := s.validateProject(ctx, &project); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, userID, req.TagIDs)
	if err != nil {
		return nil, err
	}
	project.Tags = tags

	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project", slog.String("project_id", project.ProjectID))
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityProject, project.ProjectID, domain.ActionCreated, "Project "+project.Name+" created")
	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID))
	return &project, nil
}

func (s *projectService) GetProject(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, userID, projectID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find project", slog.String("project_id", projectID))
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, userID string, filter domain.ProjectFilter) ([]domain.Project, error) {
	filter.ListParams = filter.ListParams.Normalize()
	projects, err := s.projectRepo.ListProjects(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects")
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

func (s *projectService) UpdateProject(ctx context.Context, userID, projectID string, req dto.UpdateProjectRequest) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, userID, projectID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find project", slog.String("project_id", projectID))
		return nil, err
	}
	previousStatus := project.Status

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.ClientID != nil {
		project.ClientID = req.ClientID
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
	}
	if req.Budget != nil {
		project.Budget = decimal.NewNullDecimal(*req.Budget)
	}
	if req.Currency != nil {
		project.Currency = *req.Currency
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		project.EndDate = req.EndDate
	}
	if err := s.validateProject(ctx, project); err != nil {
		return nil, err
	}
	replaceTags := req.TagIDs != nil
	if replaceTags {
		tags, err := s.resolveTags(ctx, userID, *req.TagIDs)
		if err != nil {
			return nil, err
		}
		project.Tags = tags
	}
	project.LastUpdatedAt = time.Now()

	if err := s.projectRepo.UpdateProject(ctx, *project, replaceTags); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update project", slog.String("project_id", projectID))
		return nil, err
	}

	if project.Status != previousStatus {
		s.RecordActivity(ctx, userID, domain.EntityProject, projectID, domain.ActionStatusChanged,
			fmt.Sprintf("Project %s moved from %s to %s", project.Name, previousStatus, project.Status))
	} else {
		s.RecordActivity(ctx, userID, domain.EntityProject, projectID, domain.ActionUpdated, "Project "+project.Name+" updated")
	}
	return project, nil
}

func (s *projectService) DeleteProject(ctx context.Context, userID, projectID string) error {
	if err := s.projectRepo.DeleteProject(ctx, userID, projectID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete project", slog.String("project_id", projectID))
		return err
	}
	s.RecordActivity(ctx, userID, domain.EntityProject, projectID, domain.ActionDeleted, "Project deleted")
	return nil
}

func (s *projectService) NotifyUpcomingDeadlines(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	projects, err := s.projectRepo.ListProjectsEndingBetween(ctx, now, now.Add(window))
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects with upcoming deadlines")
		return 0, err
	}

	y, m, d := now.Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	notified := 0
	for _, p := range projects {
		if !p.Status.IsOpen() || p.EndDate == nil {
			continue
		}
		if s.notifRepo != nil {
			exists, err := s.notifRepo.ExistsSince(ctx, p.UserID, domain.NotificationProjectDeadline, p.ProjectID, startOfDay)
			if err != nil {
				s.LogError(ctx, err, "Failed to check deadline notification", slog.String("project_id", p.ProjectID))
				continue
			}
			if exists {
				continue
			}
		}
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:     p.UserID,
			Type:       domain.NotificationProjectDeadline,
			Title:      "Project deadline approaching",
			Message:    fmt.Sprintf("Project %s ends on %s.", p.Name, p.EndDate.Format("2006-01-02")),
			EntityType: domain.EntityProject,
			EntityID:   p.ProjectID,
			Email:      true,
		})
		notified++
	}
	return notified, nil
}

func (s *projectService) validateProject(ctx context.Context, p *domain.Project) error {
	if p.Name == "" {
		return validationf("name must not be blank")
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return validationf("end date must not be before start date")
	}
	if p.Budget.Valid && p.Budget.Decimal.IsNegative() {
		return validationf("budget must not be negative")
	}
	if p.ClientID != nil {
		if _, err := s.clientRepo.FindClientByID(ctx, p.UserID, *p.ClientID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return validationf("client %s does not exist", *p.ClientID)
			}
			return err
		}
	}
	return nil
}

// resolveTags loads the caller's tags, rejecting ids they do not own.
func (s *projectService) resolveTags(ctx context.Context, userID string, tagIDs []string) ([]domain.Tag, error) {
	if len(tagIDs) == 0 {
		return []domain.Tag{}, nil
	}
	unique := make([]string, 0, len(tagIDs))
	seen := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	tags, err := s.tagRepo.FindTagsByIDs(ctx, userID, unique)
	if err != nil {
		s.LogError(ctx, err, "Failed to load tags")
		return nil, err
	}
	if len(tags) != len(unique) {
		return nil, validationf("unknown tag ids")
	}
	return tags, nil
}
