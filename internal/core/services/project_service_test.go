package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/core/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	projectRepo *MockProjectRepository
	clientRepo  *MockClientRepository
	tagRepo     *MockTagRepository
	activity    *MockActivityRecorder
	notifier    *MockNotifier
	notifRepo   *MockNotificationRepository
	service     portssvc.ProjectSvcFacade
	userID      string
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.projectRepo = new(MockProjectRepository)
	suite.clientRepo = new(MockClientRepository)
	suite.tagRepo = new(MockTagRepository)
	suite.activity = new(MockActivityRecorder)
	suite.notifier = new(MockNotifier)
	suite.notifRepo = new(MockNotificationRepository)
	suite.service = services.NewProjectService(suite.projectRepo, suite.clientRepo, suite.tagRepo,
		services.WithProjectActivityRecorder(suite.activity),
		services.WithProjectNotifier(suite.notifier, suite.notifRepo),
	)
	suite.userID = uuid.NewString()
}

func (suite *ProjectServiceTestSuite) TearDownTest() {
	suite.projectRepo.AssertExpectations(suite.T())
	suite.clientRepo.AssertExpectations(suite.T())
	suite.tagRepo.AssertExpectations(suite.T())
	suite.activity.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_DefaultsAndTags() {
	ctx := context.Background()
	tagID := uuid.NewString()
	budget := decimal.NewFromInt(500000)
	tags := []domain.Tag{{TagID: tagID, UserID: suite.userID, Name: "web", Color: "#336699"}}
	suite.tagRepo.On("FindTagsByIDs", ctx, suite.userID, []string{tagID}).Return(tags, nil).Once()
	suite.projectRepo.On("SaveProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.Name == "Website" && p.UserID == suite.userID && len(p.Tags) == 1
	})).Return(nil).Once()
	suite.activity.On("Record", ctx, suite.userID, domain.EntityProject, mock.AnythingOfType("string"), domain.ActionCreated, "Project Website created").Return().Once()

	project, err := suite.service.CreateProject(ctx, suite.userID, dto.CreateProjectRequest{
		Name:   " Website ",
		Budget: &budget,
		TagIDs: []string{tagID, tagID},
	})

	suite.Require().NoError(err)
	suite.Equal(domain.ProjectPlanning, project.Status)
	suite.Equal(domain.DefaultCurrency, project.Currency)
	suite.True(project.Budget.Valid)
	suite.Equal(tags, project.Tags)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_EndBeforeStart() {
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -1)

	_, err := suite.service.CreateProject(context.Background(), suite.userID, dto.CreateProjectRequest{
		Name:      "Backwards",
		StartDate: &start,
		EndDate:   &end,
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.projectRepo.AssertNotCalled(suite.T(), "SaveProject", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_UnknownTag() {
	ctx := context.Background()
	owned, foreign := uuid.NewString(), uuid.NewString()
	suite.tagRepo.On("FindTagsByIDs", ctx, suite.userID, []string{owned, foreign}).
		Return([]domain.Tag{{TagID: owned, UserID: suite.userID, Name: "web", Color: "#336699"}}, nil).Once()

	_, err := suite.service.CreateProject(ctx, suite.userID, dto.CreateProjectRequest{
		Name:   "Website",
		TagIDs: []string{owned, foreign},
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.projectRepo.AssertNotCalled(suite.T(), "SaveProject", mock.Anything, mock.Anything)
}

func (suite *ProjectServiceTestSuite) TestCreateProject_UnknownClient() {
	ctx := context.Background()
	clientID := uuid.NewString()
	suite.clientRepo.On("FindClientByID", ctx, suite.userID, clientID).Return(nil, apperrors.NewNotFoundError("client")).Once()

	_, err := suite.service.CreateProject(ctx, suite.userID, dto.CreateProjectRequest{Name: "Website", ClientID: &clientID})

	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_StatusChangeIsRecorded() {
	ctx := context.Background()
	project := &domain.Project{ProjectID: uuid.NewString(), UserID: suite.userID, Name: "Website", Status: domain.ProjectPlanning, Currency: "XOF"}
	status := string(domain.ProjectInProgress)
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, project.ProjectID).Return(project, nil).Once()
	suite.projectRepo.On("UpdateProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return p.Status == domain.ProjectInProgress
	}), false).Return(nil).Once()
	suite.activity.On("Record", ctx, suite.userID, domain.EntityProject, project.ProjectID, domain.ActionStatusChanged,
		"Project Website moved from PLANNING to IN_PROGRESS").Return().Once()

	updated, err := suite.service.UpdateProject(ctx, suite.userID, project.ProjectID, dto.UpdateProjectRequest{Status: &status})

	suite.Require().NoError(err)
	suite.Equal(domain.ProjectInProgress, updated.Status)
}

func (suite *ProjectServiceTestSuite) TestUpdateProject_ReplacesTagsAndChecksDates() {
	ctx := context.Background()
	start := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	project := &domain.Project{ProjectID: uuid.NewString(), UserID: suite.userID, Name: "Website", Status: domain.ProjectPlanning, StartDate: &start}
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, project.ProjectID).Return(project, nil).Once()

	end := start.AddDate(0, -1, 0)
	_, err := suite.service.UpdateProject(ctx, suite.userID, project.ProjectID, dto.UpdateProjectRequest{EndDate: &end})
	suite.ErrorIs(err, apperrors.ErrValidation)

	fresh := &domain.Project{ProjectID: project.ProjectID, UserID: suite.userID, Name: "Website", Status: domain.ProjectPlanning}
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, project.ProjectID).Return(fresh, nil).Once()
	none := []string{}
	suite.projectRepo.On("UpdateProject", ctx, mock.MatchedBy(func(p domain.Project) bool {
		return len(p.Tags) == 0
	}), true).Return(nil).Once()
	suite.activity.On("Record", ctx, suite.userID, domain.EntityProject, project.ProjectID, domain.ActionUpdated, "Project Website updated").Return().Once()

	_, err = suite.service.UpdateProject(ctx, suite.userID, project.ProjectID, dto.UpdateProjectRequest{TagIDs: &none})
	suite.Require().NoError(err)
}

func (suite *ProjectServiceTestSuite) TestNotifyUpcomingDeadlines_SkipsClosedAndAlreadyNotified() {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	end := now.AddDate(0, 0, 2)
	open := domain.Project{ProjectID: uuid.NewString(), UserID: suite.userID, Name: "Website", Status: domain.ProjectInProgress, EndDate: &end}
	notified := domain.Project{ProjectID: uuid.NewString(), UserID: suite.userID, Name: "App", Status: domain.ProjectPlanning, EndDate: &end}
	closed := domain.Project{ProjectID: uuid.NewString(), UserID: suite.userID, Name: "Old", Status: domain.ProjectCompleted, EndDate: &end}
	window := 72 * time.Hour
	startOfDay := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	suite.projectRepo.On("ListProjectsEndingBetween", ctx, now, now.Add(window)).Return([]domain.Project{open, notified, closed}, nil).Once()
	suite.notifRepo.On("ExistsSince", ctx, suite.userID, domain.NotificationProjectDeadline, open.ProjectID, startOfDay).Return(false, nil).Once()
	suite.notifRepo.On("ExistsSince", ctx, suite.userID, domain.NotificationProjectDeadline, notified.ProjectID, startOfDay).Return(true, nil).Once()
	suite.notifier.On("Notify", ctx, mock.MatchedBy(func(in portssvc.NotifyInput) bool {
		return in.EntityID == open.ProjectID && in.Type == domain.NotificationProjectDeadline && in.Email
	})).Return(&domain.Notification{}, nil).Once()

	count, err := suite.service.NotifyUpcomingDeadlines(ctx, now, window)

	suite.Require().NoError(err)
	suite.Equal(1, count)
	suite.notifRepo.AssertExpectations(suite.T())
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}
