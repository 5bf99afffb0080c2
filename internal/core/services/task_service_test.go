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

type TaskServiceTestSuite struct {
	suite.Suite
	taskRepo    *MockTaskRepository
	projectRepo *MockProjectRepository
	service     portssvc.TaskSvcFacade
	userID      string
	project     *domain.Project
}

func (suite *TaskServiceTestSuite) SetupTest() {
	suite.taskRepo = new(MockTaskRepository)
	suite.projectRepo = new(MockProjectRepository)
	suite.service = services.NewTaskService(suite.taskRepo, suite.projectRepo)
	suite.userID = uuid.NewString()
	suite.project = &domain.Project{ProjectID: uuid.NewString(), UserID: suite.userID, Name: "Website", Status: domain.ProjectInProgress}
}

func (suite *TaskServiceTestSuite) TearDownTest() {
	suite.taskRepo.AssertExpectations(suite.T())
	suite.projectRepo.AssertExpectations(suite.T())
}

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	ctx := context.Background()
	hours := decimal.NewFromInt(6)
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, suite.project.ProjectID).Return(suite.project, nil).Once()
	suite.taskRepo.On("SaveTask", ctx, mock.MatchedBy(func(t domain.Task) bool {
		return t.Title == "Wireframes" && t.ProjectID == suite.project.ProjectID
	})).Return(nil).Once()

	task, err := suite.service.CreateTask(ctx, suite.userID, suite.project.ProjectID, dto.CreateTaskRequest{
		Title:          " Wireframes ",
		EstimatedHours: &hours,
	})

	suite.Require().NoError(err)
	suite.Equal(domain.TaskTodo, task.Status)
	suite.Equal(domain.PriorityMedium, task.Priority)
	suite.Nil(task.CompletedAt)
	suite.True(task.EstimatedHours.Decimal.Equal(hours))
}

func (suite *TaskServiceTestSuite) TestCreateTask_DoneStampsCompletion() {
	ctx := context.Background()
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, suite.project.ProjectID).Return(suite.project, nil).Once()
	suite.taskRepo.On("SaveTask", ctx, mock.MatchedBy(func(t domain.Task) bool {
		return t.Status == domain.TaskDone && t.CompletedAt != nil
	})).Return(nil).Once()

	task, err := suite.service.CreateTask(ctx, suite.userID, suite.project.ProjectID, dto.CreateTaskRequest{
		Title:  "Kickoff call",
		Status: string(domain.TaskDone),
	})

	suite.Require().NoError(err)
	suite.NotNil(task.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestCreateTask_Rejections() {
	ctx := context.Background()
	missing := uuid.NewString()
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, missing).Return(nil, apperrors.NewNotFoundError("project")).Once()
	_, err := suite.service.CreateTask(ctx, suite.userID, missing, dto.CreateTaskRequest{Title: "x"})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, suite.project.ProjectID).Return(suite.project, nil).Twice()
	_, err = suite.service.CreateTask(ctx, suite.userID, suite.project.ProjectID, dto.CreateTaskRequest{Title: "   "})
	suite.ErrorIs(err, apperrors.ErrValidation)

	negative := decimal.NewFromInt(-1)
	_, err = suite.service.CreateTask(ctx, suite.userID, suite.project.ProjectID, dto.CreateTaskRequest{Title: "x", EstimatedHours: &negative})
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.taskRepo.AssertNotCalled(suite.T(), "SaveTask", mock.Anything, mock.Anything)
}

func (suite *TaskServiceTestSuite) TestUpdateTaskStatus_StampsAndClearsCompletion() {
	ctx := context.Background()
	task := &domain.Task{TaskID: uuid.NewString(), UserID: suite.userID, ProjectID: suite.project.ProjectID, Title: "Wireframes", Status: domain.TaskInProgress}
	suite.taskRepo.On("FindTaskByID", ctx, suite.userID, task.TaskID).Return(task, nil).Twice()
	suite.taskRepo.On("UpdateTask", ctx, mock.AnythingOfType("domain.Task")).Return(nil).Twice()

	before := time.Now()
	done, err := suite.service.UpdateTaskStatus(ctx, suite.userID, task.TaskID, domain.TaskDone)
	suite.Require().NoError(err)
	suite.Require().NotNil(done.CompletedAt)
	suite.False(done.CompletedAt.Before(before))

	reopened, err := suite.service.UpdateTaskStatus(ctx, suite.userID, task.TaskID, domain.TaskTodo)
	suite.Require().NoError(err)
	suite.Nil(reopened.CompletedAt)
}

func (suite *TaskServiceTestSuite) TestListTasks_EmptyIsNotNil() {
	ctx := context.Background()
	suite.projectRepo.On("FindProjectByID", ctx, suite.userID, suite.project.ProjectID).Return(suite.project, nil).Once()
	suite.taskRepo.On("ListTasksByProject", ctx, suite.userID, suite.project.ProjectID, mock.AnythingOfType("domain.ListParams")).Return(nil, nil).Once()

	tasks, err := suite.service.ListTasks(ctx, suite.userID, suite.project.ProjectID, domain.ListParams{})

	suite.Require().NoError(err)
	suite.NotNil(tasks)
	suite.Empty(tasks)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
