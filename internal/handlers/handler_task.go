package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// taskHandler handles HTTP requests related to project tasks.
type taskHandler struct {
	taskService portssvc.TaskSvcFacade
}

// registerTaskRoutes registers the nested project task routes and the task status route.
func registerTaskRoutes(rg *gin.RouterGroup, taskService portssvc.TaskSvcFacade) {
	h := &taskHandler{taskService: taskService}

	projectTasks := rg.Group("/projects/:projectId/tasks")
	{
		projectTasks.POST("", h.createTask)
		projectTasks.GET("", h.listTasks)
		projectTasks.GET("/:taskId", h.getTask)
		projectTasks.PUT("/:taskId", h.updateTask)
		projectTasks.DELETE("/:taskId", h.deleteTask)
	}
	rg.PATCH("/tasks/:taskId/status", h.updateTaskStatus)
}

// createTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param task body dto.CreateTaskRequest true "Task details"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{projectId}/tasks [post]
func (h *taskHandler) createTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.CreateTask(c.Request.Context(), userID, c.Param("projectId"), req)
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTaskResponse(task))
}

// listTasks godoc
// @Summary List tasks of a project
// @Tags tasks
// @Produce json
// @Param projectId path string true "Project ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Security BearerAuth
// @Router /projects/{projectId}/tasks [get]
func (h *taskHandler) listTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.PageParams
	if !bindQuery(c, &params) {
		return
	}
	tasks, err := h.taskService.ListTasks(c.Request.Context(), userID, c.Param("projectId"), params.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTaskResponse(tasks))
}

// getTask godoc
// @Summary Get a task
// @Tags tasks
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/tasks/{taskId} [get]
func (h *taskHandler) getTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(c.Request.Context(), userID, c.Param("taskId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}
	if task.ProjectID != c.Param("projectId") {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "task not found"})
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// updateTask godoc
// @Summary Update a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Param task body dto.UpdateTaskRequest true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/tasks/{taskId} [put]
func (h *taskHandler) updateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.UpdateTask(c.Request.Context(), userID, c.Param("taskId"), req)
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// updateTaskStatus godoc
// @Summary Change a task status
// @Description Moving a task to DONE stamps completedAt; leaving DONE clears it.
// @Tags tasks
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID"
// @Param status body dto.UpdateTaskStatusRequest true "New status"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /tasks/{taskId}/status [patch]
func (h *taskHandler) updateTaskStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	task, err := h.taskService.UpdateTaskStatus(c.Request.Context(), userID, c.Param("taskId"), domain.TaskStatus(req.Status))
	if err != nil {
		respondError(c, err, "Failed to update task status")
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskResponse(task))
}

// deleteTask godoc
// @Summary Delete a task
// @Tags tasks
// @Param projectId path string true "Project ID"
// @Param taskId path string true "Task ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /projects/{projectId}/tasks/{taskId} [delete]
func (h *taskHandler) deleteTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(c.Request.Context(), userID, c.Param("taskId")); err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}
	c.Status(http.StatusNoContent)
}
