package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// timeEntryHandler handles time tracking requests.
type timeEntryHandler struct {
	timeEntryService portssvc.TimeEntrySvcFacade
	now              func() time.Time
}

// registerTimeEntryRoutes registers manual entries, the timer and the summary.
func registerTimeEntryRoutes(rg *gin.RouterGroup, timeEntryService portssvc.TimeEntrySvcFacade) {
	h := &timeEntryHandler{timeEntryService: timeEntryService, now: time.Now}

	entries := rg.Group("/time-entries")
	{
		entries.POST("", h.createTimeEntry)
		entries.GET("", h.listTimeEntries)
		entries.GET("/summary", h.summary)
		entries.GET("/running", h.runningTimer)
		entries.POST("/start", h.startTimer)
		entries.POST("/:id/stop", h.stopTimer)
		entries.PUT("/:id", h.updateTimeEntry)
		entries.DELETE("/:id", h.deleteTimeEntry)
	}
}

// createTimeEntry godoc
// @Summary Record time manually
// @Tags time-entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateTimeEntryRequest true "Time entry"
// @Success 201 {object} dto.TimeEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries [post]
func (h *timeEntryHandler) createTimeEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTimeEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.timeEntryService.CreateTimeEntry(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create time entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTimeEntryResponse(entry, h.now()))
}

// startTimer godoc
// @Summary Start a timer
// @Description Starts a running time entry. Only one timer may run per user.
// @Tags time-entries
// @Accept json
// @Produce json
// @Param timer body dto.StartTimerRequest true "Timer details"
// @Success 201 {object} dto.TimeEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "A timer is already running"
// @Security BearerAuth
// @Router /time-entries/start [post]
func (h *timeEntryHandler) startTimer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.StartTimerRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.timeEntryService.StartTimer(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to start timer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToTimeEntryResponse(entry, h.now()))
}

// stopTimer godoc
// @Summary Stop a timer
// @Tags time-entries
// @Produce json
// @Param id path string true "Time entry ID"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Timer already stopped"
// @Security BearerAuth
// @Router /time-entries/{id}/stop [post]
func (h *timeEntryHandler) stopTimer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.timeEntryService.StopTimer(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to stop timer")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry, h.now()))
}

// runningTimer godoc
// @Summary Get the running timer
// @Tags time-entries
// @Produce json
// @Success 200 {object} dto.TimeEntryResponse
// @Success 204 "No timer running"
// @Security BearerAuth
// @Router /time-entries/running [get]
func (h *timeEntryHandler) runningTimer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.timeEntryService.RunningTimer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve running timer")
		return
	}
	if entry == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry, h.now()))
}

// listTimeEntries godoc
// @Summary List time entries
// @Tags time-entries
// @Produce json
// @Param projectId query string false "Project ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.TimeEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries [get]
func (h *timeEntryHandler) listTimeEntries(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListTimeEntriesParams
	if !bindQuery(c, &params) {
		return
	}
	filter := domain.TimeEntryFilter{
		ProjectID:  optionalString(params.ProjectID),
		DateRange:  domain.DateRange{From: params.From, To: params.To},
		ListParams: params.ToDomain(),
	}
	entries, err := h.timeEntryService.ListTimeEntries(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list time entries")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTimeEntryResponse(entries, h.now()))
}

// summary godoc
// @Summary Summarize tracked time
// @Description Total and billable seconds plus billable amount per project.
// @Tags time-entries
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.TimeSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries/summary [get]
func (h *timeEntryHandler) summary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.TimeSummaryParams
	if !bindQuery(c, &params) {
		return
	}
	s, err := h.timeEntryService.Summary(c.Request.Context(), userID, domain.DateRange{From: params.From, To: params.To})
	if err != nil {
		respondError(c, err, "Failed to summarize time")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeSummaryResponse(*s))
}

// updateTimeEntry godoc
// @Summary Update a time entry
// @Tags time-entries
// @Accept json
// @Produce json
// @Param id path string true "Time entry ID"
// @Param entry body dto.UpdateTimeEntryRequest true "Fields to change"
// @Success 200 {object} dto.TimeEntryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries/{id} [put]
func (h *timeEntryHandler) updateTimeEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTimeEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.timeEntryService.UpdateTimeEntry(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update time entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToTimeEntryResponse(entry, h.now()))
}

// deleteTimeEntry godoc
// @Summary Delete a time entry
// @Tags time-entries
// @Param id path string true "Time entry ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /time-entries/{id} [delete]
func (h *timeEntryHandler) deleteTimeEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.timeEntryService.DeleteTimeEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete time entry")
		return
	}
	c.Status(http.StatusNoContent)
}
