package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
)

// waveHandler exposes Wave credentials, payouts, wallet reads and transaction assignments.
type waveHandler struct {
	waveService portssvc.WaveSvcFacade
	now         func() time.Time
}

// registerWaveRoutes registers all authenticated Wave routes.
func registerWaveRoutes(rg *gin.RouterGroup, waveService portssvc.WaveSvcFacade) {
	h := &waveHandler{waveService: waveService, now: time.Now}

	wave := rg.Group("/wave")
	{
		wave.GET("/settings", h.getSettings)
		wave.PUT("/settings", h.updateSettings)

		wave.POST("/payouts", h.createPayout)
		wave.GET("/payouts", h.listPayouts)
		wave.GET("/payouts/:id", h.getPayout)
		wave.POST("/payout-batches", h.createPayoutBatch)
		wave.GET("/payout-batches/:id", h.getPayoutBatch)

		wave.GET("/balance", h.getBalance)
		wave.GET("/transactions", h.listTransactions)

		wave.POST("/assignments", h.createAssignment)
		wave.GET("/assignments", h.listAssignments)
		wave.DELETE("/assignments/:id", h.deleteAssignment)
	}
}

// getSettings godoc
// @Summary Get Wave settings
// @Description Reports which credentials are set. Secrets are never returned.
// @Tags wave
// @Produce json
// @Success 200 {object} dto.WaveSettingsResponse
// @Security BearerAuth
// @Router /wave/settings [get]
func (h *waveHandler) getSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	settings, err := h.waveService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve Wave settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToWaveSettingsResponse(settings))
}

// updateSettings godoc
// @Summary Store Wave credentials
// @Tags wave
// @Accept json
// @Produce json
// @Param settings body dto.UpdateWaveSettingsRequest true "Credentials"
// @Success 200 {object} dto.WaveSettingsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/settings [put]
func (h *waveHandler) updateSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateWaveSettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.waveService.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update Wave settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToWaveSettingsResponse(settings))
}

// createPayout godoc
// @Summary Send a payout
// @Description Sends money to a mobile wallet. Replaying an idempotency key returns the stored payout.
// @Tags wave
// @Accept json
// @Produce json
// @Param payout body dto.CreatePayoutRequest true "Payout"
// @Success 201 {object} dto.PayoutResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse "Wave rejected the payout"
// @Security BearerAuth
// @Router /wave/payouts [post]
func (h *waveHandler) createPayout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePayoutRequest
	if !bindJSON(c, &req) {
		return
	}
	payout, err := h.waveService.CreatePayout(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create payout")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payout created",
		slog.String("payout_id", payout.PayoutID), slog.String("status", string(payout.Status)))
	c.JSON(http.StatusCreated, dto.ToPayoutResponse(payout))
}

// listPayouts godoc
// @Summary List payouts
// @Tags wave
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.PayoutResponse
// @Security BearerAuth
// @Router /wave/payouts [get]
func (h *waveHandler) listPayouts(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.PageParams
	if !bindQuery(c, &params) {
		return
	}
	payouts, err := h.waveService.ListPayouts(c.Request.Context(), userID, params.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to list payouts")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPayoutResponse(payouts))
}

// getPayout godoc
// @Summary Get a payout
// @Description Refreshes the status from Wave when the payout is still in flight.
// @Tags wave
// @Produce json
// @Param id path string true "Payout ID"
// @Success 200 {object} dto.PayoutResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/payouts/{id} [get]
func (h *waveHandler) getPayout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	payout, err := h.waveService.GetPayout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payout")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayoutResponse(payout))
}

// createPayoutBatch godoc
// @Summary Send a payout batch
// @Tags wave
// @Accept json
// @Produce json
// @Param batch body dto.CreatePayoutBatchRequest true "Payouts (1 to 100)"
// @Success 201 {object} dto.PayoutBatchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/payout-batches [post]
func (h *waveHandler) createPayoutBatch(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreatePayoutBatchRequest
	if !bindJSON(c, &req) {
		return
	}
	batch, err := h.waveService.CreatePayoutBatch(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create payout batch")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPayoutBatchResponse(batch))
}

// getPayoutBatch godoc
// @Summary Get a payout batch
// @Tags wave
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} dto.PayoutBatchResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/payout-batches/{id} [get]
func (h *waveHandler) getPayoutBatch(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	batch, err := h.waveService.GetPayoutBatch(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payout batch")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayoutBatchResponse(batch))
}

// getBalance godoc
// @Summary Get the Wave wallet balance
// @Tags wave
// @Produce json
// @Success 200 {object} dto.BalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Wave not configured"
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/balance [get]
func (h *waveHandler) getBalance(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	balance, err := h.waveService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, dto.BalanceResponse{Amount: balance.Amount, Currency: balance.Currency})
}

// listTransactions godoc
// @Summary List Wave transactions of a day
// @Description Each transaction carries its local assignment, if any.
// @Tags wave
// @Produce json
// @Param date query string false "Day (YYYY-MM-DD, default today UTC)"
// @Param after query string false "Cursor from the previous page"
// @Success 200 {object} dto.TransactionPageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/transactions [get]
func (h *waveHandler) listTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if !bindQuery(c, &params) {
		return
	}
	date := h.now().UTC()
	if params.Date != nil {
		date = *params.Date
	}
	page, assigned, err := h.waveService.ListTransactions(c.Request.Context(), userID, date, params.After)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionPageResponse(page, assigned))
}

// createAssignment godoc
// @Summary Assign a Wave transaction
// @Description Links a transaction to an invoice (REVENUE) or an expense (EXPENSE).
// @Description Revenue assigned to a PENDING or OVERDUE invoice marks it PAID.
// @Tags wave
// @Accept json
// @Produce json
// @Param assignment body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Transaction already assigned"
// @Security BearerAuth
// @Router /wave/assignments [post]
func (h *waveHandler) createAssignment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.waveService.CreateAssignment(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to assign transaction")
		return
	}
	c.JSON(http.StatusCreated, dto.ToAssignmentResponse(assignment))
}

// listAssignments godoc
// @Summary List transaction assignments
// @Tags wave
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.AssignmentResponse
// @Security BearerAuth
// @Router /wave/assignments [get]
func (h *waveHandler) listAssignments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.PageParams
	if !bindQuery(c, &params) {
		return
	}
	items, err := h.waveService.ListAssignments(c.Request.Context(), userID, params.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to list assignments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAssignmentResponse(items))
}

// deleteAssignment godoc
// @Summary Delete a transaction assignment
// @Tags wave
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /wave/assignments/{id} [delete]
func (h *waveHandler) deleteAssignment(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.waveService.DeleteAssignment(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete assignment")
		return
	}
	c.Status(http.StatusNoContent)
}
