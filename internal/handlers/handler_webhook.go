package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
)

const maxWebhookBodyBytes = 1 << 20

// webhookHandler receives Wave webhooks. Processing happens in the inbox dispatcher.
type webhookHandler struct {
	webhookService portssvc.WaveWebhookSvcFacade
}

// registerWebhookRoutes registers the public webhook routes.
func registerWebhookRoutes(r gin.IRouter, webhookService portssvc.WaveWebhookSvcFacade, rateLimit gin.HandlerFunc) {
	h := &webhookHandler{webhookService: webhookService}
	r.POST("/webhooks/wave", rateLimit, h.receiveWave)
}

// receiveWave godoc
// @Summary Receive a Wave webhook
// @Description Verifies the Wave-Signature header, stores the event and acknowledges it.
// @Description Redelivered events are acknowledged without being stored again.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Wave-Signature header string true "t=<unix>,v1=<hex>"
// @Success 200 {object} dto.WebhookAckResponse
// @Failure 400 {object} dto.ErrorResponse "Missing id or type"
// @Failure 401 {object} dto.ErrorResponse "Bad signature"
// @Failure 413 {object} dto.ErrorResponse
// @Router /webhooks/wave [post]
func (h *webhookHandler) receiveWave(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "Webhook body too large"})
			return
		}
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Unreadable body"})
		return
	}

	event, duplicate, err := h.webhookService.Receive(c.Request.Context(), c.Request.Header, body)
	if err != nil {
		respondError(c, err, "Failed to accept webhook")
		return
	}
	logger.Info("Wave webhook accepted",
		slog.String("event_id", event.EventID),
		slog.String("type", event.EventType),
		slog.Bool("duplicate", duplicate))
	c.JSON(http.StatusOK, dto.WebhookAckResponse{Received: true})
}
