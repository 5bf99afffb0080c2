package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
)

type assistantHandler struct {
	assistantService portssvc.AssistantSvcFacade
}

// registerAssistantRoutes registers the chat route behind the per-user limiter.
func registerAssistantRoutes(rg *gin.RouterGroup, assistantService portssvc.AssistantSvcFacade, limiter *middleware.UserRateLimiter) {
	h := &assistantHandler{assistantService: assistantService}
	rg.POST("/assistant/chat", limiter.Handler(), h.chat)
}

// chat godoc
// @Summary Ask the business assistant
// @Description Sends the conversation to the assistant, prefixed with a summary of the caller's business.
// @Tags assistant
// @Accept json
// @Produce json
// @Param chat body dto.ChatRequest true "Conversation"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse "Assistant not configured"
// @Security BearerAuth
// @Router /assistant/chat [post]
func (h *assistantHandler) chat(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.ChatRequest
	if !bindJSON(c, &req) {
		return
	}
	reply, err := h.assistantService.Chat(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Assistant request failed")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Assistant replied", slog.Int("turns", len(req.Messages)))
	c.JSON(http.StatusOK, dto.ChatResponse{Reply: reply})
}
