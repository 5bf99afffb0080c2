package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
	"github.com/kevkotuto/freelance_backend/internal/platform/config"
)

// googleOAuthHandler exchanges Google authorization codes for application sessions.
type googleOAuthHandler struct {
	auth               *authHandler
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := &googleOAuthHandler{
		auth:               newAuthHandler(cfg, services),
		googleOAuthService: services.GoogleOAuthHandler,
	}
	rg.POST("/auth/google/exchange-code", newIPRateLimit(cfg.LoginRateLimit), h.exchangeCode)
}

// exchangeCode godoc
// @Summary Exchange Google authorization code
// @Description Exchanges the code obtained by the frontend for a validated Google identity,
// @Description links or creates the account and opens a session.
// @Tags auth
// @Accept json
// @Produce json
// @Param code body dto.GoogleExchangeRequest true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 401 {object} dto.ErrorResponse "Invalid Google ID token"
// @Failure 502 {object} dto.ErrorResponse "Google unreachable"
// @Router /auth/google/exchange-code [post]
func (h *googleOAuthHandler) exchangeCode(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	var req dto.GoogleExchangeRequest
	if !bindJSON(c, &req) {
		return
	}

	payload, err := h.googleOAuthService.ExchangeCodeForIDToken(ctx, req.Code)
	if err != nil {
		respondError(c, err, "Failed to exchange authorization code")
		return
	}

	user, err := h.auth.userService.FindOrCreateGoogleUser(ctx, payload)
	if err != nil {
		respondError(c, err, "Failed to process user authentication")
		return
	}
	logger.Info("User signed in with Google", slog.String("user_id", user.UserID))

	h.auth.issueSession(c, user, http.StatusOK)
}
