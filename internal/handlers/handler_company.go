package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

type companyHandler struct {
	companyService portssvc.CompanySettingsSvcFacade
}

func registerCompanyRoutes(rg *gin.RouterGroup, companyService portssvc.CompanySettingsSvcFacade) {
	h := &companyHandler{companyService: companyService}

	company := rg.Group("/settings/company")
	{
		company.GET("", h.getSettings)
		company.PUT("", h.updateSettings)
	}
}

// getSettings godoc
// @Summary Get company settings
// @Description Returns the business identity used on invoices. Defaults are returned until saved.
// @Tags company
// @Produce json
// @Success 200 {object} dto.CompanySettingsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /settings/company [get]
func (h *companyHandler) getSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	settings, err := h.companyService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve company settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanySettingsResponse(settings))
}

// updateSettings godoc
// @Summary Update company settings
// @Tags company
// @Accept json
// @Produce json
// @Param settings body dto.UpdateCompanySettingsRequest true "Settings to change"
// @Success 200 {object} dto.CompanySettingsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /settings/company [put]
func (h *companyHandler) updateSettings(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateCompanySettingsRequest
	if !bindJSON(c, &req) {
		return
	}
	settings, err := h.companyService.UpdateSettings(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update company settings")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanySettingsResponse(settings))
}
