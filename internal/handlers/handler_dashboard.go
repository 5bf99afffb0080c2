package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvcFacade
	now              func() time.Time
}

func registerDashboardRoutes(rg *gin.RouterGroup, dashboardService portssvc.DashboardSvcFacade) {
	h := &dashboardHandler{dashboardService: dashboardService, now: time.Now}

	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("", h.getStats)
		dashboard.GET("/report.pdf", h.downloadReport)
	}
}

// year resolves the requested year, defaulting to the current UTC year.
func (h *dashboardHandler) year(c *gin.Context) (int, bool) {
	var params dto.DashboardParams
	if !bindQuery(c, &params) {
		return 0, false
	}
	if params.Year == 0 {
		return h.now().UTC().Year(), true
	}
	return params.Year, true
}

// getStats godoc
// @Summary Get dashboard statistics
// @Description Yearly KPIs, monthly series, top clients and expenses by category.
// @Tags dashboard
// @Produce json
// @Param year query int false "Year (default current year)"
// @Success 200 {object} domain.DashboardStats
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	year, ok := h.year(c)
	if !ok {
		return
	}
	stats, err := h.dashboardService.GetStats(c.Request.Context(), userID, year)
	if err != nil {
		respondError(c, err, "Failed to compute dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// downloadReport godoc
// @Summary Download the yearly report PDF
// @Tags dashboard
// @Produce application/pdf
// @Param year query int false "Year (default current year)"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/report.pdf [get]
func (h *dashboardHandler) downloadReport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	year, ok := h.year(c)
	if !ok {
		return
	}
	doc, err := h.dashboardService.RenderReportPDF(c.Request.Context(), userID, year)
	if err != nil {
		respondError(c, err, "Failed to render report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"report-%d.pdf\"", year))
	c.Data(http.StatusOK, "application/pdf", doc)
}
