package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/middleware"
)

// invoiceHandler handles invoices and proformas.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
	checkout       portssvc.WaveCheckoutSvc
}

// registerInvoiceRoutes registers all invoice-related routes.
func registerInvoiceRoutes(rg *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade, checkout portssvc.WaveCheckoutSvc) {
	h := &invoiceHandler{invoiceService: invoiceService, checkout: checkout}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", h.createInvoice)
		invoices.GET("", h.listInvoices)
		invoices.GET("/:id", h.getInvoice)
		invoices.PUT("/:id", h.updateInvoice)
		invoices.DELETE("/:id", h.deleteInvoice)
		invoices.PATCH("/:id/status", h.updateStatus)
		invoices.POST("/:id/convert", h.convertProforma)
		invoices.GET("/:id/pdf", h.downloadPDF)
		invoices.POST("/:id/send", h.sendInvoice)
		invoices.POST("/:id/wave-checkout", h.createWaveCheckout)
	}
}

// createInvoice godoc
// @Summary Create an invoice or proforma
// @Description Allocates the next number from company settings and computes the totals.
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.CreateInvoice(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create invoice")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Invoice created",
		slog.String("invoice_id", inv.InvoiceID), slog.String("number", inv.Number))
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param status query string false "Status" Enums(DRAFT, PENDING, PAID, OVERDUE, CANCELLED, CONVERTED)
// @Param type query string false "Type" Enums(INVOICE, PROFORMA)
// @Param clientId query string false "Client ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListInvoicesParams
	if !bindQuery(c, &params) {
		return
	}
	filter := domain.InvoiceFilter{ClientID: optionalString(params.ClientID), ListParams: params.ToDomain()}
	if params.Status != "" {
		status := domain.InvoiceStatus(params.Status)
		filter.Status = &status
	}
	if params.Type != "" {
		typ := domain.InvoiceType(params.Type)
		filter.Type = &typ
	}
	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, dto.ToListInvoiceResponse(invoices))
}

// getInvoice godoc
// @Summary Get an invoice with its items
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.GetInvoice(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// updateInvoice godoc
// @Summary Update an invoice
// @Description Only DRAFT and PENDING invoices can be edited. items, when present, replaces all lines.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param invoice body dto.UpdateInvoiceRequest true "Fields to change"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Invoice not editable"
// @Security BearerAuth
// @Router /invoices/{id} [put]
func (h *invoiceHandler) updateInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.UpdateInvoice(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// updateStatus godoc
// @Summary Change an invoice status
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param status body dto.UpdateInvoiceStatusRequest true "New status"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Illegal transition"
// @Security BearerAuth
// @Router /invoices/{id}/status [patch]
func (h *invoiceHandler) updateStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateInvoiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	inv, err := h.invoiceService.UpdateStatus(c.Request.Context(), userID, c.Param("id"), domain.InvoiceStatus(req.Status))
	if err != nil {
		respondError(c, err, "Failed to update invoice status")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(inv))
}

// convertProforma godoc
// @Summary Convert a proforma into an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Proforma ID"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Not a convertible proforma"
// @Security BearerAuth
// @Router /invoices/{id}/convert [post]
func (h *invoiceHandler) convertProforma(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	inv, err := h.invoiceService.ConvertProforma(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to convert proforma")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(inv))
}

// downloadPDF godoc
// @Summary Download the invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/pdf [get]
func (h *invoiceHandler) downloadPDF(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	doc, filename, err := h.invoiceService.RenderPDF(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to render invoice PDF")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", doc)
}

// sendInvoice godoc
// @Summary Send an invoice to its client
// @Description Queues an email to the client when possible and moves a DRAFT to PENDING.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.SendInvoiceResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /invoices/{id}/send [post]
func (h *invoiceHandler) sendInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	inv, queued, err := h.invoiceService.Send(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to send invoice")
		return
	}
	c.JSON(http.StatusOK, dto.SendInvoiceResponse{Invoice: dto.ToInvoiceResponse(inv), EmailQueued: queued})
}

// createWaveCheckout godoc
// @Summary Create a Wave payment link
// @Description Creates a Wave checkout session for the invoice total. The invoice must be PENDING or OVERDUE and in XOF.
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.WaveCheckoutResponse
// @Failure 400 {object} dto.ErrorResponse "Wave not configured or unsupported currency"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Invoice not payable"
// @Failure 502 {object} dto.ErrorResponse "Wave error"
// @Security BearerAuth
// @Router /invoices/{id}/wave-checkout [post]
func (h *invoiceHandler) createWaveCheckout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	session, err := h.checkout.CreateInvoiceCheckout(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to create Wave checkout")
		return
	}
	c.JSON(http.StatusOK, dto.WaveCheckoutResponse{CheckoutID: session.ID, LaunchURL: session.LaunchURL})
}

// deleteInvoice godoc
// @Summary Delete an invoice
// @Tags invoices
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Paid invoices cannot be deleted"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *invoiceHandler) deleteInvoice(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete invoice")
		return
	}
	c.Status(http.StatusNoContent)
}
