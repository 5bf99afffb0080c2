package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest defines one invoice line.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

// CreateInvoiceRequest defines the data needed to create an invoice or proforma.
type CreateInvoiceRequest struct {
	Type      string               `json:"type" binding:"required,oneof=INVOICE PROFORMA"`
	ClientID  *string              `json:"clientId" binding:"omitempty,uuid"`
	ProjectID *string              `json:"projectId" binding:"omitempty,uuid"`
	IssueDate time.Time            `json:"issueDate" binding:"required"`
	DueDate   *time.Time           `json:"dueDate"`
	Currency  string               `json:"currency" binding:"omitempty,len=3,uppercase"`
	TaxRate   decimal.Decimal      `json:"taxRate"`
	Discount  decimal.Decimal      `json:"discount"`
	Notes     string               `json:"notes"`
	Items     []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// UpdateInvoiceRequest uses pointers for partial updates. Items, when present, replaces all lines.
type UpdateInvoiceRequest struct {
	ClientID  *string               `json:"clientId" binding:"omitempty,uuid"`
	ProjectID *string               `json:"projectId" binding:"omitempty,uuid"`
	IssueDate *time.Time            `json:"issueDate"`
	DueDate   *time.Time            `json:"dueDate"`
	Currency  *string               `json:"currency" binding:"omitempty,len=3,uppercase"`
	TaxRate   *decimal.Decimal      `json:"taxRate"`
	Discount  *decimal.Decimal      `json:"discount"`
	Notes     *string               `json:"notes"`
	Items     *[]InvoiceItemRequest `json:"items" binding:"omitempty,min=1,dive"`
}

// UpdateInvoiceStatusRequest moves an invoice through its status machine.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PAID OVERDUE CANCELLED"`
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	Status   string `form:"status" binding:"omitempty,oneof=DRAFT PENDING PAID OVERDUE CANCELLED CONVERTED"`
	Type     string `form:"type" binding:"omitempty,oneof=INVOICE PROFORMA"`
	ClientID string `form:"clientId"`
	PageParams
}

// InvoiceItemResponse defines the data returned for an invoice line.
type InvoiceItemResponse struct {
	ItemID      string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID       string                `json:"id"`
	Type            string                `json:"type"`
	Number          string                `json:"number"`
	Status          string                `json:"status"`
	ClientID        *string               `json:"clientId"`
	ProjectID       *string               `json:"projectId"`
	IssueDate       time.Time             `json:"issueDate"`
	DueDate         time.Time             `json:"dueDate"`
	Currency        string                `json:"currency"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxRate         decimal.Decimal       `json:"taxRate"`
	TaxAmount       decimal.Decimal       `json:"taxAmount"`
	Discount        decimal.Decimal       `json:"discount"`
	Total           decimal.Decimal       `json:"total"`
	Notes           string                `json:"notes"`
	PaidAt          *time.Time            `json:"paidAt"`
	ConvertedFromID *string               `json:"convertedFromId"`
	WaveLaunchURL   *string               `json:"waveLaunchUrl"`
	Items           []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
	LastUpdatedAt   time.Time             `json:"lastUpdatedAt"`
}

// WaveCheckoutResponse is returned after creating a checkout session for an invoice.
type WaveCheckoutResponse struct {
	CheckoutID string `json:"checkoutId"`
	LaunchURL  string `json:"launchUrl"`
}

// SendInvoiceResponse reports the outcome of sending an invoice.
type SendInvoiceResponse struct {
	Invoice     InvoiceResponse `json:"invoice"`
	EmailQueued bool            `json:"emailQueued"`
}

// ToDomainItems converts request lines into domain items.
func ToDomainItems(items []InvoiceItemRequest) []domain.InvoiceItem {
	res := make([]domain.InvoiceItem, len(items))
	for i, it := range items {
		res[i] = domain.InvoiceItem{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return res
}

func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	res := InvoiceResponse{
		InvoiceID:       inv.InvoiceID,
		Type:            string(inv.Type),
		Number:          inv.Number,
		Status:          string(inv.Status),
		ClientID:        inv.ClientID,
		ProjectID:       inv.ProjectID,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		Currency:        inv.Currency,
		Subtotal:        inv.Subtotal,
		TaxRate:         inv.TaxRate,
		TaxAmount:       inv.TaxAmount,
		Discount:        inv.Discount,
		Total:           inv.Total,
		Notes:           inv.Notes,
		PaidAt:          inv.PaidAt,
		ConvertedFromID: inv.ConvertedFromID,
		WaveLaunchURL:   inv.WaveLaunchURL,
		CreatedAt:       inv.CreatedAt,
		LastUpdatedAt:   inv.LastUpdatedAt,
	}
	if len(inv.Items) > 0 {
		res.Items = make([]InvoiceItemResponse, len(inv.Items))
		for i, it := range inv.Items {
			res.Items[i] = InvoiceItemResponse{
				ItemID:      it.ItemID,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Amount:      it.Amount,
			}
		}
	}
	return res
}

func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return res
}
