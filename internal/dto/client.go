package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest defines the data needed to create a client.
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"omitempty,max=40"`
	Company string `json:"company" binding:"omitempty,max=200"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// UpdateClientRequest uses pointers to distinguish omitted fields from empty values.
type UpdateClientRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=40"`
	Company *string `json:"company" binding:"omitempty,max=200"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

// ListClientsParams defines query parameters for listing clients.
type ListClientsParams struct {
	Search string `form:"search"`
	PageParams
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID      string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company"`
	Address       string    `json:"address"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ClientTotalsResponse summarises a client's invoices.
type ClientTotalsResponse struct {
	Invoiced    decimal.Decimal `json:"invoiced"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// ClientDetailResponse is a client with invoice totals.
type ClientDetailResponse struct {
	ClientResponse
	Totals ClientTotalsResponse `json:"totals"`
}

func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:      c.ClientID,
		Name:          c.Name,
		Email:         c.Email,
		Phone:         c.Phone,
		Company:       c.Company,
		Address:       c.Address,
		Notes:         c.Notes,
		CreatedAt:     c.CreatedAt,
		LastUpdatedAt: c.LastUpdatedAt,
	}
}

func ToClientDetailResponse(c *domain.Client, totals *domain.ClientTotals) ClientDetailResponse {
	res := ClientDetailResponse{ClientResponse: ToClientResponse(c)}
	if totals != nil {
		res.Totals = ClientTotalsResponse{Invoiced: totals.Invoiced, Paid: totals.Paid, Outstanding: totals.Outstanding}
	}
	return res
}

func ToListClientResponse(clients []domain.Client) []ClientResponse {
	res := make([]ClientResponse, len(clients))
	for i := range clients {
		res[i] = ToClientResponse(&clients[i])
	}
	return res
}
