package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// UpdateWaveSettingsRequest stores Wave credentials. Nil fields keep their current value,
// an empty string clears it.
type UpdateWaveSettingsRequest struct {
	APIKey        *string `json:"apiKey" binding:"omitempty,max=512"`
	WebhookSecret *string `json:"webhookSecret" binding:"omitempty,max=512"`
}

// WaveSettingsResponse never exposes the credentials themselves.
type WaveSettingsResponse struct {
	APIKeySet        bool   `json:"apiKeySet"`
	APIKeyLast4      string `json:"apiKeyLast4,omitempty"`
	WebhookSecretSet bool   `json:"webhookSecretSet"`
}

func ToWaveSettingsResponse(s *domain.WaveSettings) WaveSettingsResponse {
	if s == nil {
		return WaveSettingsResponse{}
	}
	res := WaveSettingsResponse{APIKeySet: s.HasAPIKey(), WebhookSecretSet: s.WebhookSecret != ""}
	if s.HasAPIKey() {
		res.APIKeyLast4 = s.APIKeyLast4()
	}
	return res
}

// CreatePayoutRequest defines a single payout to a mobile wallet.
type CreatePayoutRequest struct {
	Mobile         string          `json:"mobile" binding:"required,e164"`
	Name           string          `json:"name" binding:"max=200"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	Reason         string          `json:"reason" binding:"max=40"`
	IdempotencyKey string          `json:"idempotencyKey" binding:"omitempty,max=128"`
}

// CreatePayoutBatchRequest defines a batch of payouts.
type CreatePayoutBatchRequest struct {
	Payouts []CreatePayoutRequest `json:"payouts" binding:"required,min=1,max=100,dive"`
}

// PayoutResponse defines the data returned for a payout.
type PayoutResponse struct {
	PayoutID       string           `json:"id"`
	BatchID        *string          `json:"batchId,omitempty"`
	IdempotencyKey string           `json:"idempotencyKey"`
	WavePayoutID   *string          `json:"wavePayoutId"`
	Mobile         string           `json:"mobile"`
	Name           string           `json:"name"`
	Amount         decimal.Decimal  `json:"amount"`
	Currency       string           `json:"currency"`
	Reason         string           `json:"reason"`
	Status         string           `json:"status"`
	Fee            *decimal.Decimal `json:"fee"`
	LastError      string           `json:"lastError,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
}

// PayoutBatchResponse defines the data returned for a payout batch.
type PayoutBatchResponse struct {
	BatchID     string           `json:"id"`
	WaveBatchID *string          `json:"waveBatchId"`
	Status      string           `json:"status"`
	Payouts     []PayoutResponse `json:"payouts"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func ToPayoutResponse(p *domain.Payout) PayoutResponse {
	res := PayoutResponse{
		PayoutID:       p.PayoutID,
		BatchID:        p.BatchID,
		IdempotencyKey: p.IdempotencyKey,
		WavePayoutID:   p.WavePayoutID,
		Mobile:         p.Mobile,
		Name:           p.Name,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Reason:         p.Reason,
		Status:         string(p.Status),
		LastError:      p.LastError,
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
	if p.Fee.Valid {
		fee := p.Fee.Decimal
		res.Fee = &fee
	}
	return res
}

func ToListPayoutResponse(payouts []domain.Payout) []PayoutResponse {
	res := make([]PayoutResponse, len(payouts))
	for i := range payouts {
		res[i] = ToPayoutResponse(&payouts[i])
	}
	return res
}

func ToPayoutBatchResponse(b *domain.PayoutBatch) PayoutBatchResponse {
	return PayoutBatchResponse{
		BatchID:     b.BatchID,
		WaveBatchID: b.WaveBatchID,
		Status:      b.Status,
		Payouts:     ToListPayoutResponse(b.Payouts),
		CreatedAt:   b.CreatedAt,
	}
}

// BalanceResponse is the Wave wallet balance.
type BalanceResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ListTransactionsParams selects a day of Wave transactions.
type ListTransactionsParams struct {
	Date  *time.Time `form:"date" time_format:"2006-01-02"`
	After string     `form:"after"`
}

// TransactionResponse is a Wave transaction annotated with its local assignment.
type TransactionResponse struct {
	TransactionID      string              `json:"transactionId"`
	Amount             decimal.Decimal     `json:"amount"`
	Fee                decimal.Decimal     `json:"fee"`
	Currency           string              `json:"currency"`
	Timestamp          time.Time           `json:"timestamp"`
	CounterpartyName   string              `json:"counterpartyName,omitempty"`
	CounterpartyMobile string              `json:"counterpartyMobile,omitempty"`
	ClientReference    string              `json:"clientReference,omitempty"`
	Type               string              `json:"type,omitempty"`
	Assignment         *AssignmentResponse `json:"assignment"`
}

// TransactionPageResponse is a cursor page of annotated transactions.
type TransactionPageResponse struct {
	Items   []TransactionResponse `json:"items"`
	HasMore bool                  `json:"hasMore"`
	Cursor  string                `json:"cursor,omitempty"`
}

func ToTransactionPageResponse(page *gateways.TransactionPage, assigned map[string]domain.WaveTransactionAssignment) TransactionPageResponse {
	res := TransactionPageResponse{Items: make([]TransactionResponse, len(page.Items)), HasMore: page.HasMore, Cursor: page.Cursor}
	for i, t := range page.Items {
		item := TransactionResponse{
			TransactionID:      t.TransactionID,
			Amount:             t.Amount,
			Fee:                t.Fee,
			Currency:           t.Currency,
			Timestamp:          t.Timestamp,
			CounterpartyName:   t.Counterparty,
			CounterpartyMobile: t.CounterpartyNum,
			ClientReference:    t.ClientReference,
			Type:               t.Type,
		}
		if a, ok := assigned[t.TransactionID]; ok {
			ar := ToAssignmentResponse(&a)
			item.Assignment = &ar
		}
		res.Items[i] = item
	}
	return res
}

// CreateAssignmentRequest links a Wave transaction to an invoice or an expense.
type CreateAssignmentRequest struct {
	TransactionID string          `json:"transactionId" binding:"required,max=128"`
	Type          string          `json:"type" binding:"required,oneof=REVENUE EXPENSE"`
	InvoiceID     *string         `json:"invoiceId" binding:"omitempty,uuid"`
	ExpenseID     *string         `json:"expenseId" binding:"omitempty,uuid"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	Note          string          `json:"note" binding:"max=500"`
}

// AssignmentResponse defines the data returned for an assignment.
type AssignmentResponse struct {
	AssignmentID  string          `json:"id"`
	TransactionID string          `json:"transactionId"`
	Type          string          `json:"type"`
	InvoiceID     *string         `json:"invoiceId"`
	ExpenseID     *string         `json:"expenseId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Note          string          `json:"note"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func ToAssignmentResponse(a *domain.WaveTransactionAssignment) AssignmentResponse {
	return AssignmentResponse{
		AssignmentID:  a.AssignmentID,
		TransactionID: a.TransactionID,
		Type:          string(a.Type),
		InvoiceID:     a.InvoiceID,
		ExpenseID:     a.ExpenseID,
		Amount:        a.Amount,
		Currency:      a.Currency,
		Note:          a.Note,
		CreatedAt:     a.CreatedAt,
	}
}

func ToListAssignmentResponse(items []domain.WaveTransactionAssignment) []AssignmentResponse {
	res := make([]AssignmentResponse, len(items))
	for i := range items {
		res[i] = ToAssignmentResponse(&items[i])
	}
	return res
}

// WebhookAckResponse acknowledges a webhook delivery.
type WebhookAckResponse struct {
	Received bool `json:"received"`
}
