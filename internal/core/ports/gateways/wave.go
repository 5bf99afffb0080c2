// Package gateways declares the outbound integrations the services depend on.
package gateways

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutSessionRequest is the body of POST /v1/checkout/sessions.
type CheckoutSessionRequest struct {
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ClientReference string          `json:"client_reference,omitempty"`
	SuccessURL      string          `json:"success_url"`
	ErrorURL        string          `json:"error_url"`
}

// CheckoutSession is Wave's checkout session resource.
type CheckoutSession struct {
	ID              string          `json:"id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	ClientReference string          `json:"client_reference"`
	CheckoutStatus  string          `json:"checkout_status"`
	PaymentStatus   string          `json:"payment_status"`
	LaunchURL       string          `json:"wave_launch_url"`
	TransactionID   string          `json:"transaction_id"`
	WhenCreated     time.Time       `json:"when_created"`
	WhenExpires     time.Time       `json:"when_expires"`
}

// PayoutRequest is the body of POST /v1/payout and an item of a payout batch.
type PayoutRequest struct {
	Currency        string          `json:"currency"`
	ReceiveAmount   decimal.Decimal `json:"receive_amount"`
	Mobile          string          `json:"mobile"`
	Name            string          `json:"name,omitempty"`
	ClientReference string          `json:"client_reference,omitempty"`
	PaymentReason   string          `json:"payment_reason,omitempty"`
}

// PayoutError is set on failed payouts.
type PayoutError struct {
	Code    string `json:"error_code"`
	Message string `json:"error_message"`
}

// PayoutResult is Wave's payout resource.
type PayoutResult struct {
	ID              string          `json:"id"`
	Currency        string          `json:"currency"`
	ReceiveAmount   decimal.Decimal `json:"receive_amount"`
	Fee             decimal.Decimal `json:"fee"`
	Mobile          string          `json:"mobile"`
	Name            string          `json:"name"`
	ClientReference string          `json:"client_reference"`
	Status          string          `json:"status"`
	Timestamp       time.Time       `json:"timestamp"`
	PayoutError     *PayoutError    `json:"payout_error,omitempty"`
}

// PayoutBatchRequest is the body of POST /v1/payout-batch.
type PayoutBatchRequest struct {
	Payouts []PayoutRequest `json:"payouts"`
}

// PayoutBatch is Wave's payout batch resource.
type PayoutBatch struct {
	ID      string         `json:"id"`
	Status  string         `json:"status"`
	Payouts []PayoutResult `json:"payouts,omitempty"`
}

// Balance is the response of GET /v1/balance.
type Balance struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Transaction is one row of GET /v1/transactions.
type Transaction struct {
	TransactionID   string          `json:"transaction_id"`
	Amount          decimal.Decimal `json:"amount"`
	Fee             decimal.Decimal `json:"fee"`
	Currency        string          `json:"currency"`
	Timestamp       time.Time       `json:"timestamp"`
	Counterparty    string          `json:"counterparty_name,omitempty"`
	CounterpartyNum string          `json:"counterparty_mobile,omitempty"`
	ClientReference string          `json:"client_reference,omitempty"`
	Type            string          `json:"type,omitempty"`
}

// TransactionPage is a cursor page of transactions.
type TransactionPage struct {
	Items   []Transaction `json:"items"`
	HasMore bool          `json:"has_more"`
	Cursor  string        `json:"cursor,omitempty"`
}

// WaveClient talks to the Wave REST API on behalf of a user (apiKey).
type WaveClient interface {
	CreateCheckoutSession(ctx context.Context, apiKey string, req CheckoutSessionRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, apiKey, sessionID string) (*CheckoutSession, error)
	CreatePayout(ctx context.Context, apiKey, idempotencyKey string, req PayoutRequest) (*PayoutResult, error)
	GetPayout(ctx context.Context, apiKey, payoutID string) (*PayoutResult, error)
	CreatePayoutBatch(ctx context.Context, apiKey, idempotencyKey string, req PayoutBatchRequest) (*PayoutBatch, error)
	GetPayoutBatch(ctx context.Context, apiKey, batchID string) (*PayoutBatch, error)
	GetBalance(ctx context.Context, apiKey string) (*Balance, error)
	ListTransactions(ctx context.Context, apiKey string, date time.Time, after string) (*TransactionPage, error)
}
