package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WaveSettings holds a user's Wave credentials.
type WaveSettings struct {
	UserID        string
	APIKey        string
	WebhookSecret string
	AuditFields
}

// HasAPIKey reports whether outbound Wave calls are possible.
func (s WaveSettings) HasAPIKey() bool { return s.APIKey != "" }

// APIKeyLast4 returns the last four characters of the API key for display.
func (s WaveSettings) APIKeyLast4() string {
	if len(s.APIKey) <= 4 {
		return s.APIKey
	}
	return s.APIKey[len(s.APIKey)-4:]
}

type PayoutStatus string

const (
	PayoutProcessing PayoutStatus = "PROCESSING"
	PayoutSucceeded  PayoutStatus = "SUCCEEDED"
	PayoutFailed     PayoutStatus = "FAILED"
	PayoutReversed   PayoutStatus = "REVERSED"
)

// IsFinal reports whether Wave will not change the payout further.
func (s PayoutStatus) IsFinal() bool {
	return s == PayoutSucceeded || s == PayoutFailed || s == PayoutReversed
}

// Payout is a local record of a Wave payout.
type Payout struct {
	PayoutID       string
	UserID         string
	BatchID        *string
	IdempotencyKey string
	WavePayoutID   *string
	Mobile         string
	Name           string
	Amount         decimal.Decimal
	Currency       string
	Reason         string
	Status         PayoutStatus
	Fee            decimal.NullDecimal
	LastError      string
	AuditFields
}

// PayoutBatch is a local record of a Wave payout batch.
type PayoutBatch struct {
	BatchID     string
	UserID      string
	WaveBatchID *string
	Status      string
	Payouts     []Payout
	AuditFields
}

type AssignmentType string

const (
	AssignmentRevenue AssignmentType = "REVENUE"
	AssignmentExpense AssignmentType = "EXPENSE"
)

// WaveTransactionAssignment links an external Wave transaction to exactly one
// local invoice (revenue) or expense. Unique per (UserID, TransactionID).
type WaveTransactionAssignment struct {
	AssignmentID  string
	UserID        string
	TransactionID string
	Type          AssignmentType
	InvoiceID     *string
	ExpenseID     *string
	Amount        decimal.Decimal
	Currency      string
	Note          string
	CreatedAt     time.Time
}

// WebhookEventStatus tracks an inbox row.
type WebhookEventStatus string

const (
	WebhookPending   WebhookEventStatus = "PENDING"
	WebhookProcessed WebhookEventStatus = "PROCESSED"
	WebhookFailed    WebhookEventStatus = "FAILED"
)

// WebhookEvent is a verified Wave webhook persisted for deferred processing.
type WebhookEvent struct {
	EventID     string
	UserID      string
	EventType   string
	Payload     []byte
	Status      WebhookEventStatus
	Attempts    int
	LastError   string
	ReceivedAt  time.Time
	ProcessedAt *time.Time
}

// Wave webhook event types.
const (
	WaveCheckoutCompleted     = "checkout.session.completed"
	WaveCheckoutPaymentFailed = "checkout.session.payment_failed"
	WaveMerchantPaymentRecv   = "merchant.payment_received"
	WaveB2BPaymentReceived    = "b2b.payment_received"
	WaveB2BPaymentFailed      = "b2b.payment_failed"
	WavePayoutSucceeded       = "payout.succeeded"
	WavePayoutCompleted       = "payout.completed"
	WavePayoutFailed          = "payout.failed"
	WavePayoutReversed        = "payout.reversed"
)
