package services

import (
	"context"
	"net/http"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// WaveSettingsSvc manages per-user Wave credentials.
type WaveSettingsSvc interface {
	// GetSettings returns nil without error when Wave was never configured.
	GetSettings(ctx context.Context, userID string) (*domain.WaveSettings, error)
	UpdateSettings(ctx context.Context, userID string, req dto.UpdateWaveSettingsRequest) (*domain.WaveSettings, error)
}

// WaveCheckoutSvc creates payment links for invoices.
type WaveCheckoutSvc interface {
	CreateInvoiceCheckout(ctx context.Context, userID, invoiceID string) (*gateways.CheckoutSession, error)
}

// WavePayoutSvc sends money to mobile wallets.
type WavePayoutSvc interface {
	CreatePayout(ctx context.Context, userID string, req dto.CreatePayoutRequest) (*domain.Payout, error)
	GetPayout(ctx context.Context, userID, payoutID string) (*domain.Payout, error)
	ListPayouts(ctx context.Context, userID string, params domain.ListParams) ([]domain.Payout, error)
	CreatePayoutBatch(ctx context.Context, userID string, req dto.CreatePayoutBatchRequest) (*domain.PayoutBatch, error)
	GetPayoutBatch(ctx context.Context, userID, batchID string) (*domain.PayoutBatch, error)
}

// WaveAccountSvc reads the Wave wallet.
type WaveAccountSvc interface {
	GetBalance(ctx context.Context, userID string) (*gateways.Balance, error)
	ListTransactions(ctx context.Context, userID string, date time.Time, after string) (*gateways.TransactionPage, map[string]domain.WaveTransactionAssignment, error)
}

// WaveAssignmentSvc links Wave transactions to local records.
type WaveAssignmentSvc interface {
	CreateAssignment(ctx context.Context, userID string, req dto.CreateAssignmentRequest) (*domain.WaveTransactionAssignment, error)
	ListAssignments(ctx context.Context, userID string, params domain.ListParams) ([]domain.WaveTransactionAssignment, error)
	DeleteAssignment(ctx context.Context, userID, assignmentID string) error
}

// WaveSvcFacade combines all Wave-related service interfaces
type WaveSvcFacade interface {
	WaveSettingsSvc
	WaveCheckoutSvc
	WavePayoutSvc
	WaveAccountSvc
	WaveAssignmentSvc
}

// WaveWebhookSvcFacade verifies, stores and processes Wave webhooks.
type WaveWebhookSvcFacade interface {
	// Receive verifies the signature header against every stored secret and stores
	// the event in the inbox. duplicate is true when the event was already received.
	Receive(ctx context.Context, header http.Header, body []byte) (event *domain.WebhookEvent, duplicate bool, err error)
	// ProcessEvent applies a stored event. It is called by the inbox dispatcher.
	ProcessEvent(ctx context.Context, event domain.WebhookEvent) error
}
