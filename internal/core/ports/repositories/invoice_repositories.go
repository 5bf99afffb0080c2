package repositories

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// InvoiceReader defines read operations for invoices
type InvoiceReader interface {
	// FindInvoiceByID returns the invoice with its items.
	FindInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error)
	// FindInvoiceByCheckoutID finds an invoice by its Wave checkout session id.
	FindInvoiceByCheckoutID(ctx context.Context, userID, checkoutID string) (*domain.Invoice, error)
	// ListInvoices returns invoices without items.
	ListInvoices(ctx context.Context, userID string, filter domain.InvoiceFilter) ([]domain.Invoice, error)
	// ListPendingDueBefore returns PENDING invoices of every user due before the given day.
	ListPendingDueBefore(ctx context.Context, day time.Time) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoices
type InvoiceWriter interface {
	// CreateInvoice allocates the next number from the user's company settings,
	// sets invoice.Number and inserts the invoice with its items in one transaction.
	CreateInvoice(ctx context.Context, invoice *domain.Invoice) error
	// UpdateInvoice updates header fields and, when replaceItems is set, swaps the items atomically.
	UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error
	// UpdateInvoiceStatus moves the invoice from one of the expected statuses to status.
	// It yields ErrConflict when the stored status is not in expected.
	UpdateInvoiceStatus(ctx context.Context, userID, invoiceID string, expected []domain.InvoiceStatus, status domain.InvoiceStatus, paidAt *time.Time) error
	// ConvertProforma numbers and inserts invoice and marks the proforma CONVERTED atomically.
	ConvertProforma(ctx context.Context, proformaID string, invoice *domain.Invoice) error
	SetWaveCheckout(ctx context.Context, userID, invoiceID, checkoutID, launchURL string) error
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
