package services

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// InvoiceReaderSvc defines read operations for invoices
type InvoiceReaderSvc interface {
	GetInvoice(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, userID string, filter domain.InvoiceFilter) ([]domain.Invoice, error)
	// RenderPDF returns the invoice document and a suggested file name.
	RenderPDF(ctx context.Context, userID, invoiceID string) ([]byte, string, error)
}

// InvoiceWriterSvc defines write operations for invoices
type InvoiceWriterSvc interface {
	CreateInvoice(ctx context.Context, userID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error)
	UpdateInvoice(ctx context.Context, userID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, userID, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
	ConvertProforma(ctx context.Context, userID, proformaID string) (*domain.Invoice, error)
	// Send queues the invoice email to the client and moves a draft to PENDING.
	// The returned flag reports whether an email was queued.
	Send(ctx context.Context, userID, invoiceID string) (*domain.Invoice, bool, error)
	DeleteInvoice(ctx context.Context, userID, invoiceID string) error
}

// InvoiceJobsSvc defines scheduled invoice operations
type InvoiceJobsSvc interface {
	// MarkOverdueInvoices moves pending invoices past due to OVERDUE and returns how many moved.
	MarkOverdueInvoices(ctx context.Context, now time.Time) (int, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
	InvoiceJobsSvc
}
