package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/utils"
)

// statsInvalidator drops cached analytics after money-moving changes.
type statsInvalidator interface {
	Invalidate(ctx context.Context, userID string, years ...int)
}

// emailQueuer puts outbound mail in the outbox.
type emailQueuer interface {
	QueueEmail(ctx context.Context, userID, to, subject, body string) (bool, error)
}

type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
	clientRepo  portsrepo.ClientReader
	projectRepo portsrepo.ProjectReader
	company     portssvc.CompanySettingsSvcFacade
	renderer    gateways.DocumentRenderer
	mail        emailQueuer
	stats       statsInvalidator
	frontendURL string
	now         func() time.Time
}

// InvoiceServiceOption is a functional option for configuring the invoice service
type InvoiceServiceOption func(*invoiceService)

// WithInvoiceActivityRecorder records invoice changes in the activity feed.
func WithInvoiceActivityRecorder(rec portssvc.ActivityRecorderSvc) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.Activities = rec
	}
}

// WithInvoiceNotifications wires notifications and the email outbox.
func WithInvoiceNotifications(n portssvc.NotificationSvcFacade) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.Notifier = n
		s.mail = n
	}
}

// WithInvoiceStatsInvalidator invalidates dashboard caches on payment changes.
func WithInvoiceStatsInvalidator(inv statsInvalidator) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.stats = inv
	}
}

// WithInvoiceFrontendURL sets the base URL used in invoice emails.
func WithInvoiceFrontendURL(url string) InvoiceServiceOption {
	return func(s *invoiceService) {
		s.frontendURL = strings.TrimRight(url, "/")
	}
}

// NewInvoiceService creates a new invoice service with the provided options
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	clientRepo portsrepo.ClientReader,
	projectRepo portsrepo.ProjectReader,
	company portssvc.CompanySettingsSvcFacade,
	renderer gateways.DocumentRenderer,
	options ...InvoiceServiceOption,
) portssvc.InvoiceSvcFacade {
	svc := &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		company:     company,
		renderer:    renderer,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, userID string, req dto.CreateInvoiceRequest) (*domain.Invoice, error) {
	settings, err := s.company.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := domain.Invoice{
		InvoiceID:   uuid.NewString(),
		UserID:      userID,
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		Type:        domain.InvoiceType(req.Type),
		Status:      domain.InvoiceDraft,
		IssueDate:   req.IssueDate,
		Currency:    req.Currency,
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		Notes:       req.Notes,
		Items:       dto.ToDomainItems(req.Items),
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	if inv.Currency == "" {
		inv.Currency = settings.DefaultCurrency
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	} else {
		inv.DueDate = inv.IssueDate.AddDate(0, 0, settings.PaymentTermsDays)
	}
	if err := s.prepare(ctx, &inv); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.CreateInvoice(ctx, &inv); err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("invoice_id", inv.InvoiceID))
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityInvoice, inv.InvoiceID, domain.ActionCreated,
		fmt.Sprintf("%s %s created", typeLabel(inv.Type), inv.Number))
	s.LogInfo(ctx, "Invoice created", slog.String("invoice_id", inv.InvoiceID), slog.String("number", inv.Number))
	return &inv, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, userID, invoiceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, userID string, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	filter.ListParams = filter.ListParams.Normalize()
	invoices, err := s.invoiceRepo.ListInvoices(ctx, userID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		return []domain.Invoice{}, nil
	}
	return invoices, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, userID, invoiceID string, req dto.UpdateInvoiceRequest) (*domain.Invoice, error) {
	inv, err := s.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.IsEditable() {
		return nil, fmt.Errorf("%w: %s invoices cannot be edited", apperrors.ErrConflict, strings.ToLower(string(inv.Status)))
	}
	previousYear := inv.IssueDate.Year()

	if req.ClientID != nil {
		inv.ClientID = req.ClientID
	}
	if req.ProjectID != nil {
		inv.ProjectID = req.ProjectID
	}
	if req.IssueDate != nil {
		inv.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		inv.DueDate = *req.DueDate
	}
	if req.Currency != nil {
		inv.Currency = *req.Currency
	}
	if req.TaxRate != nil {
		inv.TaxRate = *req.TaxRate
	}
	if req.Discount != nil {
		inv.Discount = *req.Discount
	}
	if req.Notes != nil {
		inv.Notes = *req.Notes
	}
	replaceItems := req.Items != nil
	if replaceItems {
		inv.Items = dto.ToDomainItems(*req.Items)
	}
	if err := s.prepare(ctx, inv); err != nil {
		return nil, err
	}
	inv.LastUpdatedAt = s.now()

	if err := s.invoiceRepo.UpdateInvoice(ctx, *inv, replaceItems); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	s.RecordActivity(ctx, userID, domain.EntityInvoice, invoiceID, domain.ActionUpdated, inv.Number+" updated")
	s.invalidate(ctx, userID, previousYear, inv.IssueDate.Year())
	return inv, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, userID, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	inv, err := s.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: cannot move invoice from %s to %s", apperrors.ErrConflict, inv.Status, status)
	}
	if err := s.transition(ctx, inv, status); err != nil {
		return nil, err
	}
	return inv, nil
}

// transition persists a status change and emits its side effects.
func (s *invoiceService) transition(ctx context.Context, inv *domain.Invoice, status domain.InvoiceStatus) error {
	now := s.now()
	var paidAt *time.Time
	if status == domain.InvoicePaid {
		paidAt = &now
	}
	previous := inv.Status
	if err := s.invoiceRepo.UpdateInvoiceStatus(ctx, inv.UserID, inv.InvoiceID, []domain.InvoiceStatus{previous}, status, paidAt); err != nil {
		s.LogUnexpected(ctx, err, "Failed to update invoice status", slog.String("invoice_id", inv.InvoiceID))
		return err
	}
	inv.Status = status
	inv.PaidAt = paidAt
	inv.LastUpdatedAt = now

	s.RecordActivity(ctx, inv.UserID, domain.EntityInvoice, inv.InvoiceID, domain.ActionStatusChanged,
		fmt.Sprintf("%s moved from %s to %s", inv.Number, previous, status))
	switch status {
	case domain.InvoicePaid:
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:     inv.UserID,
			Type:       domain.NotificationInvoicePaid,
			Title:      "Invoice paid",
			Message:    fmt.Sprintf("Invoice %s was paid (%s).", inv.Number, utils.FormatMoney(inv.Total, inv.Currency)),
			EntityType: domain.EntityInvoice,
			EntityID:   inv.InvoiceID,
			Email:      true,
		})
		s.invalidate(ctx, inv.UserID, now.Year())
	case domain.InvoiceOverdue:
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:     inv.UserID,
			Type:       domain.NotificationInvoiceOverdue,
			Title:      "Invoice overdue",
			Message:    fmt.Sprintf("Invoice %s was due on %s.", inv.Number, inv.DueDate.Format("2006-01-02")),
			EntityType: domain.EntityInvoice,
			EntityID:   inv.InvoiceID,
			Email:      true,
		})
		s.invalidate(ctx, inv.UserID, inv.IssueDate.Year())
	case domain.InvoiceCancelled:
		s.invalidate(ctx, inv.UserID, inv.IssueDate.Year())
	}
	return nil
}

func (s *invoiceService) ConvertProforma(ctx context.Context, userID, proformaID string) (*domain.Invoice, error) {
	proforma, err := s.GetInvoice(ctx, userID, proformaID)
	if err != nil {
		return nil, err
	}
	if proforma.Type != domain.InvoiceTypeProforma {
		return nil, validationf("only proformas can be converted")
	}
	if proforma.Status == domain.InvoiceConverted || proforma.Status == domain.InvoiceCancelled {
		return nil, fmt.Errorf("%w: proforma is %s", apperrors.ErrConflict, strings.ToLower(string(proforma.Status)))
	}
	settings, err := s.company.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	issue := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sourceID := proforma.InvoiceID
	inv := domain.Invoice{
		InvoiceID:       uuid.NewString(),
		UserID:          userID,
		ClientID:        proforma.ClientID,
		ProjectID:       proforma.ProjectID,
		Type:            domain.InvoiceTypeInvoice,
		Status:          domain.InvoicePending,
		IssueDate:       issue,
		DueDate:         issue.AddDate(0, 0, settings.PaymentTermsDays),
		Currency:        proforma.Currency,
		Subtotal:        proforma.Subtotal,
		TaxRate:         proforma.TaxRate,
		TaxAmount:       proforma.TaxAmount,
		Discount:        proforma.Discount,
		Total:           proforma.Total,
		Notes:           proforma.Notes,
		ConvertedFromID: &sourceID,
		AuditFields:     domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	inv.Items = make([]domain.InvoiceItem, len(proforma.Items))
	for i, item := range proforma.Items {
		item.ItemID = uuid.NewString()
		item.InvoiceID = inv.InvoiceID
		inv.Items[i] = item
	}

	if err := s.invoiceRepo.ConvertProforma(ctx, proformaID, &inv); err != nil {
		s.LogUnexpected(ctx, err, "Failed to convert proforma", slog.String("proforma_id", proformaID))
		return nil, err
	}

	s.RecordActivity(ctx, userID, domain.EntityInvoice, proformaID, domain.ActionStatusChanged,
		fmt.Sprintf("Proforma %s converted to invoice %s", proforma.Number, inv.Number))
	s.RecordActivity(ctx, userID, domain.EntityInvoice, inv.InvoiceID, domain.ActionCreated,
		fmt.Sprintf("Invoice %s created from proforma %s", inv.Number, proforma.Number))
	s.invalidate(ctx, userID, issue.Year())
	return &inv, nil
}

func (s *invoiceService) Send(ctx context.Context, userID, invoiceID string) (*domain.Invoice, bool, error) {
	inv, err := s.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, false, err
	}
	switch inv.Status {
	case domain.InvoiceCancelled, domain.InvoiceConverted:
		return nil, false, fmt.Errorf("%w: %s invoices cannot be sent", apperrors.ErrConflict, strings.ToLower(string(inv.Status)))
	}

	if inv.Status == domain.InvoiceDraft {
		if err := s.transition(ctx, inv, domain.InvoicePending); err != nil {
			return nil, false, err
		}
	}

	queued := false
	if s.mail != nil && inv.ClientID != nil {
		client, err := s.clientRepo.FindClientByID(ctx, userID, *inv.ClientID)
		switch {
		case err != nil:
			s.LogUnexpected(ctx, err, "Failed to load invoice client", slog.String("invoice_id", invoiceID))
		case client.Email == "":
			s.LogInfo(ctx, "Client has no email, invoice not mailed", slog.String("invoice_id", invoiceID))
		default:
			subject, body := s.invoiceEmail(ctx, inv, client)
			queued, err = s.mail.QueueEmail(ctx, userID, client.Email, subject, body)
			if err != nil {
				s.LogError(ctx, err, "Failed to queue invoice email", slog.String("invoice_id", invoiceID))
				queued = false
			}
		}
	}
	return inv, queued, nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	inv, err := s.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status == domain.InvoicePaid {
		return fmt.Errorf("%w: paid invoices cannot be deleted", apperrors.ErrConflict)
	}
	if err := s.invoiceRepo.DeleteInvoice(ctx, userID, invoiceID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete invoice", slog.String("invoice_id", invoiceID))
		return err
	}
	s.RecordActivity(ctx, userID, domain.EntityInvoice, invoiceID, domain.ActionDeleted, inv.Number+" deleted")
	s.invalidate(ctx, userID, inv.IssueDate.Year())
	return nil
}

func (s *invoiceService) RenderPDF(ctx context.Context, userID, invoiceID string) ([]byte, string, error) {
	inv, err := s.GetInvoice(ctx, userID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	settings, err := s.company.GetSettings(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	var client *domain.Client
	if inv.ClientID != nil {
		client, err = s.clientRepo.FindClientByID(ctx, userID, *inv.ClientID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load invoice client", slog.String("invoice_id", invoiceID))
			return nil, "", err
		}
	}

	pdf, err := s.renderer.RenderInvoice(*inv, *settings, client)
	if err != nil {
		s.LogError(ctx, err, "Failed to render invoice PDF", slog.String("invoice_id", invoiceID))
		return nil, "", fmt.Errorf("failed to render invoice: %w", err)
	}
	return pdf, inv.Number + ".pdf", nil
}

func (s *invoiceService) MarkOverdueInvoices(ctx context.Context, now time.Time) (int, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	invoices, err := s.invoiceRepo.ListPendingDueBefore(ctx, today)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices past due")
		return 0, err
	}

	moved := 0
	for i := range invoices {
		inv := &invoices[i]
		if !inv.IsOverdue(now) {
			continue
		}
		if err := s.transition(ctx, inv, domain.InvoiceOverdue); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				continue
			}
			s.LogError(ctx, err, "Failed to mark invoice overdue", slog.String("invoice_id", inv.InvoiceID))
			continue
		}
		moved++
	}
	s.LogInfo(ctx, "Overdue invoices marked", slog.Int("count", moved))
	return moved, nil
}

// prepare validates references and dates and recomputes the amounts.
func (s *invoiceService) prepare(ctx context.Context, inv *domain.Invoice) error {
	if inv.DueDate.Before(inv.IssueDate) {
		return validationf("due date must not be before issue date")
	}
	amounts, err := domain.CalculateInvoiceAmounts(inv.Items, inv.TaxRate, inv.Discount)
	if err != nil {
		return validationError(err)
	}
	inv.Subtotal = amounts.Subtotal
	inv.TaxAmount = amounts.TaxAmount
	inv.Total = amounts.Total
	for i := range inv.Items {
		if inv.Items[i].ItemID == "" {
			inv.Items[i].ItemID = uuid.NewString()
		}
		inv.Items[i].InvoiceID = inv.InvoiceID
	}

	if inv.ClientID != nil {
		if _, err := s.clientRepo.FindClientByID(ctx, inv.UserID, *inv.ClientID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return validationf("client %s does not exist", *inv.ClientID)
			}
			return err
		}
	}
	if inv.ProjectID != nil {
		if _, err := s.projectRepo.FindProjectByID(ctx, inv.UserID, *inv.ProjectID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return validationf("project %s does not exist", *inv.ProjectID)
			}
			return err
		}
	}
	return nil
}

func (s *invoiceService) invoiceEmail(ctx context.Context, inv *domain.Invoice, client *domain.Client) (string, string) {
	sender := "your supplier"
	if settings, err := s.company.GetSettings(ctx, inv.UserID); err == nil && settings.CompanyName != "" {
		sender = settings.CompanyName
	}
	subject := fmt.Sprintf("%s %s from %s", typeLabel(inv.Type), inv.Number, sender)

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", client.Name)
	fmt.Fprintf(&b, "Please find %s %s for %s, due on %s.\n",
		strings.ToLower(typeLabel(inv.Type)), inv.Number, utils.FormatMoney(inv.Total, inv.Currency), inv.DueDate.Format("2006-01-02"))
	if inv.WaveLaunchURL != nil {
		fmt.Fprintf(&b, "\nYou can pay with Wave here: %s\n", *inv.WaveLaunchURL)
	} else if s.frontendURL != "" {
		fmt.Fprintf(&b, "\nView it online: %s/invoices/%s\n", s.frontendURL, inv.InvoiceID)
	}
	fmt.Fprintf(&b, "\nThank you,\n%s\n", sender)
	return subject, b.String()
}

func (s *invoiceService) invalidate(ctx context.Context, userID string, years ...int) {
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID, years...)
	}
}

func typeLabel(t domain.InvoiceType) string {
	if t == domain.InvoiceTypeProforma {
		return "Proforma"
	}
	return "Invoice"
}
