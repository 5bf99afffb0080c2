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

// WaveRepositories groups the stores the Wave service writes to.
type WaveRepositories struct {
	Settings    portsrepo.WaveSettingsRepository
	Payouts     portsrepo.PayoutRepository
	Assignments portsrepo.AssignmentRepository
	Invoices    portsrepo.InvoiceRepositoryFacade
	Expenses    portsrepo.ExpenseReader
}

type waveService struct {
	BaseService
	repos       WaveRepositories
	client      gateways.WaveClient
	stats       statsInvalidator
	frontendURL string
	now         func() time.Time
}

// WaveServiceOption is a functional option for configuring the Wave service
type WaveServiceOption func(*waveService)

// WithWaveActivityRecorder records payouts and payments in the activity feed.
func WithWaveActivityRecorder(rec portssvc.ActivityRecorderSvc) WaveServiceOption {
	return func(s *waveService) {
		s.Activities = rec
	}
}

// WithWaveNotifier reports payout failures and payments to the user.
func WithWaveNotifier(n portssvc.NotifierSvc) WaveServiceOption {
	return func(s *waveService) {
		s.Notifier = n
	}
}

// WithWaveStatsInvalidator invalidates dashboard caches when invoices get paid.
func WithWaveStatsInvalidator(inv statsInvalidator) WaveServiceOption {
	return func(s *waveService) {
		s.stats = inv
	}
}

// WithWaveFrontendURL sets the base of checkout return URLs.
func WithWaveFrontendURL(url string) WaveServiceOption {
	return func(s *waveService) {
		s.frontendURL = strings.TrimRight(url, "/")
	}
}

// NewWaveService creates a new Wave service with the provided options
func NewWaveService(repos WaveRepositories, client gateways.WaveClient, options ...WaveServiceOption) portssvc.WaveSvcFacade {
	svc := &waveService{repos: repos, client: client, now: time.Now}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.WaveSvcFacade = (*waveService)(nil)

// --- settings ---

func (s *waveService) GetSettings(ctx context.Context, userID string) (*domain.WaveSettings, error) {
	settings, err := s.repos.Settings.FindWaveSettings(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		s.LogError(ctx, err, "Failed to load Wave settings")
		return nil, err
	}
	return settings, nil
}

func (s *waveService) UpdateSettings(ctx context.Context, userID string, req dto.UpdateWaveSettingsRequest) (*domain.WaveSettings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if settings == nil {
		settings = &domain.WaveSettings{UserID: userID, AuditFields: domain.AuditFields{CreatedAt: now}}
	}
	if req.APIKey != nil {
		settings.APIKey = strings.TrimSpace(*req.APIKey)
	}
	if req.WebhookSecret != nil {
		settings.WebhookSecret = strings.TrimSpace(*req.WebhookSecret)
	}
	settings.LastUpdatedAt = now

	if err := s.repos.Settings.UpsertWaveSettings(ctx, *settings); err != nil {
		s.LogError(ctx, err, "Failed to save Wave settings")
		return nil, err
	}
	s.LogInfo(ctx, "Wave settings updated",
		slog.Bool("api_key_set", settings.HasAPIKey()),
		slog.Bool("webhook_secret_set", settings.WebhookSecret != ""))
	return settings, nil
}

// apiKey returns the caller's Wave API key or a validation error when missing.
func (s *waveService) apiKey(ctx context.Context, userID string) (string, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return "", err
	}
	if settings == nil || !settings.HasAPIKey() {
		return "", validationf("Wave API key is not configured")
	}
	return settings.APIKey, nil
}

// upstream converts a Wave client failure into a 502.
func upstream(message string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.NewBadGatewayError(message, err)
}

// --- checkout ---

func (s *waveService) CreateInvoiceCheckout(ctx context.Context, userID, invoiceID string) (*gateways.CheckoutSession, error) {
	inv, err := s.repos.Invoices.FindInvoiceByID(ctx, userID, invoiceID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find invoice", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	if !inv.Status.IsPayable() {
		return nil, fmt.Errorf("%w: only pending or overdue invoices can be paid", apperrors.ErrConflict)
	}
	if inv.Currency != "XOF" {
		return nil, validationf("Wave checkout only supports XOF invoices")
	}
	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	base := s.frontendURL + "/invoices/" + inv.InvoiceID
	session, err := s.client.CreateCheckoutSession(ctx, key, gateways.CheckoutSessionRequest{
		Amount:          inv.Total.Round(0),
		Currency:        inv.Currency,
		ClientReference: inv.InvoiceID,
		SuccessURL:      base + "?payment=success",
		ErrorURL:        base + "?payment=error",
	})
	if err != nil {
		s.LogError(ctx, err, "Wave checkout session failed", slog.String("invoice_id", invoiceID))
		return nil, upstream("Wave checkout failed", err)
	}

	if err := s.repos.Invoices.SetWaveCheckout(ctx, userID, invoiceID, session.ID, session.LaunchURL); err != nil {
		s.LogError(ctx, err, "Failed to store checkout session", slog.String("invoice_id", invoiceID))
		return nil, err
	}
	s.LogInfo(ctx, "Wave checkout created", slog.String("invoice_id", invoiceID), slog.String("checkout_id", session.ID))
	return session, nil
}

// --- payouts ---

func (s *waveService) CreatePayout(ctx context.Context, userID string, req dto.CreatePayoutRequest) (*domain.Payout, error) {
	if !req.Amount.IsPositive() {
		return nil, validationf("amount must be positive")
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	} else if existing, err := s.repos.Payouts.FindPayoutByIdempotencyKey(ctx, userID, req.IdempotencyKey); err == nil {
		return existing, nil
	} else if !isNotFound(err) {
		s.LogError(ctx, err, "Failed to look up payout by idempotency key")
		return nil, err
	}
	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	payout := s.newPayout(userID, nil, req)
	if err := s.repos.Payouts.SavePayout(ctx, payout); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.repos.Payouts.FindPayoutByIdempotencyKey(ctx, userID, req.IdempotencyKey)
		}
		s.LogError(ctx, err, "Failed to save payout", slog.String("payout_id", payout.PayoutID))
		return nil, err
	}

	result, callErr := s.client.CreatePayout(ctx, key, payout.IdempotencyKey, payoutRequest(payout))
	if callErr != nil {
		payout.Status = domain.PayoutFailed
		payout.LastError = callErr.Error()
	} else {
		applyPayoutResult(&payout, result)
	}
	payout.LastUpdatedAt = s.now()
	if err := s.repos.Payouts.UpdatePayout(ctx, payout); err != nil {
		s.LogError(ctx, err, "Failed to update payout", slog.String("payout_id", payout.PayoutID))
	}

	if payout.Status == domain.PayoutFailed {
		s.LogError(ctx, errors.New(payout.LastError), "Wave payout failed", slog.String("payout_id", payout.PayoutID))
		s.notifyPayout(ctx, payout)
		if callErr != nil {
			return nil, upstream("Wave payout failed", callErr)
		}
		return nil, apperrors.NewBadGatewayError("Wave payout failed: "+payout.LastError, nil)
	}

	s.RecordActivity(ctx, userID, domain.EntityPayout, payout.PayoutID, domain.ActionCreated,
		fmt.Sprintf("Payout of %s to %s", utils.FormatMoney(payout.Amount, payout.Currency), payout.Mobile))
	if payout.Status == domain.PayoutSucceeded {
		s.notifyPayout(ctx, payout)
	}
	return &payout, nil
}

func (s *waveService) GetPayout(ctx context.Context, userID, payoutID string) (*domain.Payout, error) {
	payout, err := s.repos.Payouts.FindPayoutByID(ctx, userID, payoutID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find payout", slog.String("payout_id", payoutID))
		return nil, err
	}
	if payout.Status.IsFinal() || payout.WavePayoutID == nil {
		return payout, nil
	}

	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return payout, nil
	}
	result, err := s.client.GetPayout(ctx, key, *payout.WavePayoutID)
	if err != nil {
		s.LogError(ctx, err, "Failed to refresh payout from Wave", slog.String("payout_id", payoutID))
		return payout, nil
	}
	previous := payout.Status
	applyPayoutResult(payout, result)
	if payout.Status != previous {
		payout.LastUpdatedAt = s.now()
		if err := s.repos.Payouts.UpdatePayout(ctx, *payout); err != nil {
			s.LogError(ctx, err, "Failed to update payout", slog.String("payout_id", payoutID))
		} else if payout.Status.IsFinal() {
			s.notifyPayout(ctx, *payout)
		}
	}
	return payout, nil
}

func (s *waveService) ListPayouts(ctx context.Context, userID string, params domain.ListParams) ([]domain.Payout, error) {
	payouts, err := s.repos.Payouts.ListPayouts(ctx, userID, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list payouts")
		return nil, fmt.Errorf("failed to list payouts: %w", err)
	}
	if payouts == nil {
		return []domain.Payout{}, nil
	}
	return payouts, nil
}

func (s *waveService) CreatePayoutBatch(ctx context.Context, userID string, req dto.CreatePayoutBatchRequest) (*domain.PayoutBatch, error) {
	if len(req.Payouts) == 0 {
		return nil, validationf("a batch needs at least one payout")
	}
	for i, p := range req.Payouts {
		if !p.Amount.IsPositive() {
			return nil, validationf("payout %d: amount must be positive", i+1)
		}
	}
	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	batch := domain.PayoutBatch{
		BatchID:     uuid.NewString(),
		UserID:      userID,
		Status:      "processing",
		AuditFields: domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	wireReq := gateways.PayoutBatchRequest{Payouts: make([]gateways.PayoutRequest, len(req.Payouts))}
	for i, p := range req.Payouts {
		if p.IdempotencyKey == "" {
			p.IdempotencyKey = uuid.NewString()
		}
		payout := s.newPayout(userID, &batch.BatchID, p)
		batch.Payouts = append(batch.Payouts, payout)
		wireReq.Payouts[i] = payoutRequest(payout)
	}
	if err := s.repos.Payouts.SavePayoutBatch(ctx, batch); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: an idempotency key in the batch was already used", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save payout batch", slog.String("batch_id", batch.BatchID))
		return nil, err
	}

	result, callErr := s.client.CreatePayoutBatch(ctx, key, batch.BatchID, wireReq)
	if callErr != nil {
		batch.Status = "failed"
		for i := range batch.Payouts {
			batch.Payouts[i].Status = domain.PayoutFailed
			batch.Payouts[i].LastError = callErr.Error()
		}
	} else {
		applyBatchResult(&batch, result)
	}
	batch.LastUpdatedAt = s.now()
	if err := s.repos.Payouts.UpdatePayoutBatch(ctx, batch); err != nil {
		s.LogError(ctx, err, "Failed to update payout batch", slog.String("batch_id", batch.BatchID))
	}

	if callErr != nil {
		s.LogError(ctx, callErr, "Wave payout batch failed", slog.String("batch_id", batch.BatchID))
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:     userID,
			Type:       domain.NotificationPayoutFailed,
			Title:      "Payout batch failed",
			Message:    fmt.Sprintf("A batch of %d payouts could not be sent: %s", len(batch.Payouts), callErr.Error()),
			EntityType: domain.EntityPayout,
			EntityID:   batch.BatchID,
			Email:      true,
		})
		return nil, upstream("Wave payout batch failed", callErr)
	}
	s.RecordActivity(ctx, userID, domain.EntityPayout, batch.BatchID, domain.ActionCreated,
		fmt.Sprintf("Payout batch of %d payouts submitted", len(batch.Payouts)))
	return &batch, nil
}

func (s *waveService) GetPayoutBatch(ctx context.Context, userID, batchID string) (*domain.PayoutBatch, error) {
	batch, err := s.repos.Payouts.FindPayoutBatchByID(ctx, userID, batchID)
	if err != nil {
		s.LogUnexpected(ctx, err, "Failed to find payout batch", slog.String("batch_id", batchID))
		return nil, err
	}
	if batch.WaveBatchID == nil || batch.Status == "complete" || batch.Status == "failed" {
		return batch, nil
	}
	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return batch, nil
	}
	result, err := s.client.GetPayoutBatch(ctx, key, *batch.WaveBatchID)
	if err != nil {
		s.LogError(ctx, err, "Failed to refresh payout batch from Wave", slog.String("batch_id", batchID))
		return batch, nil
	}
	applyBatchResult(batch, result)
	batch.LastUpdatedAt = s.now()
	if err := s.repos.Payouts.UpdatePayoutBatch(ctx, *batch); err != nil {
		s.LogError(ctx, err, "Failed to update payout batch", slog.String("batch_id", batchID))
	}
	return batch, nil
}

func (s *waveService) newPayout(userID string, batchID *string, req dto.CreatePayoutRequest) domain.Payout {
	now := s.now()
	currency := req.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return domain.Payout{
		PayoutID:       uuid.NewString(),
		UserID:         userID,
		BatchID:        batchID,
		IdempotencyKey: req.IdempotencyKey,
		Mobile:         req.Mobile,
		Name:           strings.TrimSpace(req.Name),
		Amount:         req.Amount,
		Currency:       currency,
		Reason:         strings.TrimSpace(req.Reason),
		Status:         domain.PayoutProcessing,
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
}

func (s *waveService) notifyPayout(ctx context.Context, p domain.Payout) {
	if in, ok := payoutNotice(p); ok {
		s.Notify(ctx, in)
	}
}

// payoutNotice builds the notification for a payout that reached a final status.
func payoutNotice(p domain.Payout) (portssvc.NotifyInput, bool) {
	in := portssvc.NotifyInput{
		UserID:     p.UserID,
		EntityType: domain.EntityPayout,
		EntityID:   p.PayoutID,
	}
	amount := utils.FormatMoney(p.Amount, p.Currency)
	switch p.Status {
	case domain.PayoutSucceeded:
		in.Type = domain.NotificationPayoutSucceeded
		in.Title = "Payout sent"
		in.Message = fmt.Sprintf("%s was sent to %s.", amount, p.Mobile)
	case domain.PayoutFailed, domain.PayoutReversed:
		in.Type = domain.NotificationPayoutFailed
		in.Title = "Payout failed"
		in.Message = fmt.Sprintf("%s to %s was %s.", amount, p.Mobile, strings.ToLower(string(p.Status)))
		if p.LastError != "" {
			in.Message += " " + p.LastError
		}
		in.Email = true
	default:
		return in, false
	}
	return in, true
}

func payoutRequest(p domain.Payout) gateways.PayoutRequest {
	return gateways.PayoutRequest{
		Currency:        p.Currency,
		ReceiveAmount:   p.Amount,
		Mobile:          p.Mobile,
		Name:            p.Name,
		ClientReference: p.PayoutID,
		PaymentReason:   p.Reason,
	}
}

// PayoutStatusFromWave maps Wave's lower-case payout status to the local status.
func PayoutStatusFromWave(status string) domain.PayoutStatus {
	switch strings.ToLower(status) {
	case "succeeded", "completed":
		return domain.PayoutSucceeded
	case "failed":
		return domain.PayoutFailed
	case "reversed":
		return domain.PayoutReversed
	default:
		return domain.PayoutProcessing
	}
}

func applyPayoutResult(p *domain.Payout, r *gateways.PayoutResult) {
	if r.ID != "" {
		id := r.ID
		p.WavePayoutID = &id
	}
	p.Status = PayoutStatusFromWave(r.Status)
	if !r.Fee.IsZero() {
		p.Fee.Decimal, p.Fee.Valid = r.Fee, true
	}
	if r.PayoutError != nil {
		p.Status = domain.PayoutFailed
		p.LastError = strings.TrimSpace(r.PayoutError.Code + ": " + r.PayoutError.Message)
	}
}

func applyBatchResult(b *domain.PayoutBatch, r *gateways.PayoutBatch) {
	if r.ID != "" {
		id := r.ID
		b.WaveBatchID = &id
	}
	if r.Status != "" {
		b.Status = strings.ToLower(r.Status)
	}
	byRef := make(map[string]*gateways.PayoutResult, len(r.Payouts))
	for i := range r.Payouts {
		byRef[r.Payouts[i].ClientReference] = &r.Payouts[i]
	}
	for i := range b.Payouts {
		if res, ok := byRef[b.Payouts[i].PayoutID]; ok {
			applyPayoutResult(&b.Payouts[i], res)
		}
	}
}

// --- balance and transactions ---

func (s *waveService) GetBalance(ctx context.Context, userID string) (*gateways.Balance, error) {
	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	balance, err := s.client.GetBalance(ctx, key)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch Wave balance")
		return nil, upstream("Wave balance unavailable", err)
	}
	return balance, nil
}

func (s *waveService) ListTransactions(ctx context.Context, userID string, date time.Time, after string) (*gateways.TransactionPage, map[string]domain.WaveTransactionAssignment, error) {
	key, err := s.apiKey(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if date.IsZero() {
		date = s.now()
	}
	page, err := s.client.ListTransactions(ctx, key, date, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list Wave transactions")
		return nil, nil, upstream("Wave transactions unavailable", err)
	}

	ids := make([]string, len(page.Items))
	for i, t := range page.Items {
		ids[i] = t.TransactionID
	}
	assigned := map[string]domain.WaveTransactionAssignment{}
	if len(ids) > 0 {
		assigned, err = s.repos.Assignments.FindAssignmentsByTransactionIDs(ctx, userID, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to load transaction assignments")
			return nil, nil, err
		}
	}
	return page, assigned, nil
}

// --- assignments ---

func (s *waveService) CreateAssignment(ctx context.Context, userID string, req dto.CreateAssignmentRequest) (*domain.WaveTransactionAssignment, error) {
	if !req.Amount.IsPositive() {
		return nil, validationf("amount must be positive")
	}
	a := domain.WaveTransactionAssignment{
		AssignmentID:  uuid.NewString(),
		UserID:        userID,
		TransactionID: strings.TrimSpace(req.TransactionID),
		Type:          domain.AssignmentType(req.Type),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Note:          req.Note,
		CreatedAt:     s.now(),
	}
	if a.Currency == "" {
		a.Currency = domain.DefaultCurrency
	}

	var paidAt *time.Time
	var invoice *domain.Invoice
	switch a.Type {
	case domain.AssignmentRevenue:
		if req.InvoiceID == nil || req.ExpenseID != nil {
			return nil, validationf("revenue assignments need an invoiceId and no expenseId")
		}
		inv, err := s.repos.Invoices.FindInvoiceByID(ctx, userID, *req.InvoiceID)
		if err != nil {
			s.LogUnexpected(ctx, err, "Failed to find invoice", slog.String("invoice_id", *req.InvoiceID))
			return nil, err
		}
		if inv.Status == domain.InvoiceCancelled || inv.Status == domain.InvoiceConverted {
			return nil, fmt.Errorf("%w: invoice is %s", apperrors.ErrConflict, strings.ToLower(string(inv.Status)))
		}
		if inv.Status.IsPayable() {
			now := a.CreatedAt
			paidAt = &now
		}
		a.InvoiceID = req.InvoiceID
		invoice = inv
	case domain.AssignmentExpense:
		if req.ExpenseID == nil || req.InvoiceID != nil {
			return nil, validationf("expense assignments need an expenseId and no invoiceId")
		}
		if _, err := s.repos.Expenses.FindExpenseByID(ctx, userID, *req.ExpenseID); err != nil {
			s.LogUnexpected(ctx, err, "Failed to find expense", slog.String("expense_id", *req.ExpenseID))
			return nil, err
		}
		a.ExpenseID = req.ExpenseID
	default:
		return nil, validationf("unknown assignment type %q", req.Type)
	}

	if err := s.repos.Assignments.CreateAssignment(ctx, a, paidAt); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction %s is already assigned", apperrors.ErrDuplicate, a.TransactionID)
		}
		s.LogUnexpected(ctx, err, "Failed to create assignment", slog.String("transaction_id", a.TransactionID))
		return nil, err
	}

	if paidAt != nil && invoice != nil {
		s.RecordActivity(ctx, userID, domain.EntityInvoice, invoice.InvoiceID, domain.ActionStatusChanged,
			fmt.Sprintf("%s marked paid from Wave transaction %s", invoice.Number, a.TransactionID))
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:     userID,
			Type:       domain.NotificationInvoicePaid,
			Title:      "Invoice paid",
			Message:    fmt.Sprintf("Invoice %s was matched to Wave transaction %s.", invoice.Number, a.TransactionID),
			EntityType: domain.EntityInvoice,
			EntityID:   invoice.InvoiceID,
		})
		if s.stats != nil {
			s.stats.Invalidate(ctx, userID, paidAt.Year())
		}
	}
	return &a, nil
}

func (s *waveService) ListAssignments(ctx context.Context, userID string, params domain.ListParams) ([]domain.WaveTransactionAssignment, error) {
	items, err := s.repos.Assignments.ListAssignments(ctx, userID, params.Normalize())
	if err != nil {
		s.LogError(ctx, err, "Failed to list assignments")
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	if items == nil {
		return []domain.WaveTransactionAssignment{}, nil
	}
	return items, nil
}

func (s *waveService) DeleteAssignment(ctx context.Context, userID, assignmentID string) error {
	if err := s.repos.Assignments.DeleteAssignment(ctx, userID, assignmentID); err != nil {
		s.LogUnexpected(ctx, err, "Failed to delete assignment", slog.String("assignment_id", assignmentID))
		return err
	}
	return nil
}
