package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/integrations/wave"
	"github.com/kevkotuto/freelance_backend/internal/observability"
	"github.com/kevkotuto/freelance_backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

type waveWebhookService struct {
	BaseService
	settingsRepo portsrepo.WaveSettingsRepository
	inboxRepo    portsrepo.WebhookInboxRepository
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	payoutRepo   portsrepo.PayoutRepository
	stats        statsInvalidator
	tolerance    time.Duration
	now          func() time.Time
}

// WaveWebhookDeps groups the collaborators of the webhook service.
type WaveWebhookDeps struct {
	Settings   portsrepo.WaveSettingsRepository
	Inbox      portsrepo.WebhookInboxRepository
	Invoices   portsrepo.InvoiceRepositoryFacade
	Payouts    portsrepo.PayoutRepository
	Notifier   portssvc.NotifierSvc
	Activities portssvc.ActivityRecorderSvc
	Stats      statsInvalidator
	Tolerance  time.Duration
}

// NewWaveWebhookService creates the webhook receiver and processor.
func NewWaveWebhookService(deps WaveWebhookDeps) portssvc.WaveWebhookSvcFacade {
	svc := &waveWebhookService{
		settingsRepo: deps.Settings,
		inboxRepo:    deps.Inbox,
		invoiceRepo:  deps.Invoices,
		payoutRepo:   deps.Payouts,
		stats:        deps.Stats,
		tolerance:    deps.Tolerance,
		now:          time.Now,
	}
	svc.Notifier = deps.Notifier
	svc.Activities = deps.Activities
	if svc.tolerance <= 0 {
		svc.tolerance = 5 * time.Minute
	}
	return svc
}

var _ portssvc.WaveWebhookSvcFacade = (*waveWebhookService)(nil)

func (s *waveWebhookService) Receive(ctx context.Context, header http.Header, body []byte) (*domain.WebhookEvent, bool, error) {
	sig, err := wave.ParseSignature(header.Get(wave.SignatureHeader))
	if err != nil {
		observability.RecordWebhookEvent("unknown", "rejected")
		return nil, false, err
	}
	if err := sig.CheckTimestamp(s.now(), s.tolerance); err != nil {
		observability.RecordWebhookEvent("unknown", "rejected")
		return nil, false, err
	}

	candidates, err := s.settingsRepo.ListWebhookSecrets(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load webhook secrets")
		return nil, false, err
	}
	userID := ""
	for _, c := range candidates {
		if c.WebhookSecret != "" && sig.Matches(c.WebhookSecret, body) {
			userID = c.UserID
			break
		}
	}
	if userID == "" {
		observability.RecordWebhookEvent("unknown", "rejected")
		return nil, false, fmt.Errorf("%w: no matching webhook secret", apperrors.ErrInvalidSignature)
	}

	if !gjson.ValidBytes(body) {
		observability.RecordWebhookEvent("unknown", "invalid")
		return nil, false, validationf("webhook body is not valid JSON")
	}
	eventID := gjson.GetBytes(body, "id").String()
	eventType := gjson.GetBytes(body, "type").String()
	if eventID == "" || eventType == "" {
		observability.RecordWebhookEvent("unknown", "invalid")
		return nil, false, validationf("webhook body needs id and type")
	}

	event := domain.WebhookEvent{
		EventID:    eventID,
		UserID:     userID,
		EventType:  eventType,
		Payload:    body,
		Status:     domain.WebhookPending,
		ReceivedAt: s.now(),
	}
	inserted, err := s.inboxRepo.InsertWebhookEvent(ctx, event)
	if err != nil {
		s.LogError(ctx, err, "Failed to store webhook event", slog.String("event_id", eventID))
		return nil, false, err
	}
	if !inserted {
		observability.RecordWebhookEvent(eventType, "duplicate")
		s.LogInfo(ctx, "Duplicate webhook ignored", slog.String("event_id", eventID))
		return &event, true, nil
	}
	observability.RecordWebhookEvent(eventType, "received")
	s.LogInfo(ctx, "Webhook received", slog.String("event_id", eventID), slog.String("type", eventType), slog.String("user_id", userID))
	return &event, false, nil
}

func (s *waveWebhookService) ProcessEvent(ctx context.Context, event domain.WebhookEvent) error {
	data := gjson.GetBytes(event.Payload, "data")
	logger := s.GetLogger(ctx).With(slog.String("event_id", event.EventID), slog.String("type", event.EventType))

	var err error
	switch event.EventType {
	case domain.WaveCheckoutCompleted:
		err = s.checkoutCompleted(ctx, event, data)
	case domain.WaveCheckoutPaymentFailed:
		reason := data.Get("last_payment_error.message").String()
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:     event.UserID,
			Type:       domain.NotificationPaymentFailed,
			Title:      "Checkout payment failed",
			Message:    joinNonEmpty("A Wave checkout payment failed.", reason),
			EntityType: domain.EntityInvoice,
			EntityID:   data.Get("client_reference").String(),
		})
	case domain.WaveMerchantPaymentRecv, domain.WaveB2BPaymentReceived:
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:  event.UserID,
			Type:    domain.NotificationPaymentReceived,
			Title:   "Payment received",
			Message: fmt.Sprintf("You received %s on Wave%s.", amountOf(data), fromWhom(data)),
		})
	case domain.WaveB2BPaymentFailed:
		s.Notify(ctx, portssvc.NotifyInput{
			UserID:  event.UserID,
			Type:    domain.NotificationPaymentFailed,
			Title:   "Payment failed",
			Message: joinNonEmpty(fmt.Sprintf("A Wave payment of %s failed.", amountOf(data)), data.Get("payment_error.message").String()),
		})
	case domain.WavePayoutSucceeded, domain.WavePayoutCompleted:
		err = s.payoutChanged(ctx, event, data, domain.PayoutSucceeded)
	case domain.WavePayoutFailed:
		err = s.payoutChanged(ctx, event, data, domain.PayoutFailed)
	case domain.WavePayoutReversed:
		err = s.payoutChanged(ctx, event, data, domain.PayoutReversed)
	default:
		logger.Info("Ignoring unknown Wave event type")
	}
	if err != nil {
		observability.RecordWebhookEvent(event.EventType, "failed")
		return err
	}
	observability.RecordWebhookEvent(event.EventType, "processed")
	return nil
}

func (s *waveWebhookService) checkoutCompleted(ctx context.Context, event domain.WebhookEvent, data gjson.Result) error {
	reference := data.Get("client_reference").String()
	checkoutID := data.Get("id").String()

	var inv *domain.Invoice
	var err error
	if reference != "" {
		inv, err = s.invoiceRepo.FindInvoiceByID(ctx, event.UserID, reference)
	}
	if (inv == nil || isNotFound(err)) && checkoutID != "" {
		inv, err = s.invoiceRepo.FindInvoiceByCheckoutID(ctx, event.UserID, checkoutID)
	}
	if err != nil || inv == nil {
		if err == nil || isNotFound(err) {
			s.LogInfo(ctx, "Checkout completed for an unknown invoice",
				slog.String("client_reference", reference), slog.String("checkout_id", checkoutID))
			return nil
		}
		return err
	}

	paidAt := s.now()
	if ts := data.Get("when_completed"); ts.Exists() {
		if t, perr := time.Parse(time.RFC3339, ts.String()); perr == nil {
			paidAt = t
		}
	}
	err = s.invoiceRepo.UpdateInvoiceStatus(ctx, inv.UserID, inv.InvoiceID,
		[]domain.InvoiceStatus{domain.InvoicePending, domain.InvoiceOverdue}, domain.InvoicePaid, &paidAt)
	if errors.Is(err, apperrors.ErrConflict) {
		s.LogInfo(ctx, "Invoice already settled", slog.String("invoice_id", inv.InvoiceID), slog.String("status", string(inv.Status)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to mark invoice %s paid: %w", inv.InvoiceID, err)
	}

	s.RecordActivity(ctx, inv.UserID, domain.EntityInvoice, inv.InvoiceID, domain.ActionStatusChanged,
		fmt.Sprintf("%s paid through Wave checkout", inv.Number))
	s.Notify(ctx, portssvc.NotifyInput{
		UserID:     inv.UserID,
		Type:       domain.NotificationInvoicePaid,
		Title:      "Invoice paid",
		Message:    fmt.Sprintf("Invoice %s was paid with Wave (%s).", inv.Number, utils.FormatMoney(inv.Total, inv.Currency)),
		EntityType: domain.EntityInvoice,
		EntityID:   inv.InvoiceID,
		Email:      true,
	})
	if s.stats != nil {
		s.stats.Invalidate(ctx, inv.UserID, paidAt.Year())
	}
	return nil
}

func (s *waveWebhookService) payoutChanged(ctx context.Context, event domain.WebhookEvent, data gjson.Result, status domain.PayoutStatus) error {
	waveID := data.Get("id").String()
	reference := data.Get("client_reference").String()

	var payout *domain.Payout
	var err error
	if waveID != "" {
		payout, err = s.payoutRepo.FindPayoutByWaveID(ctx, event.UserID, waveID)
	}
	if (payout == nil || isNotFound(err)) && reference != "" {
		payout, err = s.payoutRepo.FindPayoutByID(ctx, event.UserID, reference)
	}
	if err != nil || payout == nil {
		if err == nil || isNotFound(err) {
			s.LogInfo(ctx, "Payout event for an unknown payout", slog.String("wave_payout_id", waveID))
			return nil
		}
		return err
	}
	if payout.Status == status {
		return nil
	}

	payout.Status = status
	if waveID != "" && payout.WavePayoutID == nil {
		payout.WavePayoutID = &waveID
	}
	if fee := data.Get("fee"); fee.Exists() {
		if d, perr := decimal.NewFromString(fee.String()); perr == nil {
			payout.Fee = decimal.NewNullDecimal(d)
		}
	}
	if msg := data.Get("payout_error.error_message").String(); msg != "" {
		payout.LastError = msg
	}
	payout.LastUpdatedAt = s.now()
	if err := s.payoutRepo.UpdatePayout(ctx, *payout); err != nil {
		return fmt.Errorf("failed to update payout %s: %w", payout.PayoutID, err)
	}

	if in, ok := payoutNotice(*payout); ok {
		s.Notify(ctx, in)
	}
	s.RecordActivity(ctx, payout.UserID, domain.EntityPayout, payout.PayoutID, domain.ActionStatusChanged,
		fmt.Sprintf("Payout to %s is now %s", payout.Mobile, status))
	return nil
}

func amountOf(data gjson.Result) string {
	amount, err := decimal.NewFromString(data.Get("amount").String())
	if err != nil {
		return data.Get("amount").String() + " " + data.Get("currency").String()
	}
	return utils.FormatMoney(amount, data.Get("currency").String())
}

func fromWhom(data gjson.Result) string {
	for _, path := range []string{"sender_name", "counterparty_name", "sender_mobile", "counterparty_mobile"} {
		if v := data.Get(path).String(); v != "" {
			return " from " + v
		}
	}
	return ""
}

func joinNonEmpty(head, tail string) string {
	if tail == "" {
		return head
	}
	return head + " " + tail
}

