package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/kevkotuto/freelance_backend/internal/utils"
)

const assistantOverdueLimit = 5

type assistantService struct {
	BaseService
	completer   gateways.ChatCompleter
	dashboard   portssvc.DashboardSvcFacade
	invoiceRepo portsrepo.InvoiceReader
	timeEntries portssvc.TimeEntrySvcFacade
	company     portssvc.CompanySettingsSvcFacade
	now         func() time.Time
}

// NewAssistantService creates the AI assistant service.
func NewAssistantService(
	completer gateways.ChatCompleter,
	dashboard portssvc.DashboardSvcFacade,
	invoiceRepo portsrepo.InvoiceReader,
	timeEntries portssvc.TimeEntrySvcFacade,
	company portssvc.CompanySettingsSvcFacade,
) portssvc.AssistantSvcFacade {
	return &assistantService{
		completer:   completer,
		dashboard:   dashboard,
		invoiceRepo: invoiceRepo,
		timeEntries: timeEntries,
		company:     company,
		now:         time.Now,
	}
}

var _ portssvc.AssistantSvcFacade = (*assistantService)(nil)

func (s *assistantService) Chat(ctx context.Context, userID string, req dto.ChatRequest) (string, error) {
	if s.completer == nil || !s.completer.Enabled() {
		return "", fmt.Errorf("%w: assistant is not configured", apperrors.ErrUnavailable)
	}

	prompt, err := s.systemPrompt(ctx, userID)
	if err != nil {
		return "", err
	}
	messages := make([]domain.ChatMessage, 0, len(req.Messages)+1)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: prompt})
	messages = append(messages, dto.ToDomainMessages(req.Messages)...)

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.LogError(ctx, err, "Assistant completion failed")
		if errors.Is(err, apperrors.ErrUpstream) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", apperrors.NewBadGatewayError("Assistant is temporarily unavailable", err)
	}
	s.LogInfo(ctx, "Assistant replied", slog.Int("turns", len(req.Messages)))
	return strings.TrimSpace(reply), nil
}

// systemPrompt summarises the user's business for the model.
func (s *assistantService) systemPrompt(ctx context.Context, userID string) (string, error) {
	now := s.now()
	settings, err := s.company.GetSettings(ctx, userID)
	if err != nil {
		return "", err
	}
	stats, err := s.dashboard.GetStats(ctx, userID, now.Year())
	if err != nil {
		return "", err
	}
	overdueStatus := domain.InvoiceOverdue
	overdue, err := s.invoiceRepo.ListInvoices(ctx, userID, domain.InvoiceFilter{
		Status:     &overdueStatus,
		ListParams: domain.ListParams{Limit: assistantOverdueLimit},
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to load overdue invoices for assistant")
		return "", err
	}
	running, err := s.timeEntries.RunningTimer(ctx, userID)
	if err != nil {
		return "", err
	}

	cur := settings.DefaultCurrency
	var b strings.Builder
	b.WriteString("You are a concise business assistant for a freelancer. ")
	b.WriteString("Answer using the figures below; say so when the data does not cover a question.\n\n")
	fmt.Fprintf(&b, "Today: %s\n", now.Format("2006-01-02"))
	if settings.CompanyName != "" {
		fmt.Fprintf(&b, "Business: %s\n", settings.CompanyName)
	}
	fmt.Fprintf(&b, "Year %d: revenue %s, expenses %s, profit %s, outstanding %s.\n",
		stats.Year,
		utils.FormatMoney(stats.Revenue, cur),
		utils.FormatMoney(stats.Expenses, cur),
		utils.FormatMoney(stats.Profit, cur),
		utils.FormatMoney(stats.Outstanding, cur))
	fmt.Fprintf(&b, "Overdue invoices: %d. Active projects: %d. Tracked hours: %s.\n",
		stats.OverdueCount, stats.ActiveProjects, stats.TrackedHours.StringFixed(1))
	for _, inv := range overdue {
		fmt.Fprintf(&b, "- %s: %s due %s\n", inv.Number, utils.FormatMoney(inv.Total, inv.Currency), inv.DueDate.Format("2006-01-02"))
	}
	if len(stats.TopClients) > 0 {
		b.WriteString("Top clients:")
		for _, c := range stats.TopClients {
			fmt.Fprintf(&b, " %s (%s);", c.Name, utils.FormatMoney(c.Revenue, cur))
		}
		b.WriteString("\n")
	}
	if running != nil {
		minutes := running.DurationSeconds(now) / 60
		fmt.Fprintf(&b, "A timer is running for %d minutes", minutes)
		if running.Description != "" {
			fmt.Fprintf(&b, " (%s)", running.Description)
		}
		b.WriteString(".\n")
	} else {
		b.WriteString("No timer is running.\n")
	}
	return b.String(), nil
}
