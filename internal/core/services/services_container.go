package services

import (
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/platform/config"
)

// Gateways groups the outbound adapters the services talk to.
type Gateways struct {
	Mailer    gateways.Mailer
	Storage   gateways.FileStorage
	Renderer  gateways.DocumentRenderer
	Cache     gateways.Cache
	Completer gateways.ChatCompleter
	Wave      gateways.WaveClient
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gw Gateways) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Cross-cutting services first; most others record activity or notify.
	container.User = NewUserService(repos.UserRepo)
	container.Company = NewCompanySettingsService(repos.CompanyRepo)
	container.Activity = NewActivityService(repos.ActivityRepo)
	container.Notification = NewNotificationService(repos.NotificationRepo, repos.EmailOutboxRepo, repos.UserRepo, gw.Mailer)
	container.Dashboard = NewDashboardService(repos.DashboardRepo, container.Company, gw.Cache, gw.Renderer, cfg.DashboardCacheTTL)

	container.Client = NewClientService(repos.ClientRepo, WithClientActivityRecorder(container.Activity))
	container.Project = NewProjectService(
		repos.ProjectRepo,
		repos.ClientRepo,
		repos.TagRepo,
		WithProjectActivityRecorder(container.Activity),
		WithProjectNotifier(container.Notification, repos.NotificationRepo),
	)
	container.Task = NewTaskService(repos.TaskRepo, repos.ProjectRepo)
	container.Tag = NewTagService(repos.TagRepo)
	container.TimeEntry = NewTimeEntryService(repos.TimeEntryRepo, repos.ProjectRepo, repos.TaskRepo)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		repos.ClientRepo,
		repos.ProjectRepo,
		container.Company,
		gw.Renderer,
		WithInvoiceActivityRecorder(container.Activity),
		WithInvoiceNotifications(container.Notification),
		WithInvoiceStatsInvalidator(container.Dashboard),
		WithInvoiceFrontendURL(cfg.FrontendBaseURL),
	)
	container.Expense = NewExpenseService(
		repos.ExpenseRepo,
		repos.ProjectRepo,
		WithExpenseActivityRecorder(container.Activity),
		WithExpenseNotifier(container.Notification),
		WithExpenseStatsInvalidator(container.Dashboard),
	)
	container.File = NewFileService(repos.FileRepo, repos.ProjectRepo, gw.Storage, cfg.MaxUploadBytes, container.Activity)
	container.Assistant = NewAssistantService(gw.Completer, container.Dashboard, repos.InvoiceRepo, container.TimeEntry, container.Company)

	container.Wave = NewWaveService(
		WaveRepositories{
			Settings:    repos.WaveSettingsRepo,
			Payouts:     repos.PayoutRepo,
			Assignments: repos.AssignmentRepo,
			Invoices:    repos.InvoiceRepo,
			Expenses:    repos.ExpenseRepo,
		},
		gw.Wave,
		WithWaveActivityRecorder(container.Activity),
		WithWaveNotifier(container.Notification),
		WithWaveStatsInvalidator(container.Dashboard),
		WithWaveFrontendURL(cfg.FrontendBaseURL),
	)
	container.WaveWebhook = NewWaveWebhookService(WaveWebhookDeps{
		Settings:   repos.WaveSettingsRepo,
		Inbox:      repos.WebhookInboxRepo,
		Invoices:   repos.InvoiceRepo,
		Payouts:    repos.PayoutRepo,
		Notifier:   container.Notification,
		Activities: container.Activity,
		Stats:      container.Dashboard,
		Tolerance:  cfg.WaveWebhookTolerance,
	})

	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
