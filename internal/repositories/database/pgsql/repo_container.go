package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	notificationRepo := newPgxNotificationRepository(dbPool)
	waveRepo := newPgxWaveRepository(dbPool)

	return portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		CompanyRepo:      newPgxCompanyRepository(dbPool),
		ClientRepo:       newPgxClientRepository(dbPool),
		ProjectRepo:      newPgxProjectRepository(dbPool),
		TaskRepo:         newPgxTaskRepository(dbPool),
		TagRepo:          newPgxTagRepository(dbPool),
		TimeEntryRepo:    newPgxTimeEntryRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
		NotificationRepo: notificationRepo,
		EmailOutboxRepo:  notificationRepo,
		ActivityRepo:     newPgxActivityRepository(dbPool),
		FileRepo:         newPgxFileRepository(dbPool),
		DashboardRepo:    newPgxDashboardRepository(dbPool),
		WaveSettingsRepo: waveRepo,
		PayoutRepo:       waveRepo,
		AssignmentRepo:   waveRepo,
		WebhookInboxRepo: waveRepo,
	}
}
