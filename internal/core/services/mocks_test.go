package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/core/ports/gateways"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
	"github.com/kevkotuto/freelance_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock Client Repository ---

type MockClientRepository struct {
	mock.Mock
}

var _ portsrepo.ClientRepositoryFacade = (*MockClientRepository)(nil)

func (m *MockClientRepository) FindClientByID(ctx context.Context, userID, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, userID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Client), args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context, userID, search string, params domain.ListParams) ([]domain.Client, error) {
	args := m.Called(ctx, userID, search, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Client), args.Error(1)
}

func (m *MockClientRepository) GetClientTotals(ctx context.Context, userID, clientID string) (*domain.ClientTotals, error) {
	args := m.Called(ctx, userID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientTotals), args.Error(1)
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) UpdateClient(ctx context.Context, client domain.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) DeleteClient(ctx context.Context, userID, clientID string) error {
	return m.Called(ctx, userID, clientID).Error(0)
}

// --- Mock Project Repository ---

type MockProjectRepository struct {
	mock.Mock
}

var _ portsrepo.ProjectRepositoryFacade = (*MockProjectRepository)(nil)

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, userID string, filter domain.ProjectFilter) ([]domain.Project, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ProjectNames(ctx context.Context, userID string, projectIDs []string) (map[string]string, error) {
	args := m.Called(ctx, userID, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockProjectRepository) ListProjectsEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Project, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepository) UpdateProject(ctx context.Context, project domain.Project, replaceTags bool) error {
	return m.Called(ctx, project, replaceTags).Error(0)
}

func (m *MockProjectRepository) DeleteProject(ctx context.Context, userID, projectID string) error {
	return m.Called(ctx, userID, projectID).Error(0)
}

// --- Mock Tag Repository ---

type MockTagRepository struct {
	mock.Mock
}

var _ portsrepo.TagRepositoryFacade = (*MockTagRepository)(nil)

func (m *MockTagRepository) SaveTag(ctx context.Context, tag domain.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *MockTagRepository) FindTagByID(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	args := m.Called(ctx, userID, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *MockTagRepository) FindTagsByIDs(ctx context.Context, userID string, tagIDs []string) ([]domain.Tag, error) {
	args := m.Called(ctx, userID, tagIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) ListTags(ctx context.Context, userID string) ([]domain.Tag, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tag), args.Error(1)
}

func (m *MockTagRepository) UpdateTag(ctx context.Context, tag domain.Tag) error {
	return m.Called(ctx, tag).Error(0)
}

func (m *MockTagRepository) DeleteTag(ctx context.Context, userID, tagID string) error {
	return m.Called(ctx, userID, tagID).Error(0)
}

// --- Mock Company Settings Repository ---

type MockCompanySettingsRepository struct {
	mock.Mock
}

var _ portsrepo.CompanySettingsRepository = (*MockCompanySettingsRepository)(nil)

func (m *MockCompanySettingsRepository) FindCompanySettings(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

func (m *MockCompanySettingsRepository) UpsertCompanySettings(ctx context.Context, settings domain.CompanySettings) error {
	return m.Called(ctx, settings).Error(0)
}

// --- Mock Task Repository ---

type MockTaskRepository struct {
	mock.Mock
}

var _ portsrepo.TaskRepositoryFacade = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) SaveTask(ctx context.Context, task domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) FindTaskByID(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *MockTaskRepository) ListTasksByProject(ctx context.Context, userID, projectID string, params domain.ListParams) ([]domain.Task, error) {
	args := m.Called(ctx, userID, projectID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateTask(ctx context.Context, task domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *MockTaskRepository) DeleteTask(ctx context.Context, userID, taskID string) error {
	return m.Called(ctx, userID, taskID).Error(0)
}

// --- Mock Time Entry Repository ---

type MockTimeEntryRepository struct {
	mock.Mock
}

var _ portsrepo.TimeEntryRepositoryFacade = (*MockTimeEntryRepository)(nil)

func (m *MockTimeEntryRepository) SaveTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockTimeEntryRepository) FindTimeEntryByID(ctx context.Context, userID, entryID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, userID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) FindRunningTimeEntry(ctx context.Context, userID string) (*domain.TimeEntry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListTimeEntries(ctx context.Context, userID string, filter domain.TimeEntryFilter) ([]domain.TimeEntry, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) UpdateTimeEntry(ctx context.Context, entry domain.TimeEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockTimeEntryRepository) DeleteTimeEntry(ctx context.Context, userID, entryID string) error {
	return m.Called(ctx, userID, entryID).Error(0)
}

// --- Mock Invoice Repository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, userID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, userID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindInvoiceByCheckoutID(ctx context.Context, userID, checkoutID string) (*domain.Invoice, error) {
	args := m.Called(ctx, userID, checkoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, userID string, filter domain.InvoiceFilter) ([]domain.Invoice, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListPendingDueBefore(ctx context.Context, day time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CreateInvoice(ctx context.Context, invoice *domain.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoice(ctx context.Context, invoice domain.Invoice, replaceItems bool) error {
	return m.Called(ctx, invoice, replaceItems).Error(0)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, userID, invoiceID string, expected []domain.InvoiceStatus, status domain.InvoiceStatus, paidAt *time.Time) error {
	return m.Called(ctx, userID, invoiceID, expected, status, paidAt).Error(0)
}

func (m *MockInvoiceRepository) ConvertProforma(ctx context.Context, proformaID string, invoice *domain.Invoice) error {
	return m.Called(ctx, proformaID, invoice).Error(0)
}

func (m *MockInvoiceRepository) SetWaveCheckout(ctx context.Context, userID, invoiceID, checkoutID, launchURL string) error {
	return m.Called(ctx, userID, invoiceID, checkoutID, launchURL).Error(0)
}

func (m *MockInvoiceRepository) DeleteInvoice(ctx context.Context, userID, invoiceID string) error {
	return m.Called(ctx, userID, invoiceID).Error(0)
}

// --- Mock Expense Repository ---

type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, userID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListDueSubscriptions(ctx context.Context, now time.Time) ([]domain.Expense, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	return m.Called(ctx, expense).Error(0)
}

func (m *MockExpenseRepository) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	return m.Called(ctx, userID, expenseID).Error(0)
}

func (m *MockExpenseRepository) RenewSubscription(ctx context.Context, parent domain.Expense, renewal domain.Expense) error {
	return m.Called(ctx, parent, renewal).Error(0)
}

// --- Mock Notification Repositories ---

type MockNotificationRepository struct {
	mock.Mock
}

var _ portsrepo.NotificationRepositoryFacade = (*MockNotificationRepository)(nil)

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool, params domain.ListParams) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string, at time.Time) error {
	return m.Called(ctx, userID, notificationID, at).Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotificationRepository) ExistsSince(ctx context.Context, userID string, nType domain.NotificationType, entityID string, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, nType, entityID, since)
	return args.Bool(0), args.Error(1)
}

type MockEmailOutboxRepository struct {
	mock.Mock
}

var _ portsrepo.EmailOutboxRepository = (*MockEmailOutboxRepository)(nil)

func (m *MockEmailOutboxRepository) EnqueueEmail(ctx context.Context, msg domain.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockEmailOutboxRepository) ClaimPendingEmails(ctx context.Context, limit int) ([]domain.EmailMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EmailMessage), args.Error(1)
}

func (m *MockEmailOutboxRepository) MarkEmailSent(ctx context.Context, emailID string, at time.Time) error {
	return m.Called(ctx, emailID, at).Error(0)
}

func (m *MockEmailOutboxRepository) MarkEmailAttemptFailed(ctx context.Context, emailID, lastError string, maxAttempts int) error {
	return m.Called(ctx, emailID, lastError, maxAttempts).Error(0)
}

// --- Mock User Repository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// --- Mock Wave Repositories ---

type MockWaveSettingsRepository struct {
	mock.Mock
}

var _ portsrepo.WaveSettingsRepository = (*MockWaveSettingsRepository)(nil)

func (m *MockWaveSettingsRepository) FindWaveSettings(ctx context.Context, userID string) (*domain.WaveSettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WaveSettings), args.Error(1)
}

func (m *MockWaveSettingsRepository) UpsertWaveSettings(ctx context.Context, settings domain.WaveSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockWaveSettingsRepository) ListWebhookSecrets(ctx context.Context) ([]domain.WaveSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WaveSettings), args.Error(1)
}

type MockPayoutRepository struct {
	mock.Mock
}

var _ portsrepo.PayoutRepository = (*MockPayoutRepository)(nil)

func (m *MockPayoutRepository) SavePayout(ctx context.Context, payout domain.Payout) error {
	return m.Called(ctx, payout).Error(0)
}

func (m *MockPayoutRepository) FindPayoutByID(ctx context.Context, userID, payoutID string) (*domain.Payout, error) {
	args := m.Called(ctx, userID, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindPayoutByIdempotencyKey(ctx context.Context, userID, key string) (*domain.Payout, error) {
	args := m.Called(ctx, userID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) FindPayoutByWaveID(ctx context.Context, userID, wavePayoutID string) (*domain.Payout, error) {
	args := m.Called(ctx, userID, wavePayoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) ListPayouts(ctx context.Context, userID string, params domain.ListParams) ([]domain.Payout, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payout), args.Error(1)
}

func (m *MockPayoutRepository) UpdatePayout(ctx context.Context, payout domain.Payout) error {
	return m.Called(ctx, payout).Error(0)
}

func (m *MockPayoutRepository) SavePayoutBatch(ctx context.Context, batch domain.PayoutBatch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *MockPayoutRepository) FindPayoutBatchByID(ctx context.Context, userID, batchID string) (*domain.PayoutBatch, error) {
	args := m.Called(ctx, userID, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PayoutBatch), args.Error(1)
}

func (m *MockPayoutRepository) UpdatePayoutBatch(ctx context.Context, batch domain.PayoutBatch) error {
	return m.Called(ctx, batch).Error(0)
}

type MockAssignmentRepository struct {
	mock.Mock
}

var _ portsrepo.AssignmentRepository = (*MockAssignmentRepository)(nil)

func (m *MockAssignmentRepository) CreateAssignment(ctx context.Context, assignment domain.WaveTransactionAssignment, paidAt *time.Time) error {
	return m.Called(ctx, assignment, paidAt).Error(0)
}

func (m *MockAssignmentRepository) ListAssignments(ctx context.Context, userID string, params domain.ListParams) ([]domain.WaveTransactionAssignment, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WaveTransactionAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) FindAssignmentsByTransactionIDs(ctx context.Context, userID string, transactionIDs []string) (map[string]domain.WaveTransactionAssignment, error) {
	args := m.Called(ctx, userID, transactionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.WaveTransactionAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) DeleteAssignment(ctx context.Context, userID, assignmentID string) error {
	return m.Called(ctx, userID, assignmentID).Error(0)
}

type MockWebhookInboxRepository struct {
	mock.Mock
}

var _ portsrepo.WebhookInboxRepository = (*MockWebhookInboxRepository)(nil)

func (m *MockWebhookInboxRepository) InsertWebhookEvent(ctx context.Context, event domain.WebhookEvent) (bool, error) {
	args := m.Called(ctx, event)
	return args.Bool(0), args.Error(1)
}

func (m *MockWebhookInboxRepository) ClaimWebhookEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WebhookEvent), args.Error(1)
}

func (m *MockWebhookInboxRepository) MarkWebhookProcessed(ctx context.Context, eventID string, at time.Time) error {
	return m.Called(ctx, eventID, at).Error(0)
}

func (m *MockWebhookInboxRepository) MarkWebhookAttemptFailed(ctx context.Context, eventID, lastError string, maxAttempts int) error {
	return m.Called(ctx, eventID, lastError, maxAttempts).Error(0)
}

// --- Mock Services ---

type MockCompanySettingsService struct {
	mock.Mock
}

var _ portssvc.CompanySettingsSvcFacade = (*MockCompanySettingsService)(nil)

func (m *MockCompanySettingsService) GetSettings(ctx context.Context, userID string) (*domain.CompanySettings, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

func (m *MockCompanySettingsService) UpdateSettings(ctx context.Context, userID string, req dto.UpdateCompanySettingsRequest) (*domain.CompanySettings, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompanySettings), args.Error(1)
}

// MockNotifier records Notify calls; the listing methods are unused by the services under test.
type MockNotifier struct {
	mock.Mock
}

var _ portssvc.NotificationSvcFacade = (*MockNotifier)(nil)

func (m *MockNotifier) Notify(ctx context.Context, in portssvc.NotifyInput) (*domain.Notification, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotifier) ListNotifications(ctx context.Context, userID string, unreadOnly bool, params domain.ListParams) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, unreadOnly, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotifier) UnreadCount(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotifier) MarkRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotifier) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifier) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotifier) QueueEmail(ctx context.Context, userID, to, subject, body string) (bool, error) {
	args := m.Called(ctx, userID, to, subject, body)
	return args.Bool(0), args.Error(1)
}

type MockActivityRecorder struct {
	mock.Mock
}

var _ portssvc.ActivityRecorderSvc = (*MockActivityRecorder)(nil)

func (m *MockActivityRecorder) Record(ctx context.Context, userID, entityType, entityID, action, description string) {
	m.Called(ctx, userID, entityType, entityID, action, description)
}

type MockStatsInvalidator struct {
	mock.Mock
}

func (m *MockStatsInvalidator) Invalidate(ctx context.Context, userID string, years ...int) {
	m.Called(ctx, userID, years)
}

// --- Mock Gateways ---

type MockMailer struct {
	mock.Mock
}

var _ gateways.Mailer = (*MockMailer)(nil)

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

func (m *MockMailer) Enabled() bool {
	return m.Called().Bool(0)
}

type MockWaveClient struct {
	mock.Mock
}

var _ gateways.WaveClient = (*MockWaveClient)(nil)

func (m *MockWaveClient) CreateCheckoutSession(ctx context.Context, apiKey string, req gateways.CheckoutSessionRequest) (*gateways.CheckoutSession, error) {
	args := m.Called(ctx, apiKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.CheckoutSession), args.Error(1)
}

func (m *MockWaveClient) GetCheckoutSession(ctx context.Context, apiKey, sessionID string) (*gateways.CheckoutSession, error) {
	args := m.Called(ctx, apiKey, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.CheckoutSession), args.Error(1)
}

func (m *MockWaveClient) CreatePayout(ctx context.Context, apiKey, idempotencyKey string, req gateways.PayoutRequest) (*gateways.PayoutResult, error) {
	args := m.Called(ctx, apiKey, idempotencyKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.PayoutResult), args.Error(1)
}

func (m *MockWaveClient) GetPayout(ctx context.Context, apiKey, payoutID string) (*gateways.PayoutResult, error) {
	args := m.Called(ctx, apiKey, payoutID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.PayoutResult), args.Error(1)
}

func (m *MockWaveClient) CreatePayoutBatch(ctx context.Context, apiKey, idempotencyKey string, req gateways.PayoutBatchRequest) (*gateways.PayoutBatch, error) {
	args := m.Called(ctx, apiKey, idempotencyKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if fn, ok := args.Get(0).(func(context.Context, string, string, gateways.PayoutBatchRequest) *gateways.PayoutBatch); ok {
		return fn(ctx, apiKey, idempotencyKey, req), args.Error(1)
	}
	return args.Get(0).(*gateways.PayoutBatch), args.Error(1)
}

func (m *MockWaveClient) GetPayoutBatch(ctx context.Context, apiKey, batchID string) (*gateways.PayoutBatch, error) {
	args := m.Called(ctx, apiKey, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.PayoutBatch), args.Error(1)
}

func (m *MockWaveClient) GetBalance(ctx context.Context, apiKey string) (*gateways.Balance, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.Balance), args.Error(1)
}

func (m *MockWaveClient) ListTransactions(ctx context.Context, apiKey string, date time.Time, after string) (*gateways.TransactionPage, error) {
	args := m.Called(ctx, apiKey, date, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.TransactionPage), args.Error(1)
}

// assertErr stands in for an infrastructure failure.
var assertErr = errors.New("database unavailable")
