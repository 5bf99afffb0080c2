package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	UserRepo         UserRepositoryFacade
	CompanyRepo      CompanySettingsRepository
	ClientRepo       ClientRepositoryFacade
	ProjectRepo      ProjectRepositoryFacade
	TaskRepo         TaskRepositoryFacade
	TagRepo          TagRepositoryFacade
	TimeEntryRepo    TimeEntryRepositoryFacade
	InvoiceRepo      InvoiceRepositoryFacade
	ExpenseRepo      ExpenseRepositoryFacade
	NotificationRepo NotificationRepositoryFacade
	EmailOutboxRepo  EmailOutboxRepository
	ActivityRepo     ActivityRepository
	FileRepo         FileRepository
	DashboardRepo    DashboardRepository
	WaveSettingsRepo WaveSettingsRepository
	PayoutRepo       PayoutRepository
	AssignmentRepo   AssignmentRepository
	WebhookInboxRepo WebhookInboxRepository
}
