package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	User               UserSvcFacade
	TokenService       TokenSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
	Company            CompanySettingsSvcFacade
	Client             ClientSvcFacade
	Project            ProjectSvcFacade
	Task               TaskSvcFacade
	Tag                TagSvcFacade
	TimeEntry          TimeEntrySvcFacade
	Invoice            InvoiceSvcFacade
	Expense            ExpenseSvcFacade
	Notification       NotificationSvcFacade
	Activity           ActivitySvcFacade
	File               FileSvcFacade
	Dashboard          DashboardSvcFacade
	Assistant          AssistantSvcFacade
	Wave               WaveSvcFacade
	WaveWebhook        WaveWebhookSvcFacade
}
