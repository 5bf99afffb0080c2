package jobs

import (
	"context"
	"time"

	portssvc "github.com/kevkotuto/freelance_backend/internal/core/ports/services"
)

// SubscriptionRenewer materialises due subscription renewals.
type SubscriptionRenewer interface {
	RenewDueSubscriptions(ctx context.Context, now time.Time) (int, error)
}

// DefaultJobs builds the three daily jobs.
func DefaultJobs(invoices portssvc.InvoiceJobsSvc, expenses SubscriptionRenewer, projects portssvc.ProjectJobsSvc) []Job {
	return []Job{
		{
			Name:     SubscriptionRenewals,
			Schedule: "0 5 * * *",
			Run:      expenses.RenewDueSubscriptions,
		},
		{
			Name:     OverdueInvoices,
			Schedule: "0 6 * * *",
			Run:      invoices.MarkOverdueInvoices,
		},
		{
			Name:     ProjectDeadlines,
			Schedule: "0 7 * * *",
			Run: func(ctx context.Context, now time.Time) (int, error) {
				return projects.NotifyUpcomingDeadlines(ctx, now, deadlineWindow)
			},
		},
	}
}
