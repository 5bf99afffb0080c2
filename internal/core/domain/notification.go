package domain

import "time"

type NotificationType string

const (
	NotificationInvoicePaid         NotificationType = "INVOICE_PAID"
	NotificationInvoiceOverdue      NotificationType = "INVOICE_OVERDUE"
	NotificationPaymentReceived     NotificationType = "PAYMENT_RECEIVED"
	NotificationPaymentFailed       NotificationType = "PAYMENT_FAILED"
	NotificationPayoutSucceeded     NotificationType = "PAYOUT_SUCCEEDED"
	NotificationPayoutFailed        NotificationType = "PAYOUT_FAILED"
	NotificationSubscriptionRenewed NotificationType = "SUBSCRIPTION_RENEWED"
	NotificationProjectDeadline     NotificationType = "PROJECT_DEADLINE"
	NotificationSystem              NotificationType = "SYSTEM"
)

// Notification is an in-app message for a user.
type Notification struct {
	NotificationID string
	UserID         string
	Type           NotificationType
	Title          string
	Message        string
	EntityType     string
	EntityID       string
	ReadAt         *time.Time
	CreatedAt      time.Time
}

// EmailStatus tracks an outbound email in the outbox.
type EmailStatus string

const (
	EmailPending EmailStatus = "PENDING"
	EmailSent    EmailStatus = "SENT"
	EmailFailed  EmailStatus = "FAILED"
)

// EmailMessage is a queued outbound email.
type EmailMessage struct {
	EmailID   string
	UserID    string
	ToAddress string
	Subject   string
	Body      string
	Status    EmailStatus
	Attempts  int
	LastError string
	CreatedAt time.Time
	SentAt    *time.Time
}
