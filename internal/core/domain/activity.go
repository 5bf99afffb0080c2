package domain

import "time"

// Activity is an append-only feed entry describing a change to an entity.
type Activity struct {
	ActivityID  string
	UserID      string
	EntityType  string
	EntityID    string
	Action      string
	Description string
	CreatedAt   time.Time
}

const (
	EntityClient  = "CLIENT"
	EntityProject = "PROJECT"
	EntityTask    = "TASK"
	EntityInvoice = "INVOICE"
	EntityExpense = "EXPENSE"
	EntityPayout  = "PAYOUT"
	EntityFile    = "FILE"
)

const (
	ActionCreated       = "CREATED"
	ActionUpdated       = "UPDATED"
	ActionDeleted       = "DELETED"
	ActionStatusChanged = "STATUS_CHANGED"
)
