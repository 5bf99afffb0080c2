package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExpenseCategory string

const (
	CategorySoftware  ExpenseCategory = "SOFTWARE"
	CategoryHardware  ExpenseCategory = "HARDWARE"
	CategoryTravel    ExpenseCategory = "TRAVEL"
	CategoryOffice    ExpenseCategory = "OFFICE"
	CategoryMarketing ExpenseCategory = "MARKETING"
	CategoryServices  ExpenseCategory = "SERVICES"
	CategoryTaxes     ExpenseCategory = "TAXES"
	CategoryOther     ExpenseCategory = "OTHER"
)

type BillingCycle string

const (
	CycleMonthly   BillingCycle = "MONTHLY"
	CycleQuarterly BillingCycle = "QUARTERLY"
	CycleYearly    BillingCycle = "YEARLY"
)

// Months returns the cycle length in months.
func (c BillingCycle) Months() int {
	switch c {
	case CycleQuarterly:
		return 3
	case CycleYearly:
		return 12
	default:
		return 1
	}
}

// Expense is money spent. Subscriptions recur and spawn child expenses on renewal.
type Expense struct {
	ExpenseID          string
	UserID             string
	ProjectID          *string
	Category           ExpenseCategory
	Description        string
	Vendor             string
	Amount             decimal.Decimal
	Currency           string
	ExpenseDate        time.Time
	IsSubscription     bool
	BillingCycle       *BillingCycle
	NextBillingDate    *time.Time
	BillingAnchorDay   int // day of month renewals aim for; 0 falls back to NextBillingDate's day
	SubscriptionActive bool
	ParentExpenseID    *string
	AuditFields
}

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Category *ExpenseCategory
	DateRange
	ListParams
}

// AddBillingCycle advances date by one cycle, clamping to the last day of the
// target month (Jan 31 + 1 month = Feb 28/29).
func AddBillingCycle(date time.Time, cycle BillingCycle) time.Time {
	return AddBillingCycleAnchored(date, cycle, date.Day())
}

// AddBillingCycleAnchored advances date by one cycle and lands on anchorDay,
// clamped to the target month, so Jan 31 renews Feb 28 then Mar 31.
func AddBillingCycleAnchored(date time.Time, cycle BillingCycle, anchorDay int) time.Time {
	if anchorDay < 1 || anchorDay > 31 {
		anchorDay = date.Day()
	}
	y, m, _ := date.Date()
	target := time.Date(y, m+time.Month(cycle.Months()), 1, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
	d := anchorDay
	if last := daysIn(target.Year(), target.Month(), date.Location()); d > last {
		d = last
	}
	return time.Date(target.Year(), target.Month(), d, date.Hour(), date.Minute(), date.Second(), date.Nanosecond(), date.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Renew builds the concrete expense for the current billing date and advances
// the subscription's next billing date. It returns false when nothing is due.
func (e *Expense) Renew(now time.Time, newID string) (Expense, bool) {
	if !e.IsSubscription || !e.SubscriptionActive || e.NextBillingDate == nil || e.BillingCycle == nil {
		return Expense{}, false
	}
	if e.NextBillingDate.After(now) {
		return Expense{}, false
	}
	parentID := e.ExpenseID
	child := Expense{
		ExpenseID:       newID,
		UserID:          e.UserID,
		ProjectID:       e.ProjectID,
		Category:        e.Category,
		Description:     e.Description,
		Vendor:          e.Vendor,
		Amount:          e.Amount,
		Currency:        e.Currency,
		ExpenseDate:     *e.NextBillingDate,
		ParentExpenseID: &parentID,
		AuditFields:     AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	next := AddBillingCycleAnchored(*e.NextBillingDate, *e.BillingCycle, e.BillingAnchorDay)
	e.NextBillingDate = &next
	e.LastUpdatedAt = now
	return child, true
}
