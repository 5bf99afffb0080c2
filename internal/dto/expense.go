package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest defines the data needed to record an expense or subscription.
type CreateExpenseRequest struct {
	Category        string          `json:"category" binding:"required,oneof=SOFTWARE HARDWARE TRAVEL OFFICE MARKETING SERVICES TAXES OTHER"`
	Description     string          `json:"description" binding:"required,max=500"`
	Vendor          string          `json:"vendor" binding:"max=200"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	ExpenseDate     time.Time       `json:"expenseDate" binding:"required"`
	ProjectID       *string         `json:"projectId" binding:"omitempty,uuid"`
	IsSubscription  bool            `json:"isSubscription"`
	BillingCycle    *string         `json:"billingCycle" binding:"omitempty,oneof=MONTHLY QUARTERLY YEARLY"`
	NextBillingDate *time.Time      `json:"nextBillingDate"`
}

// UpdateExpenseRequest uses pointers for partial updates.
type UpdateExpenseRequest struct {
	Category        *string          `json:"category" binding:"omitempty,oneof=SOFTWARE HARDWARE TRAVEL OFFICE MARKETING SERVICES TAXES OTHER"`
	Description     *string          `json:"description" binding:"omitempty,min=1,max=500"`
	Vendor          *string          `json:"vendor" binding:"omitempty,max=200"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        *string          `json:"currency" binding:"omitempty,len=3,uppercase"`
	ExpenseDate     *time.Time       `json:"expenseDate"`
	ProjectID       *string          `json:"projectId" binding:"omitempty,uuid"`
	BillingCycle    *string          `json:"billingCycle" binding:"omitempty,oneof=MONTHLY QUARTERLY YEARLY"`
	NextBillingDate *time.Time       `json:"nextBillingDate"`
}

// SetSubscriptionActiveRequest pauses or resumes a subscription.
type SetSubscriptionActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// ListExpensesParams defines query parameters for listing expenses.
type ListExpensesParams struct {
	Category string     `form:"category" binding:"omitempty,oneof=SOFTWARE HARDWARE TRAVEL OFFICE MARKETING SERVICES TAXES OTHER"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	PageParams
}

// ExpenseResponse defines the data returned for an expense.
type ExpenseResponse struct {
	ExpenseID          string          `json:"id"`
	Category           string          `json:"category"`
	Description        string          `json:"description"`
	Vendor             string          `json:"vendor"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	ExpenseDate        time.Time       `json:"expenseDate"`
	ProjectID          *string         `json:"projectId"`
	IsSubscription     bool            `json:"isSubscription"`
	BillingCycle       *string         `json:"billingCycle"`
	NextBillingDate    *time.Time      `json:"nextBillingDate"`
	SubscriptionActive bool            `json:"subscriptionActive"`
	ParentExpenseID    *string         `json:"parentExpenseId"`
	CreatedAt          time.Time       `json:"createdAt"`
	LastUpdatedAt      time.Time       `json:"lastUpdatedAt"`
}

func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	res := ExpenseResponse{
		ExpenseID:          e.ExpenseID,
		Category:           string(e.Category),
		Description:        e.Description,
		Vendor:             e.Vendor,
		Amount:             e.Amount,
		Currency:           e.Currency,
		ExpenseDate:        e.ExpenseDate,
		ProjectID:          e.ProjectID,
		IsSubscription:     e.IsSubscription,
		NextBillingDate:    e.NextBillingDate,
		SubscriptionActive: e.SubscriptionActive,
		ParentExpenseID:    e.ParentExpenseID,
		CreatedAt:          e.CreatedAt,
		LastUpdatedAt:      e.LastUpdatedAt,
	}
	if e.BillingCycle != nil {
		c := string(*e.BillingCycle)
		res.BillingCycle = &c
	}
	return res
}

func ToListExpenseResponse(expenses []domain.Expense) []ExpenseResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = ToExpenseResponse(&expenses[i])
	}
	return res
}
