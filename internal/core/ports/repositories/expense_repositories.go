package repositories

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// ExpenseReader defines read operations for expenses
type ExpenseReader interface {
	FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error)
	// ListDueSubscriptions returns active subscriptions of every user billed on or before now.
	ListDueSubscriptions(ctx context.Context, now time.Time) ([]domain.Expense, error)
}

// ExpenseWriter defines write operations for expenses
type ExpenseWriter interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, userID, expenseID string) error
	// RenewSubscription inserts the renewal expense and advances the parent's
	// next billing date in one transaction.
	RenewSubscription(ctx context.Context, parent domain.Expense, renewal domain.Expense) error
}

// ExpenseRepositoryFacade combines all expense-related repository interfaces
type ExpenseRepositoryFacade interface {
	ExpenseReader
	ExpenseWriter
}
