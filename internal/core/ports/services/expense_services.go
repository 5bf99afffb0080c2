package services

import (
	"context"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/kevkotuto/freelance_backend/internal/dto"
)

// ExpenseSvcFacade manages expenses and subscriptions.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, userID string, req dto.CreateExpenseRequest) (*domain.Expense, error)
	GetExpense(ctx context.Context, userID, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID string, req dto.UpdateExpenseRequest) (*domain.Expense, error)
	SetSubscriptionActive(ctx context.Context, userID, expenseID string, active bool) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID string) error
	// RenewDueSubscriptions materialises every due subscription and returns how many renewals were created.
	RenewDueSubscriptions(ctx context.Context, now time.Time) (int, error)
}
