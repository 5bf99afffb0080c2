package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/apperrors"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

const expenseSelect = `
SELECT x.expense_id, x.user_id, x.project_id, x.category, x.description, x.vendor, x.amount, x.currency,
	x.expense_date, x.is_subscription, x.billing_cycle, x.next_billing_date, x.billing_anchor_day, x.subscription_active,
	x.parent_expense_id, x.created_at, x.last_updated_at
FROM expenses x
`

func scanExpense(row pgx.Row) (domain.Expense, error) {
	var e domain.Expense
	var anchor *int16
	err := row.Scan(&e.ExpenseID, &e.UserID, &e.ProjectID, &e.Category, &e.Description, &e.Vendor, &e.Amount, &e.Currency,
		&e.ExpenseDate, &e.IsSubscription, &e.BillingCycle, &e.NextBillingDate, &anchor, &e.SubscriptionActive,
		&e.ParentExpenseID, &e.CreatedAt, &e.LastUpdatedAt)
	if anchor != nil {
		e.BillingAnchorDay = int(*anchor)
	}
	return e, err
}

func anchorDayArg(e domain.Expense) *int16 {
	if e.BillingAnchorDay < 1 {
		return nil
	}
	d := int16(e.BillingAnchorDay)
	return &d
}

func (r *PgxExpenseRepository) getExpenses(ctx context.Context, filterQuery string, args ...any) ([]domain.Expense, error) {
	rows, err := r.Pool.Query(ctx, expenseSelect+filterQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, userID, expenseID string) (*domain.Expense, error) {
	e, err := scanExpense(r.Pool.QueryRow(ctx, expenseSelect+`WHERE x.user_id = $1 AND x.expense_id = $2`, userID, expenseID))
	if err != nil {
		return nil, mapError(err, "find expense")
	}
	return &e, nil
}

func (r *PgxExpenseRepository) ListExpenses(ctx context.Context, userID string, filter domain.ExpenseFilter) ([]domain.Expense, error) {
	return r.getExpenses(ctx, `
		WHERE x.user_id = $1
			AND ($2::text IS NULL OR x.category = $2)
			AND ($3::date IS NULL OR x.expense_date >= $3)
			AND ($4::date IS NULL OR x.expense_date <= $4)
		ORDER BY x.expense_date DESC, x.created_at DESC
		LIMIT $5 OFFSET $6`,
		userID, filter.Category, filter.From, filter.To, filter.Limit, filter.Offset)
}

func (r *PgxExpenseRepository) ListDueSubscriptions(ctx context.Context, now time.Time) ([]domain.Expense, error) {
	return r.getExpenses(ctx, `
		WHERE x.is_subscription AND x.subscription_active AND x.next_billing_date <= $1::date
		ORDER BY x.next_billing_date`, now)
}

func insertExpense(ctx context.Context, q querier, e domain.Expense) error {
	_, err := q.Exec(ctx, `
		INSERT INTO expenses (expense_id, user_id, project_id, category, description, vendor, amount, currency,
			expense_date, is_subscription, billing_cycle, next_billing_date, billing_anchor_day, subscription_active,
			parent_expense_id, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		e.ExpenseID, e.UserID, e.ProjectID, e.Category, e.Description, e.Vendor, e.Amount, e.Currency,
		e.ExpenseDate, e.IsSubscription, e.BillingCycle, e.NextBillingDate, anchorDayArg(e), e.SubscriptionActive,
		e.ParentExpenseID, e.CreatedAt, e.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}
	return nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, e domain.Expense) error {
	return insertExpense(ctx, r.Pool, e)
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, e domain.Expense) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE expenses
		SET project_id = $1, category = $2, description = $3, vendor = $4, amount = $5, currency = $6,
			expense_date = $7, is_subscription = $8, billing_cycle = $9, next_billing_date = $10,
			billing_anchor_day = $11, subscription_active = $12, last_updated_at = $13
		WHERE user_id = $14 AND expense_id = $15;`,
		e.ProjectID, e.Category, e.Description, e.Vendor, e.Amount, e.Currency,
		e.ExpenseDate, e.IsSubscription, e.BillingCycle, e.NextBillingDate,
		anchorDayArg(e), e.SubscriptionActive, e.LastUpdatedAt, e.UserID, e.ExpenseID)
	return expectOne(tag, err, "update expense")
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE user_id = $1 AND expense_id = $2`, userID, expenseID)
	return expectOne(tag, err, "delete expense")
}

func (r *PgxExpenseRepository) RenewSubscription(ctx context.Context, parent domain.Expense, renewal domain.Expense) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		// The billing date guard keeps concurrent runs from renewing the same cycle twice.
		tag, err := tx.Exec(ctx, `
			UPDATE expenses SET next_billing_date = $1, last_updated_at = $2
			WHERE expense_id = $3 AND next_billing_date = $4::date AND subscription_active;`,
			parent.NextBillingDate, parent.LastUpdatedAt, parent.ExpenseID, renewal.ExpenseDate)
		if err != nil {
			return fmt.Errorf("failed to advance subscription: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}
		return insertExpense(ctx, tx, renewal)
	})
}
