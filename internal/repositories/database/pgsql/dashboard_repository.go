package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	portsrepo "github.com/kevkotuto/freelance_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// dashboardRepository computes the analytics aggregates.
type dashboardRepository struct {
	BaseRepository
}

func newPgxDashboardRepository(db *pgxpool.Pool) portsrepo.DashboardRepository {
	return &dashboardRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.DashboardRepository = (*dashboardRepository)(nil)

// LoadDashboardStats retrieves every aggregate for the given year.
func (r *dashboardRepository) LoadDashboardStats(ctx context.Context, userID string, year int) (*domain.DashboardStats, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)
	stats := &domain.DashboardStats{Year: year}

	revenue, err := r.monthly(ctx, `
		SELECT EXTRACT(MONTH FROM paid_at)::int, SUM(total)
		FROM invoices
		WHERE user_id = $1 AND type = 'INVOICE' AND status = 'PAID' AND paid_at >= $2 AND paid_at < $3
		GROUP BY 1`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly revenue: %w", err)
	}
	expenses, err := r.monthly(ctx, `
		SELECT EXTRACT(MONTH FROM expense_date)::int, SUM(amount)
		FROM expenses
		WHERE user_id = $1 AND expense_date >= $2::date AND expense_date < $3::date
		GROUP BY 1`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying monthly expenses: %w", err)
	}
	stats.BuildMonthly(revenue, expenses)

	err = r.Pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE status IN ('PENDING', 'OVERDUE')), 0),
			COUNT(*) FILTER (WHERE status = 'OVERDUE')
		FROM invoices
		WHERE user_id = $1 AND type = 'INVOICE'`, userID).Scan(&stats.Outstanding, &stats.OverdueCount)
	if err != nil {
		return nil, fmt.Errorf("error querying outstanding invoices: %w", err)
	}

	err = r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM projects
		WHERE user_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')`, userID).Scan(&stats.ActiveProjects)
	if err != nil {
		return nil, fmt.Errorf("error counting active projects: %w", err)
	}

	var trackedSeconds int64
	err = r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(EXTRACT(EPOCH FROM (ended_at - started_at)))::bigint, 0)
		FROM time_entries
		WHERE user_id = $1 AND ended_at IS NOT NULL AND started_at >= $2 AND started_at < $3`,
		userID, from, to).Scan(&trackedSeconds)
	if err != nil {
		return nil, fmt.Errorf("error summing tracked time: %w", err)
	}
	stats.TrackedHours = decimal.NewFromInt(trackedSeconds).Div(decimal.NewFromInt(3600)).Round(2)

	if stats.TopClients, err = r.topClients(ctx, userID, from, to); err != nil {
		return nil, err
	}
	if stats.ExpensesByCategory, err = r.expensesByCategory(ctx, userID, from, to); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *dashboardRepository) monthly(ctx context.Context, query string, args ...any) ([]domain.MonthlyAmount, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MonthlyAmount
	for rows.Next() {
		var m domain.MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Amount); err != nil {
			return nil, fmt.Errorf("error scanning monthly row: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

func (r *dashboardRepository) topClients(ctx context.Context, userID string, from, to time.Time) ([]domain.ClientRevenue, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT c.client_id, c.name, SUM(i.total) AS revenue
		FROM invoices i
		JOIN clients c ON c.client_id = i.client_id
		WHERE i.user_id = $1 AND i.type = 'INVOICE' AND i.status = 'PAID' AND i.paid_at >= $2 AND i.paid_at < $3
		GROUP BY c.client_id, c.name
		ORDER BY revenue DESC
		LIMIT 5`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying top clients: %w", err)
	}
	defer rows.Close()

	result := []domain.ClientRevenue{}
	for rows.Next() {
		var c domain.ClientRevenue
		if err := rows.Scan(&c.ClientID, &c.Name, &c.Revenue); err != nil {
			return nil, fmt.Errorf("error scanning top client row: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *dashboardRepository) expensesByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryTotal, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT category, SUM(amount) AS total
		FROM expenses
		WHERE user_id = $1 AND expense_date >= $2::date AND expense_date < $3::date
		GROUP BY category
		ORDER BY total DESC`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying expenses by category: %w", err)
	}
	defer rows.Close()

	result := []domain.CategoryTotal{}
	for rows.Next() {
		var c domain.CategoryTotal
		if err := rows.Scan(&c.Category, &c.Total); err != nil {
			return nil, fmt.Errorf("error scanning category row: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
