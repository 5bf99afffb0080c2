package repositories

import (
	"context"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
)

// DashboardRepository computes analytics aggregates.
type DashboardRepository interface {
	// LoadDashboardStats aggregates revenue (paid invoices by paid_at), expenses
	// (by expense_date), outstanding amounts and activity counters for a year.
	LoadDashboardStats(ctx context.Context, userID string, year int) (*domain.DashboardStats, error)
}
