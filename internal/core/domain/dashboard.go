package domain

import "github.com/shopspring/decimal"

// MonthlyStat is one month of the dashboard chart.
type MonthlyStat struct {
	Month    int             `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// ClientRevenue ranks clients by paid revenue.
type ClientRevenue struct {
	ClientID string          `json:"clientId"`
	Name     string          `json:"name"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CategoryTotal sums expenses per category.
type CategoryTotal struct {
	Category ExpenseCategory `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// DashboardStats is the analytics payload for one user and year. It is JSON
// tagged because it is cached as-is.
type DashboardStats struct {
	Year               int             `json:"year"`
	Revenue            decimal.Decimal `json:"revenue"`
	Expenses           decimal.Decimal `json:"expenses"`
	Profit             decimal.Decimal `json:"profit"`
	Outstanding        decimal.Decimal `json:"outstanding"`
	OverdueCount       int             `json:"overdueCount"`
	ActiveProjects     int             `json:"activeProjects"`
	TrackedHours       decimal.Decimal `json:"trackedHours"`
	Monthly            []MonthlyStat   `json:"monthly"`
	TopClients         []ClientRevenue `json:"topClients"`
	ExpensesByCategory []CategoryTotal `json:"expensesByCategory"`
}

// MonthlyAmount is a raw (month, amount) aggregate row.
type MonthlyAmount struct {
	Month  int
	Amount decimal.Decimal
}

// BuildMonthly merges revenue and expense aggregates into twelve months and
// fills the yearly totals.
func (s *DashboardStats) BuildMonthly(revenue, expenses []MonthlyAmount) {
	s.Monthly = make([]MonthlyStat, 12)
	for i := range s.Monthly {
		s.Monthly[i] = MonthlyStat{Month: i + 1, Revenue: decimal.Zero, Expenses: decimal.Zero, Profit: decimal.Zero}
	}
	s.Revenue, s.Expenses = decimal.Zero, decimal.Zero
	for _, r := range revenue {
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		s.Monthly[r.Month-1].Revenue = s.Monthly[r.Month-1].Revenue.Add(r.Amount)
		s.Revenue = s.Revenue.Add(r.Amount)
	}
	for _, e := range expenses {
		if e.Month < 1 || e.Month > 12 {
			continue
		}
		s.Monthly[e.Month-1].Expenses = s.Monthly[e.Month-1].Expenses.Add(e.Amount)
		s.Expenses = s.Expenses.Add(e.Amount)
	}
	for i := range s.Monthly {
		s.Monthly[i].Profit = s.Monthly[i].Revenue.Sub(s.Monthly[i].Expenses)
	}
	s.Profit = s.Revenue.Sub(s.Expenses)
}
