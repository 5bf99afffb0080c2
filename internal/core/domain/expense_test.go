package domain_test

import (
	"testing"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddBillingCycle(t *testing.T) {
	tests := []struct {
		name  string
		date  time.Time
		cycle domain.BillingCycle
		want  time.Time
	}{
		{"monthly", time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), domain.CycleMonthly, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"monthly clamps to february", time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), domain.CycleMonthly, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"monthly clamps in leap year", time.Date(2028, 1, 31, 0, 0, 0, 0, time.UTC), domain.CycleMonthly, time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"quarterly across year", time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC), domain.CycleQuarterly, time.Date(2027, 2, 28, 0, 0, 0, 0, time.UTC)},
		{"yearly from leap day", time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC), domain.CycleYearly, time.Date(2029, 2, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(domain.AddBillingCycle(tt.date, tt.cycle)), "got %s", domain.AddBillingCycle(tt.date, tt.cycle))
		})
	}
}

func TestExpense_Renew(t *testing.T) {
	now := time.Date(2026, 4, 1, 5, 0, 0, 0, time.UTC)
	cycle := domain.CycleMonthly
	next := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	sub := domain.Expense{
		ExpenseID:          "sub-1",
		UserID:             "user-1",
		Category:           domain.CategorySoftware,
		Description:        "Figma",
		Amount:             dec("15"),
		Currency:           "USD",
		IsSubscription:     true,
		SubscriptionActive: true,
		BillingCycle:       &cycle,
		NextBillingDate:    &next,
	}

	child, ok := sub.Renew(now, "child-1")
	require.True(t, ok)
	assert.Equal(t, "child-1", child.ExpenseID)
	require.NotNil(t, child.ParentExpenseID)
	assert.Equal(t, "sub-1", *child.ParentExpenseID)
	assert.False(t, child.IsSubscription)
	assert.True(t, next.Equal(child.ExpenseDate))
	assert.True(t, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC).Equal(*sub.NextBillingDate))

	_, ok = sub.Renew(now, "child-2")
	assert.False(t, ok, "next billing date is now in the future")
}

func TestExpense_RenewSkipsPaused(t *testing.T) {
	cycle := domain.CycleYearly
	next := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := domain.Expense{IsSubscription: true, SubscriptionActive: false, BillingCycle: &cycle, NextBillingDate: &next}
	_, ok := sub.Renew(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), "x")
	assert.False(t, ok)
}

func TestExpense_RenewKeepsAnchorDay(t *testing.T) {
	cycle := domain.CycleMonthly
	next := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	sub := domain.Expense{
		ExpenseID:          "sub-1",
		IsSubscription:     true,
		SubscriptionActive: true,
		BillingCycle:       &cycle,
		NextBillingDate:    &next,
		BillingAnchorDay:   31,
	}

	want := []time.Time{
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	now := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	for i, date := range want {
		child, ok := sub.Renew(now, "child")
		require.True(t, ok, "renewal %d", i)
		assert.True(t, date.Equal(child.ExpenseDate), "renewal %d got %s", i, child.ExpenseDate)
	}
	assert.True(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC).Equal(*sub.NextBillingDate))
}

func TestAddBillingCycleAnchored(t *testing.T) {
	feb := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	assert.True(t, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC).Equal(domain.AddBillingCycleAnchored(feb, domain.CycleMonthly, 31)))
	assert.True(t, time.Date(2026, 3, 28, 0, 0, 0, 0, time.UTC).Equal(domain.AddBillingCycleAnchored(feb, domain.CycleMonthly, 0)), "no anchor uses the date's day")
	assert.True(t, time.Date(2026, 5, 30, 0, 0, 0, 0, time.UTC).Equal(domain.AddBillingCycleAnchored(feb, domain.CycleQuarterly, 30)))
}
