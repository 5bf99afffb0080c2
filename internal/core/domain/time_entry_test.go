package domain_test

import (
	"testing"
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

func TestSummarizeTime(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	end1 := start.Add(90 * time.Minute)
	end2 := start.Add(2 * time.Hour)
	end3 := start.Add(30 * time.Minute)
	now := start.Add(10 * time.Hour)

	entries := []domain.TimeEntry{
		{ProjectID: stringPtr("p1"), StartedAt: start, EndedAt: &end1, Billable: true, HourlyRate: decimal.NewNullDecimal(dec("20000"))},
		{ProjectID: stringPtr("p1"), StartedAt: start, EndedAt: &end2, Billable: false},
		{StartedAt: start, EndedAt: &end3, Billable: true},
	}

	summary := domain.SummarizeTime(entries, map[string]string{"p1": "Website"}, now)

	assert.EqualValues(t, 4*3600, summary.TotalSeconds)
	assert.EqualValues(t, 2*3600, summary.BillableSeconds)
	assert.True(t, dec("30000").Equal(summary.BillableAmount), "got %s", summary.BillableAmount)
	require.Len(t, summary.Projects, 2)
	assert.Equal(t, "Website", summary.Projects[0].ProjectName)
	assert.EqualValues(t, 210*60, summary.Projects[0].TotalSeconds)
	assert.Equal(t, "", summary.Projects[1].ProjectID)
	assert.True(t, summary.Projects[1].BillableAmount.IsZero())
}

func TestTimeEntry_RunningDuration(t *testing.T) {
	start := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	e := domain.TimeEntry{StartedAt: start}
	assert.True(t, e.IsRunning())
	assert.EqualValues(t, 600, e.DurationSeconds(start.Add(10*time.Minute)))
}
