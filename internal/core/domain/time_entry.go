package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntry is a tracked span of work. A running timer has no EndedAt.
type TimeEntry struct {
	TimeEntryID string
	UserID      string
	ProjectID   *string
	TaskID      *string
	Description string
	StartedAt   time.Time
	EndedAt     *time.Time
	Billable    bool
	HourlyRate  decimal.NullDecimal
	AuditFields
}

// IsRunning reports whether the timer has not been stopped.
func (e TimeEntry) IsRunning() bool {
	return e.EndedAt == nil
}

// DurationSeconds returns the tracked duration; running timers count up to now.
func (e TimeEntry) DurationSeconds(now time.Time) int64 {
	end := now
	if e.EndedAt != nil {
		end = *e.EndedAt
	}
	if end.Before(e.StartedAt) {
		return 0
	}
	return int64(end.Sub(e.StartedAt) / time.Second)
}

// BillableAmount returns hours × rate for billable entries with a rate.
func (e TimeEntry) BillableAmount(now time.Time) decimal.Decimal {
	if !e.Billable || !e.HourlyRate.Valid {
		return decimal.Zero
	}
	hours := decimal.NewFromInt(e.DurationSeconds(now)).Div(decimal.NewFromInt(3600))
	return hours.Mul(e.HourlyRate.Decimal).Round(2)
}

// TimeEntryFilter narrows time entry listings.
type TimeEntryFilter struct {
	ProjectID *string
	DateRange
	ListParams
}

// ProjectTimeSummary aggregates tracked time for one project (empty id = no project).
type ProjectTimeSummary struct {
	ProjectID       string
	ProjectName     string
	TotalSeconds    int64
	BillableSeconds int64
	BillableAmount  decimal.Decimal
}

// TimeSummary aggregates tracked time over a date range.
type TimeSummary struct {
	TotalSeconds    int64
	BillableSeconds int64
	BillableAmount  decimal.Decimal
	Projects        []ProjectTimeSummary
}

// SummarizeTime folds entries into per-project totals, preserving first-seen order.
func SummarizeTime(entries []TimeEntry, projectNames map[string]string, now time.Time) TimeSummary {
	summary := TimeSummary{BillableAmount: decimal.Zero}
	index := map[string]int{}
	for _, e := range entries {
		key := ""
		if e.ProjectID != nil {
			key = *e.ProjectID
		}
		i, ok := index[key]
		if !ok {
			summary.Projects = append(summary.Projects, ProjectTimeSummary{
				ProjectID:      key,
				ProjectName:    projectNames[key],
				BillableAmount: decimal.Zero,
			})
			i = len(summary.Projects) - 1
			index[key] = i
		}
		secs := e.DurationSeconds(now)
		p := &summary.Projects[i]
		p.TotalSeconds += secs
		summary.TotalSeconds += secs
		if e.Billable {
			amount := e.BillableAmount(now)
			p.BillableSeconds += secs
			p.BillableAmount = p.BillableAmount.Add(amount)
			summary.BillableSeconds += secs
			summary.BillableAmount = summary.BillableAmount.Add(amount)
		}
	}
	return summary
}
