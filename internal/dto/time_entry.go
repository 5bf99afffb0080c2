package dto

import (
	"time"

	"github.com/kevkotuto/freelance_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTimeEntryRequest defines a manually entered span of work.
type CreateTimeEntryRequest struct {
	ProjectID   *string          `json:"projectId" binding:"omitempty,uuid"`
	TaskID      *string          `json:"taskId" binding:"omitempty,uuid"`
	Description string           `json:"description" binding:"max=500"`
	StartedAt   time.Time        `json:"startedAt" binding:"required"`
	EndedAt     time.Time        `json:"endedAt" binding:"required,gtfield=StartedAt"`
	Billable    bool             `json:"billable"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate"`
}

// StartTimerRequest starts a running timer.
type StartTimerRequest struct {
	ProjectID   *string          `json:"projectId" binding:"omitempty,uuid"`
	TaskID      *string          `json:"taskId" binding:"omitempty,uuid"`
	Description string           `json:"description" binding:"max=500"`
	Billable    bool             `json:"billable"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate"`
}

// UpdateTimeEntryRequest uses pointers for partial updates.
type UpdateTimeEntryRequest struct {
	ProjectID   *string          `json:"projectId" binding:"omitempty,uuid"`
	TaskID      *string          `json:"taskId" binding:"omitempty,uuid"`
	Description *string          `json:"description" binding:"omitempty,max=500"`
	StartedAt   *time.Time       `json:"startedAt"`
	EndedAt     *time.Time       `json:"endedAt"`
	Billable    *bool            `json:"billable"`
	HourlyRate  *decimal.Decimal `json:"hourlyRate"`
}

// ListTimeEntriesParams defines query parameters for listing time entries.
type ListTimeEntriesParams struct {
	ProjectID string     `form:"projectId"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	PageParams
}

// TimeSummaryParams defines the date range of a time summary.
type TimeSummaryParams struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// TimeEntryResponse defines the data returned for a time entry.
type TimeEntryResponse struct {
	TimeEntryID     string           `json:"id"`
	ProjectID       *string          `json:"projectId"`
	TaskID          *string          `json:"taskId"`
	Description     string           `json:"description"`
	StartedAt       time.Time        `json:"startedAt"`
	EndedAt         *time.Time       `json:"endedAt"`
	Running         bool             `json:"running"`
	DurationSeconds int64            `json:"durationSeconds"`
	Billable        bool             `json:"billable"`
	HourlyRate      *decimal.Decimal `json:"hourlyRate"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// ProjectTimeSummaryResponse is one project line of a time summary.
type ProjectTimeSummaryResponse struct {
	ProjectID       *string         `json:"projectId"`
	ProjectName     string          `json:"projectName"`
	TotalSeconds    int64           `json:"totalSeconds"`
	BillableSeconds int64           `json:"billableSeconds"`
	BillableAmount  decimal.Decimal `json:"billableAmount"`
}

// TimeSummaryResponse aggregates tracked time.
type TimeSummaryResponse struct {
	TotalSeconds    int64                        `json:"totalSeconds"`
	BillableSeconds int64                        `json:"billableSeconds"`
	BillableAmount  decimal.Decimal              `json:"billableAmount"`
	Projects        []ProjectTimeSummaryResponse `json:"projects"`
}

func ToTimeEntryResponse(e *domain.TimeEntry, now time.Time) TimeEntryResponse {
	res := TimeEntryResponse{
		TimeEntryID:     e.TimeEntryID,
		ProjectID:       e.ProjectID,
		TaskID:          e.TaskID,
		Description:     e.Description,
		StartedAt:       e.StartedAt,
		EndedAt:         e.EndedAt,
		Running:         e.IsRunning(),
		DurationSeconds: e.DurationSeconds(now),
		Billable:        e.Billable,
		CreatedAt:       e.CreatedAt,
	}
	if e.HourlyRate.Valid {
		r := e.HourlyRate.Decimal
		res.HourlyRate = &r
	}
	return res
}

func ToListTimeEntryResponse(entries []domain.TimeEntry, now time.Time) []TimeEntryResponse {
	res := make([]TimeEntryResponse, len(entries))
	for i := range entries {
		res[i] = ToTimeEntryResponse(&entries[i], now)
	}
	return res
}

func ToTimeSummaryResponse(s domain.TimeSummary) TimeSummaryResponse {
	res := TimeSummaryResponse{
		TotalSeconds:    s.TotalSeconds,
		BillableSeconds: s.BillableSeconds,
		BillableAmount:  s.BillableAmount,
		Projects:        make([]ProjectTimeSummaryResponse, len(s.Projects)),
	}
	for i, p := range s.Projects {
		line := ProjectTimeSummaryResponse{
			ProjectName:     p.ProjectName,
			TotalSeconds:    p.TotalSeconds,
			BillableSeconds: p.BillableSeconds,
			BillableAmount:  p.BillableAmount,
		}
		if p.ProjectID != "" {
			id := p.ProjectID
			line.ProjectID = &id
		}
		res.Projects[i] = line
	}
	return res
}
