package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "PLANNING"
	ProjectInProgress ProjectStatus = "IN_PROGRESS"
	ProjectOnHold     ProjectStatus = "ON_HOLD"
	ProjectCompleted  ProjectStatus = "COMPLETED"
	ProjectCancelled  ProjectStatus = "CANCELLED"
)

// IsOpen reports whether work is still expected on the project.
func (s ProjectStatus) IsOpen() bool {
	return s != ProjectCompleted && s != ProjectCancelled
}

// Project groups tasks, time, files and invoices for a piece of work.
type Project struct {
	ProjectID   string
	UserID      string
	ClientID    *string
	Name        string
	Description string
	Status      ProjectStatus
	Budget      decimal.NullDecimal
	Currency    string
	StartDate   *time.Time
	EndDate     *time.Time
	Tags        []Tag
	AuditFields
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	Status   *ProjectStatus
	ClientID *string
	ListParams
}
