package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

// Task is a unit of work inside a project.
type Task struct {
	TaskID         string
	UserID         string
	ProjectID      string
	Title          string
	Description    string
	Status         TaskStatus
	Priority       TaskPriority
	DueDate        *time.Time
	EstimatedHours decimal.NullDecimal
	CompletedAt    *time.Time
	AuditFields
}

// SetStatus moves the task to status, stamping or clearing CompletedAt.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if status == TaskDone && t.Status != TaskDone {
		t.CompletedAt = &now
	}
	if status != TaskDone {
		t.CompletedAt = nil
	}
	t.Status = status
}
