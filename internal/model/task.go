package model

import "time"

// Status tracks the lifecycle of a task.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Priority orders tasks for scheduling.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Recurrence is the rule for repeating slot generation across dates.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "None"
	RecurrenceDaily   Recurrence = "Daily"
	RecurrenceWeekly  Recurrence = "Weekly"
	RecurrenceMonthly Recurrence = "Monthly"
)

// ValidStatus reports whether s is one of the known task statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// ValidRecurrence reports whether r is one of the known recurrence rules.
func ValidRecurrence(r Recurrence) bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}

// Task represents a skill or topic the user wants to work through
// between FromDate and DueDate.
type Task struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Title       string
	Description string
	FromDate    time.Time
	DueDate     time.Time
	Status      Status   `gorm:"default:'Not Started'"`
	Priority    Priority `gorm:"default:'Medium'"`
	Progress    int      `gorm:"default:0"` // 0-100
	Category    string
	Recurrence  Recurrence `gorm:"default:'None'"`
	Tags        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
