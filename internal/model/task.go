package model

import "time"

// Priority orders tasks by urgency. Lower code sorts first.
type Priority int

const (
	PriorityHigh   Priority = 0
	PriorityMedium Priority = 1
	PriorityLow    Priority = 2
)

// Code returns the stable storage code for the priority. Codes are pinned
// independently of declaration order so reordering constants can never change
// stored meaning.
func (p Priority) Code() int { return int(p) }

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

// PriorityFromCode decodes a stored priority code. Unknown codes fall back to
// MEDIUM so stale rows never break the read path.
func PriorityFromCode(code int) Priority {
	switch code {
	case 0:
		return PriorityHigh
	case 1:
		return PriorityMedium
	case 2:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Status tracks where a task sits on the board.
type Status int

const (
	StatusTodo       Status = 0
	StatusInProgress Status = 1
	StatusDone       Status = 2
)

func (s Status) Code() int { return int(s) }

func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	default:
		return "To Do"
	}
}

// StatusFromCode decodes a stored status code, defaulting to TODO.
func StatusFromCode(code int) Status {
	switch code {
	case 0:
		return StatusTodo
	case 1:
		return StatusInProgress
	case 2:
		return StatusDone
	default:
		return StatusTodo
	}
}

// RecurringType is persisted per task. No occurrence generation exists yet;
// the value is stored and surfaced only.
type RecurringType int

const (
	RecurringNone    RecurringType = 0
	RecurringDaily   RecurringType = 1
	RecurringWeekly  RecurringType = 2
	RecurringMonthly RecurringType = 3
)

func (r RecurringType) Code() int { return int(r) }

func (r RecurringType) String() string {
	switch r {
	case RecurringDaily:
		return "Daily"
	case RecurringWeekly:
		return "Weekly"
	case RecurringMonthly:
		return "Monthly"
	default:
		return "None"
	}
}

// RecurringFromCode decodes a stored recurrence code, defaulting to NONE.
func RecurringFromCode(code int) RecurringType {
	switch code {
	case 0:
		return RecurringNone
	case 1:
		return RecurringDaily
	case 2:
		return RecurringWeekly
	case 3:
		return RecurringMonthly
	default:
		return RecurringNone
	}
}

// Task represents a single item in the planner.
//
// IsCompleted and Status are kept consistent by the task service: a task is
// completed exactly when its status is DONE. Nothing else may flip either
// field on its own.
type Task struct {
	ID            uint
	Title         string
	Description   string
	Notes         string
	Priority      Priority
	Status        Status
	CategoryID    *uint
	DueDate       *time.Time
	ReminderTime  *time.Time
	RecurringType RecurringType
	IsCompleted   bool
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

// IsOverdue reports whether the task has a due date in the past and is not
// done yet.
func (t Task) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && !t.IsCompleted
}
