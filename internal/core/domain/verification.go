package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskState is the verification task state machine.
//
//	Pending -> InProgress -> Completed
//	                      -> Failed
type TaskState string

const (
	TaskPending    TaskState = "pending"
	TaskInProgress TaskState = "in_progress"
	TaskCompleted  TaskState = "completed"
	TaskFailed     TaskState = "failed"
)

// rank orders states so transitions can be checked for monotonicity.
func (s TaskState) rank() int {
	switch s {
	case TaskPending:
		return 0
	case TaskInProgress:
		return 1
	case TaskCompleted, TaskFailed:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s TaskState) CanTransitionTo(next TaskState) bool {
	if s == TaskPending {
		return next == TaskInProgress
	}
	if s == TaskInProgress {
		return next == TaskCompleted || next == TaskFailed
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s TaskState) IsTerminal() bool {
	return s.rank() == 2
}

// Outcome is the classification reported to the user.
type Outcome string

const (
	OutcomeNone    Outcome = ""
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailure Outcome = "failure"
)

// TaskSnapshot is a read-only copy of a verification task.
type TaskSnapshot struct {
	ID         uuid.UUID
	UserID     int64
	Submission Submission
	State      TaskState
	Outcome    Outcome
	StartedAt  time.Time
	EndedAt    time.Time // Zero until the task is terminal
	Elapsed    time.Duration
	Remaining  time.Duration // Only meaningful while InProgress
}
