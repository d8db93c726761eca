package domain

import (
	"database/sql"
	"time"
)

// Job statuses. A job only moves forward through the lifecycle; canceled is
// the one escape hatch and is reachable from any non-terminal status.
const (
	StatusDraft    = "draft"
	StatusOpen     = "open"
	StatusAssigned = "assigned"
	StatusDone     = "done"
	StatusCanceled = "canceled"
)

// Intake steps for a draft job. StepNone means no conversation is in flight.
const (
	StepNone     = 0
	StepModel    = 1
	StepQuantity = 2
	StepCable    = 3
	StepNotes    = 4
)

// Job is one repair request, created from an inbound photo and filled in
// step by step by the intake conversation.
type Job struct {
	ID            int64          `db:"id"`
	CreatedAt     time.Time      `db:"created_at"`
	CustomerPhone string         `db:"customer_phone"`
	Model         sql.NullString `db:"model"`
	Qty           int            `db:"qty"`
	IncludeCable  bool           `db:"include_cable"`
	Notes         sql.NullString `db:"notes"`
	PhotoURL      sql.NullString `db:"photo_url"`
	Status        string         `db:"status"`
	IntakeStep    int            `db:"intake_step"`
	AssignedToID  sql.NullInt64  `db:"assigned_to_id"`
}

// InIntake reports whether the job has an active intake conversation.
func (j *Job) InIntake() bool {
	return j.IntakeStep > StepNone && j.Status == StatusDraft
}

var statusRank = map[string]int{
	StatusDraft:    0,
	StatusOpen:     1,
	StatusAssigned: 2,
	StatusDone:     3,
}

// ValidStatus reports whether s is one of the allowed job statuses.
func ValidStatus(s string) bool {
	if s == StatusCanceled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether a job may move from one status to another.
// Same-status transitions are allowed as no-ops. Moves are forward-only,
// except canceled, which any non-terminal job can reach.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == to {
		return true
	}
	if to == StatusCanceled {
		return from != StatusDone && from != StatusCanceled
	}
	if from == StatusCanceled {
		return false
	}
	return statusRank[to] > statusRank[from]
}
