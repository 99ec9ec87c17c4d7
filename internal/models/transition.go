package models

import (
	"database/sql"
	"time"

	contextutils "civiccare/internal/utils"
)

// TransitionKind distinguishes status updates that change the lifecycle state
// from ones that only touch admin notes. Only StatusChanged transitions
// trigger a citizen notification.
type TransitionKind string

const (
	// TransitionStatusChanged means the new status differs from the current one
	TransitionStatusChanged TransitionKind = "status_changed"
	// TransitionNotesOnly means the status is unchanged; no notification is sent
	TransitionNotesOnly TransitionKind = "notes_only"
)

// Transition is the computed outcome of applying a status update.
type Transition struct {
	Kind       TransitionKind
	NewStatus  ComplaintStatus
	ResolvedAt sql.NullTime
}

// ComputeTransition derives the transition for moving a complaint from its
// current status to newStatus at time now. It is pure; persistence happens
// elsewhere.
//
// ResolvedAt is set to now exactly when newStatus is resolved and cleared
// otherwise, preserving the resolved-iff-timestamped invariant. A
// resolved-to-resolved update is NotesOnly but still refreshes the timestamp.
func ComputeTransition(current ComplaintStatus, newStatus ComplaintStatus, now time.Time) (Transition, error) {
	if !newStatus.IsValid() {
		return Transition{}, contextutils.NewAppError(contextutils.ErrorCodeInvalidStatus, contextutils.SeverityWarn,
			"invalid complaint status", string(newStatus))
	}

	t := Transition{
		Kind:      TransitionStatusChanged,
		NewStatus: newStatus,
	}
	if newStatus == current {
		t.Kind = TransitionNotesOnly
	}
	if newStatus == StatusResolved {
		t.ResolvedAt = sql.NullTime{Time: now, Valid: true}
	}
	return t, nil
}
