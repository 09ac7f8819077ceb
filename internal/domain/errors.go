package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrVersionConflict signals that a concurrent writer modified a row between
// read and update. The commit layer may retry the whole operation; nothing
// else in the service retries business errors.
var ErrVersionConflict = errors.New("concurrent modification detected")

// ValidationError reports malformed or contradictory input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConflictError reports that a candidate interval overlaps an active
// reservation on the same resource. It carries enough detail for the caller
// to pick different dates.
type ConflictError struct {
	ResourceKind  ResourceKind
	ResourceID    int32
	ReservationID int32
	Start         time.Time
	End           time.Time
}

func (e *ConflictError) Error() string {
	if e.ReservationID == 0 {
		return fmt.Sprintf("%s %d is currently held by another booking in progress", e.ResourceKind, e.ResourceID)
	}
	return fmt.Sprintf("%s %d is already booked by reservation %d from %s to %s",
		e.ResourceKind, e.ResourceID, e.ReservationID,
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// NotFoundError reports that a referenced entity id does not resolve.
type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// AuthorizationError reports that the actor lacks the role or ownership the
// requested operation requires.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return e.Reason
}

// StateError reports an illegal status or trip-status transition.
type StateError struct {
	From string
	To   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("illegal transition from %s to %s", e.From, e.To)
}

// ResourceInconsistencyError is fatal: a transition's effects reference a
// vehicle or driver that no longer exists. The whole transition aborts, no
// partial state is committed.
type ResourceInconsistencyError struct {
	Entity string
	ID     int32
}

func (e *ResourceInconsistencyError) Error() string {
	return fmt.Sprintf("reservation references %s %d which no longer exists", e.Entity, e.ID)
}
