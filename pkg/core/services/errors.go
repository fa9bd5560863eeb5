package services

import "errors"

// Typed failures returned by the orchestrator operations. State errors are
// distinct from not-found (see db.ErrNotFound); validation errors are plain
// wrapped errors raised before any persistence is touched.
var (
	// ErrNotApproved is returned when scheduling from a request that is not approved
	ErrNotApproved = errors.New("coverage request is not approved")

	// ErrTerminalState is returned when an operation targets an event in a
	// terminal status
	ErrTerminalState = errors.New("event is in a terminal state")

	// ErrInvalidTransition is returned when a status move is not permitted by
	// the forward-only state machine
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrUnknownEvent is returned when the referenced event does not exist
	ErrUnknownEvent = errors.New("unknown event")

	// ErrNotAvailable is returned by checkout when the resource is not in
	// available status
	ErrNotAvailable = errors.New("resource is not available")

	// ErrConflictingBooking is returned by checkout when the requested window
	// overlaps an active booking
	ErrConflictingBooking = errors.New("conflicting booking")

	// ErrNoActiveBooking is returned by checkin when the resource holds no
	// active booking for the event
	ErrNoActiveBooking = errors.New("no active booking")

	// ErrStaleRevision is returned when a reschedule carries an event revision
	// that is no longer current
	ErrStaleRevision = errors.New("stale event revision")

	// ErrContended is returned when optimistic-concurrency retries are
	// exhausted without a clean write
	ErrContended = errors.New("write contended")

	// ErrEventNotDeletable is returned when deleting an in-progress or
	// completed event
	ErrEventNotDeletable = errors.New("event cannot be deleted in its current status")
)
