package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

// TransitionEventStore defines the database operations needed to move an
// event through its status machine. Cancellation releases the event's
// bookings, hence the resource methods.
type TransitionEventStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
	ListResourcesBookedForEvent(ctx context.Context, eventID string) ([]model.Resource, error)
}

// TransitionEvent advances an event's status. The state machine is forward
// only: terminal statuses reject every move with ErrTerminalState, and
// non-adjacent moves fail with ErrInvalidTransition. Derived timing fields
// are stamped on the way through, and cancelling releases all bookings.
func TransitionEvent(ctx context.Context, store TransitionEventStore, logger *zap.Logger, eventID string, target model.EventStatus, now time.Time) (*model.Event, error) {
	ev, err := store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("event %s: %w", eventID, ErrUnknownEvent)
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	if ev.Status.Terminal() {
		return nil, fmt.Errorf("event %s is %s: %w", ev.ID, ev.Status, ErrTerminalState)
	}
	if !ev.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("event %s cannot move %s -> %s: %w", ev.ID, ev.Status, target, ErrInvalidTransition)
	}

	previous := ev.Status
	ev.Status = target
	switch target {
	case model.EventInProgress:
		t := now
		ev.ActualStart = &t
	case model.EventCompleted, model.EventCancelled:
		t := now
		ev.ActualEnd = &t
	}

	if err := store.UpdateEvent(ctx, ev, ev.Revision); err != nil {
		if errors.Is(err, db.ErrVersionConflict) {
			return nil, fmt.Errorf("event %s: %w", ev.ID, ErrContended)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	if target == model.EventCancelled {
		if _, err := ReleaseResources(ctx, store, logger, ev.ID, now); err != nil {
			return nil, fmt.Errorf("event cancelled but booking release failed: %w", err)
		}
	}

	logger.Info("Event transitioned",
		zap.String("event_id", ev.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))
	return ev, nil
}

// TransitionAssignmentStore defines the database operations needed to move an
// assignment through its status machine
type TransitionAssignmentStore interface {
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	UpdateAssignment(ctx context.Context, a *model.Assignment) error
}

// TransitionAssignment advances an assignment's status under the same
// forward-only rules as events
func TransitionAssignment(ctx context.Context, store TransitionAssignmentStore, logger *zap.Logger, assignmentID string, target model.AssignmentStatus, now time.Time) (*model.Assignment, error) {
	a, err := store.GetAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment: %w", err)
	}

	if a.Status.Terminal() {
		return nil, fmt.Errorf("assignment %s is %s: %w", a.ID, a.Status, ErrTerminalState)
	}
	if !a.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("assignment %s cannot move %s -> %s: %w", a.ID, a.Status, target, ErrInvalidTransition)
	}

	previous := a.Status
	a.Status = target
	switch target {
	case model.AssignmentInProgress:
		t := now
		a.ActualStart = &t
	case model.AssignmentCompleted, model.AssignmentCancelled:
		t := now
		a.ActualEnd = &t
	}

	if err := store.UpdateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update assignment: %w", err)
	}

	logger.Info("Assignment transitioned",
		zap.String("assignment_id", a.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(target)))
	return a, nil
}

// DeleteEventStore defines the database operations needed to delete an event
type DeleteEventStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	UpdateResource(ctx context.Context, r *model.Resource) error
	ListResourcesBookedForEvent(ctx context.Context, eventID string) ([]model.Resource, error)
}

// DeleteEvent removes an event that is neither in progress nor completed,
// releasing all of its bookings first
func DeleteEvent(ctx context.Context, store DeleteEventStore, logger *zap.Logger, eventID string, now time.Time) error {
	ev, err := store.GetEvent(ctx, eventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("event %s: %w", eventID, ErrUnknownEvent)
		}
		return fmt.Errorf("failed to load event: %w", err)
	}
	if ev.Status == model.EventInProgress || ev.Status == model.EventCompleted {
		return fmt.Errorf("event %s is %s: %w", ev.ID, ev.Status, ErrEventNotDeletable)
	}

	if _, err := ReleaseResources(ctx, store, logger, ev.ID, now); err != nil {
		return fmt.Errorf("failed to release bookings before delete: %w", err)
	}
	if err := store.DeleteEvent(ctx, ev.ID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	logger.Info("Event deleted", zap.String("event_id", eventID))
	return nil
}

// RecordIncidentStore defines the database operations needed to append an
// incident note to an event
type RecordIncidentStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error
}

// RecordIncident appends a note to an in-progress event's incident log
func RecordIncident(ctx context.Context, store RecordIncidentStore, logger *zap.Logger, eventID, severity, note string, now time.Time) error {
	return withContentionRetry(ctx, func() error {
		ev, err := store.GetEvent(ctx, eventID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("event %s: %w", eventID, ErrUnknownEvent)
			}
			return fmt.Errorf("failed to load event: %w", err)
		}
		if ev.Status != model.EventInProgress {
			return fmt.Errorf("event %s is %s, incidents are recorded in progress only: %w", ev.ID, ev.Status, ErrInvalidTransition)
		}
		ev.Incidents = append(ev.Incidents, model.IncidentNote{At: now, Severity: severity, Note: note})
		return store.UpdateEvent(ctx, ev, ev.Revision)
	})
}
