package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/conflict"
	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
	"github.com/Gebrish-A/amc-scheduling/pkg/db"
)

// ScheduleEventStore defines the database operations needed to schedule an
// event from an approved coverage request
type ScheduleEventStore interface {
	GetCoverageRequest(ctx context.Context, id string) (*model.CoverageRequest, error)
	UpdateCoverageRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
	InsertEvent(ctx context.Context, ev *model.Event) error
}

// ScheduleEventParams are the inputs to ScheduleEvent
type ScheduleEventParams struct {
	RequestID string
	Window    model.TimeWindow
	Location  model.Location

	// OverrideConflicts schedules even when the conflict set is non-empty.
	// Conflicts are always reported; they are never silently ignored.
	OverrideConflicts bool
}

// ScheduleEvent creates an event from an approved coverage request. When the
// window collides with existing commitments and no override is set, the
// conflict set is returned with a nil event and nothing is mutated.
func ScheduleEvent(ctx context.Context, store ScheduleEventStore, detector *conflict.Detector, logger *zap.Logger, p ScheduleEventParams) (*model.Event, *conflict.Set, error) {
	if err := p.Window.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid window: %w", err)
	}

	logger.Debug("Scheduling event",
		zap.String("request_id", p.RequestID),
		zap.Time("start", p.Window.Start),
		zap.Bool("override", p.OverrideConflicts))

	req, err := store.GetCoverageRequest(ctx, p.RequestID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load coverage request: %w", err)
	}
	if req.Status != model.RequestApproved {
		return nil, nil, fmt.Errorf("request %s has status %s: %w", req.ID, req.Status, ErrNotApproved)
	}

	set, err := detector.Find(ctx, p.Window, p.Location.Coordinates, "")
	if err != nil {
		return nil, nil, fmt.Errorf("conflict check failed: %w", err)
	}
	if !set.Empty() && !p.OverrideConflicts {
		logger.Info("Scheduling blocked by conflicts",
			zap.String("request_id", p.RequestID),
			zap.Int("temporal", len(set.Temporal)),
			zap.Int("spatial", len(set.Spatial)))
		return nil, set, nil
	}

	ev := &model.Event{
		ID:         uuid.NewString(),
		RequestID:  req.ID,
		Title:      req.Title,
		Window:     p.Window,
		Location:   p.Location,
		Status:     model.EventScheduled,
		Department: req.Department,
		Revision:   1,
	}
	if err := store.InsertEvent(ctx, ev); err != nil {
		return nil, nil, fmt.Errorf("failed to insert event: %w", err)
	}
	if err := store.UpdateCoverageRequestStatus(ctx, req.ID, model.RequestScheduled); err != nil {
		return nil, nil, fmt.Errorf("failed to mark request scheduled: %w", err)
	}

	logger.Info("Event scheduled",
		zap.String("event_id", ev.ID),
		zap.String("request_id", req.ID),
		zap.Int("conflicts_overridden", len(set.Temporal)))
	return ev, set, nil
}

// RescheduleEventStore defines the database operations needed to move an
// existing event
type RescheduleEventStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error
}

// RescheduleEventParams are the inputs to RescheduleEvent
type RescheduleEventParams struct {
	EventID   string
	NewWindow model.TimeWindow

	// SeenRevision is the event revision the caller read before deciding to
	// reschedule. A stale revision is rejected so superseded calls cannot
	// overwrite newer state.
	SeenRevision int64

	OverrideConflicts bool
}

// RescheduleEvent moves an event to a new window, bumping its revision. The
// same conflict-or-override contract as ScheduleEvent applies.
func RescheduleEvent(ctx context.Context, store RescheduleEventStore, detector *conflict.Detector, logger *zap.Logger, p RescheduleEventParams) (*model.Event, *conflict.Set, error) {
	if err := p.NewWindow.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid window: %w", err)
	}

	ev, err := store.GetEvent(ctx, p.EventID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, fmt.Errorf("event %s: %w", p.EventID, ErrUnknownEvent)
		}
		return nil, nil, fmt.Errorf("failed to load event: %w", err)
	}
	if ev.Status == model.EventCompleted {
		return nil, nil, fmt.Errorf("event %s is completed: %w", ev.ID, ErrTerminalState)
	}
	if ev.Revision != p.SeenRevision {
		return nil, nil, fmt.Errorf("event %s is at revision %d, caller saw %d: %w", ev.ID, ev.Revision, p.SeenRevision, ErrStaleRevision)
	}

	set, err := detector.Find(ctx, p.NewWindow, ev.Location.Coordinates, ev.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("conflict check failed: %w", err)
	}
	if !set.Empty() && !p.OverrideConflicts {
		logger.Info("Reschedule blocked by conflicts",
			zap.String("event_id", ev.ID),
			zap.Int("temporal", len(set.Temporal)),
			zap.Int("spatial", len(set.Spatial)))
		return nil, set, nil
	}

	ev.Window = p.NewWindow
	if err := store.UpdateEvent(ctx, ev, p.SeenRevision); err != nil {
		if errors.Is(err, db.ErrVersionConflict) {
			return nil, nil, fmt.Errorf("event %s: %w", ev.ID, ErrStaleRevision)
		}
		return nil, nil, fmt.Errorf("failed to update event: %w", err)
	}

	logger.Info("Event rescheduled",
		zap.String("event_id", ev.ID),
		zap.Int64("revision", ev.Revision),
		zap.Time("new_start", p.NewWindow.Start))
	return ev, set, nil
}
