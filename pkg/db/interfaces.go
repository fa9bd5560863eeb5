package db

import (
	"context"
	"errors"
	"time"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrVersionConflict is returned when a write carries a stale version
	// (optimistic concurrency). Callers should re-read and retry.
	ErrVersionConflict = errors.New("version conflict")
)

// EscalationItemKind distinguishes the three overdue classes tracked by the
// escalation engine
type EscalationItemKind string

const (
	EscalationKindRequest    EscalationItemKind = "request"
	EscalationKindAssignment EscalationItemKind = "assignment"
	EscalationKindEvent      EscalationItemKind = "event"
)

// EscalationState is the persisted escalation record for one overdue item
type EscalationState struct {
	ItemKind        EscalationItemKind
	ItemID          string
	Tier            int
	LastEscalatedAt time.Time
	Reason          string
	ReminderSentAt  *time.Time
}

// RequestStore defines coverage request operations
type RequestStore interface {
	GetCoverageRequest(ctx context.Context, id string) (*model.CoverageRequest, error)
	InsertCoverageRequest(ctx context.Context, req *model.CoverageRequest) error
	UpdateCoverageRequestStatus(ctx context.Context, id string, status model.RequestStatus) error
}

// EventStore defines event operations. UpdateEvent enforces optimistic
// concurrency on the event revision: the write succeeds only if the stored
// revision equals expectedRevision, and bumps the revision by one.
type EventStore interface {
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	InsertEvent(ctx context.Context, ev *model.Event) error
	UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error
	DeleteEvent(ctx context.Context, id string) error
	ListActiveEventsOverlapping(ctx context.Context, window model.TimeWindow, limit int) ([]model.Event, error)
}

// ResourceStore defines resource operations. UpdateResource enforces
// optimistic concurrency on Resource.Version: the write succeeds only if the
// stored version equals the one carried by the resource, and bumps it.
type ResourceStore interface {
	GetResource(ctx context.Context, id string) (*model.Resource, error)
	InsertResource(ctx context.Context, r *model.Resource) error
	UpdateResource(ctx context.Context, r *model.Resource) error
	ListResourcesByCategory(ctx context.Context, category string) ([]model.Resource, error)
	ListResourcesBookedForEvent(ctx context.Context, eventID string) ([]model.Resource, error)
}

// AssignmentStore defines assignment operations
type AssignmentStore interface {
	GetAssignment(ctx context.Context, id string) (*model.Assignment, error)
	InsertAssignment(ctx context.Context, a *model.Assignment) error
	UpdateAssignment(ctx context.Context, a *model.Assignment) error
}

// EscalationStore defines the overdue scans and escalation bookkeeping used
// by the escalation engine. All list methods cap their result sets at limit.
type EscalationStore interface {
	ListOverdueApprovals(ctx context.Context, now time.Time, limit int) ([]model.CoverageRequest, error)
	ListOverdueAssignments(ctx context.Context, now time.Time, limit int) ([]model.Assignment, error)
	ListOverrunEvents(ctx context.Context, now time.Time, limit int) ([]model.Event, error)
	ListStaleDrafts(ctx context.Context, olderThan time.Time, limit int) ([]model.CoverageRequest, error)
	GetEscalationState(ctx context.Context, kind EscalationItemKind, itemID string) (*EscalationState, error)
	UpsertEscalationState(ctx context.Context, st *EscalationState) error
}

// Database is the union of all store interfaces. Both the in-memory store and
// postgres.DB implement it.
type Database interface {
	RequestStore
	EventStore
	ResourceStore
	AssignmentStore
	EscalationStore
}
