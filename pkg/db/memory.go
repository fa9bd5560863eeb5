package db

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// MemoryStore is an in-memory Database implementation. It enforces the same
// optimistic-concurrency semantics as the postgres store and is used by tests
// and the CLI's --memory mode.
type MemoryStore struct {
	mu          sync.Mutex
	requests    map[string]model.CoverageRequest
	events      map[string]model.Event
	resources   map[string]model.Resource
	assignments map[string]model.Assignment
	escalations map[string]EscalationState
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		requests:    make(map[string]model.CoverageRequest),
		events:      make(map[string]model.Event),
		resources:   make(map[string]model.Resource),
		assignments: make(map[string]model.Assignment),
		escalations: make(map[string]EscalationState),
	}
}

func escalationKey(kind EscalationItemKind, itemID string) string {
	return string(kind) + "/" + itemID
}

func copyResource(r model.Resource) model.Resource {
	out := r
	out.Bookings = make([]model.BookingEntry, len(r.Bookings))
	copy(out.Bookings, r.Bookings)
	return out
}

func copyEvent(ev model.Event) model.Event {
	out := ev
	out.Allocations = make([]model.ResourceAllocation, len(ev.Allocations))
	copy(out.Allocations, ev.Allocations)
	out.Incidents = make([]model.IncidentNote, len(ev.Incidents))
	copy(out.Incidents, ev.Incidents)
	return out
}

// GetCoverageRequest returns the request with the given id
func (m *MemoryStore) GetCoverageRequest(ctx context.Context, id string) (*model.CoverageRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("coverage request %s: %w", id, ErrNotFound)
	}
	return &req, nil
}

// InsertCoverageRequest stores a new request
func (m *MemoryStore) InsertCoverageRequest(ctx context.Context, req *model.CoverageRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests[req.ID] = *req
	return nil
}

// UpdateCoverageRequestStatus sets the status of an existing request
func (m *MemoryStore) UpdateCoverageRequestStatus(ctx context.Context, id string, status model.RequestStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok {
		return fmt.Errorf("coverage request %s: %w", id, ErrNotFound)
	}
	req.Status = status
	req.UpdatedAt = time.Now().UTC()
	m.requests[id] = req
	return nil
}

// GetEvent returns the event with the given id
func (m *MemoryStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ev, ok := m.events[id]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	out := copyEvent(ev)
	return &out, nil
}

// InsertEvent stores a new event
func (m *MemoryStore) InsertEvent(ctx context.Context, ev *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.events[ev.ID]; exists {
		return fmt.Errorf("event %s already exists", ev.ID)
	}
	m.events[ev.ID] = copyEvent(*ev)
	return nil
}

// UpdateEvent writes an event if the stored revision matches expectedRevision,
// bumping the revision on success
func (m *MemoryStore) UpdateEvent(ctx context.Context, ev *model.Event, expectedRevision int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.events[ev.ID]
	if !ok {
		return fmt.Errorf("event %s: %w", ev.ID, ErrNotFound)
	}
	if stored.Revision != expectedRevision {
		return fmt.Errorf("event %s revision %d (expected %d): %w", ev.ID, stored.Revision, expectedRevision, ErrVersionConflict)
	}
	next := copyEvent(*ev)
	next.Revision = expectedRevision + 1
	m.events[ev.ID] = next
	ev.Revision = next.Revision
	return nil
}

// DeleteEvent removes an event
func (m *MemoryStore) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	delete(m.events, id)
	return nil
}

// ListActiveEventsOverlapping returns scheduled/in-progress events whose
// window overlaps the given one, ordered by start time, capped at limit
func (m *MemoryStore) ListActiveEventsOverlapping(ctx context.Context, window model.TimeWindow, limit int) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Event
	for _, ev := range m.events {
		if ev.Status.ActiveEvent() && ev.Window.Overlaps(window) {
			out = append(out, copyEvent(ev))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.Start.Before(out[j].Window.Start) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetResource returns the resource with the given id
func (m *MemoryStore) GetResource(ctx context.Context, id string) (*model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s: %w", id, ErrNotFound)
	}
	out := copyResource(r)
	return &out, nil
}

// InsertResource stores a new resource at version 1
func (m *MemoryStore) InsertResource(ctx context.Context, r *model.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.resources[r.ID]; exists {
		return fmt.Errorf("resource %s already exists", r.ID)
	}
	stored := copyResource(*r)
	if stored.Version == 0 {
		stored.Version = 1
	}
	m.resources[r.ID] = stored
	r.Version = stored.Version
	return nil
}

// UpdateResource writes a resource if its carried version matches the stored
// one, bumping the version on success
func (m *MemoryStore) UpdateResource(ctx context.Context, r *model.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.resources[r.ID]
	if !ok {
		return fmt.Errorf("resource %s: %w", r.ID, ErrNotFound)
	}
	if stored.Version != r.Version {
		return fmt.Errorf("resource %s version %d (carried %d): %w", r.ID, stored.Version, r.Version, ErrVersionConflict)
	}
	next := copyResource(*r)
	next.Version = stored.Version + 1
	m.resources[r.ID] = next
	r.Version = next.Version
	return nil
}

// ListResourcesByCategory returns resources whose category matches, ordered by id
func (m *MemoryStore) ListResourcesByCategory(ctx context.Context, category string) ([]model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Resource
	for _, r := range m.resources {
		if r.Category() == category {
			out = append(out, copyResource(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ListResourcesBookedForEvent returns resources holding any booking entry for
// the given event, ordered by id
func (m *MemoryStore) ListResourcesBookedForEvent(ctx context.Context, eventID string) ([]model.Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Resource
	for _, r := range m.resources {
		for _, b := range r.Bookings {
			if b.EventID == eventID {
				out = append(out, copyResource(r))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetAssignment returns the assignment with the given id
func (m *MemoryStore) GetAssignment(ctx context.Context, id string) (*model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	return &a, nil
}

// InsertAssignment stores a new assignment
func (m *MemoryStore) InsertAssignment(ctx context.Context, a *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.assignments[a.ID] = *a
	return nil
}

// UpdateAssignment overwrites an existing assignment
func (m *MemoryStore) UpdateAssignment(ctx context.Context, a *model.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.assignments[a.ID]; !ok {
		return fmt.Errorf("assignment %s: %w", a.ID, ErrNotFound)
	}
	m.assignments[a.ID] = *a
	return nil
}

// ListOverdueApprovals returns requests awaiting approval whose SLA deadline
// has passed, ordered by deadline, capped at limit
func (m *MemoryStore) ListOverdueApprovals(ctx context.Context, now time.Time, limit int) ([]model.CoverageRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.CoverageRequest
	for _, req := range m.requests {
		if req.Status == model.RequestPendingApproval && req.SLADeadline != nil && req.SLADeadline.Before(now) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SLADeadline.Before(*out[j].SLADeadline) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListOverdueAssignments returns non-terminal assignments past their scheduled
// end, ordered by end, capped at limit
func (m *MemoryStore) ListOverdueAssignments(ctx context.Context, now time.Time, limit int) ([]model.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Assignment
	for _, a := range m.assignments {
		if !a.Status.Terminal() && a.Window.End.Before(now) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.End.Before(out[j].Window.End) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListOverrunEvents returns in-progress events past their scheduled end,
// ordered by end, capped at limit
func (m *MemoryStore) ListOverrunEvents(ctx context.Context, now time.Time, limit int) ([]model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Event
	for _, ev := range m.events {
		if ev.Status == model.EventInProgress && ev.Window.End.Before(now) {
			out = append(out, copyEvent(ev))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window.End.Before(out[j].Window.End) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListStaleDrafts returns draft requests created before olderThan, ordered by
// creation time, capped at limit
func (m *MemoryStore) ListStaleDrafts(ctx context.Context, olderThan time.Time, limit int) ([]model.CoverageRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.CoverageRequest
	for _, req := range m.requests {
		if req.Status == model.RequestDraft && req.CreatedAt.Before(olderThan) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetEscalationState returns the escalation record for an item, or a zero-tier
// record if none has been written yet
func (m *MemoryStore) GetEscalationState(ctx context.Context, kind EscalationItemKind, itemID string) (*EscalationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.escalations[escalationKey(kind, itemID)]
	if !ok {
		return &EscalationState{ItemKind: kind, ItemID: itemID}, nil
	}
	return &st, nil
}

// UpsertEscalationState writes the escalation record for an item
func (m *MemoryStore) UpsertEscalationState(ctx context.Context, st *EscalationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.escalations[escalationKey(st.ItemKind, st.ItemID)] = *st
	return nil
}
