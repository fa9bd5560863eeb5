package model

import "time"

// Priority of a coverage request
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// RequestStatus is the lifecycle state of a coverage request
type RequestStatus string

const (
	RequestDraft           RequestStatus = "draft"
	RequestPendingApproval RequestStatus = "pending_approval"
	RequestPendingRevision RequestStatus = "pending_revision"
	RequestApproved        RequestStatus = "approved"
	RequestScheduled       RequestStatus = "scheduled"
	RequestRejected        RequestStatus = "rejected"
	RequestArchived        RequestStatus = "archived"
)

// EventStatus is the lifecycle state of a scheduled event
type EventStatus string

const (
	EventScheduled  EventStatus = "scheduled"
	EventInProgress EventStatus = "in_progress"
	EventCompleted  EventStatus = "completed"
	EventCancelled  EventStatus = "cancelled"
	EventPostponed  EventStatus = "postponed"
)

// AssignmentStatus is the lifecycle state of a personnel assignment
type AssignmentStatus string

const (
	AssignmentAssigned   AssignmentStatus = "assigned"
	AssignmentAccepted   AssignmentStatus = "accepted"
	AssignmentInProgress AssignmentStatus = "in_progress"
	AssignmentCompleted  AssignmentStatus = "completed"
	AssignmentDeclined   AssignmentStatus = "declined"
	AssignmentCancelled  AssignmentStatus = "cancelled"
)

// ResourceType classifies an allocatable resource
type ResourceType string

const (
	ResourcePersonnel ResourceType = "personnel"
	ResourceEquipment ResourceType = "equipment"
	ResourceVehicle   ResourceType = "vehicle"
)

// AvailabilityStatus is a resource's current availability
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityAssigned    AvailabilityStatus = "assigned"
	AvailabilityMaintenance AvailabilityStatus = "maintenance"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

// BookingStatus is the state of a single booking entry on a resource
type BookingStatus string

const (
	BookingTentative BookingStatus = "tentative"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Active reports whether the booking status blocks the resource's time
// (tentative and confirmed bookings count; completed and cancelled do not)
func (s BookingStatus) Active() bool {
	return s == BookingTentative || s == BookingConfirmed
}

// Location is a named place with optional coordinates
type Location struct {
	Name        string
	Address     string
	Coordinates *GeoPoint
}

// CoverageRequest is a proposal for a coverage event
type CoverageRequest struct {
	ID          string
	Title       string
	Category    string
	Priority    Priority
	Window      TimeWindow
	Location    Location
	Status      RequestStatus
	SLADeadline *time.Time
	RequesterID string
	Department  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IncidentNote is an append-only log entry recorded against an event
type IncidentNote struct {
	At       time.Time
	Severity string
	Note     string
}

// ResourceAllocation records the resources granted to an event for one category
type ResourceAllocation struct {
	Category    string
	ResourceIDs []string
}

// Event is a scheduled occurrence derived from an approved coverage request
type Event struct {
	ID          string
	RequestID   string
	Title       string
	Window      TimeWindow
	Location    Location
	Status      EventStatus
	Allocations []ResourceAllocation
	Incidents   []IncidentNote
	Department  string

	// Revision increments on every reschedule; stale writers carrying an old
	// revision are rejected by the store
	Revision int64

	ActualStart *time.Time
	ActualEnd   *time.Time
}

// BookingEntry is a single reservation on a resource's schedule
type BookingEntry struct {
	ID        string
	EventID   string
	Window    TimeWindow
	Status    BookingStatus
	Condition string
	Issues    []string
	CreatedAt time.Time
}

// Resource is an allocatable unit: personnel, equipment, or a vehicle
type Resource struct {
	ID              string
	Name            string
	Type            ResourceType
	Subtype         string
	Availability    AvailabilityStatus
	Location        *GeoPoint
	LastMaintenance *time.Time
	Bookings        []BookingEntry

	// Version supports optimistic concurrency: stores reject writes whose
	// version does not match the stored one, and bump it on success
	Version int64
}

// Assignment is a unit of personnel work tied to an event
type Assignment struct {
	ID          string
	EventID     string
	PersonnelID string
	Role        string
	Window      TimeWindow
	Status      AssignmentStatus
	Department  string
	ActualStart *time.Time
	ActualEnd   *time.Time
}

// Category returns the allocation category this resource matches:
// the role/subtype for personnel and the subtype for equipment and vehicles.
func (r *Resource) Category() string {
	return r.Subtype
}

// ActiveBookingOverlapping reports whether any tentative/confirmed booking
// entry overlaps the given window.
func (r *Resource) ActiveBookingOverlapping(w TimeWindow) bool {
	for _, b := range r.Bookings {
		if b.Status.Active() && b.Window.Overlaps(w) {
			return true
		}
	}
	return false
}

// FutureActiveBookings counts tentative/confirmed bookings starting at or
// after the given instant. Used as the load signal in candidate scoring.
func (r *Resource) FutureActiveBookings(now time.Time) int {
	n := 0
	for _, b := range r.Bookings {
		if b.Status.Active() && !b.Window.Start.Before(now) {
			n++
		}
	}
	return n
}
