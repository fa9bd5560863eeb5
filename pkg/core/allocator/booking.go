package allocator

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// ErrOverlappingBooking is returned when appending a booking would violate the
// non-overlap invariant on a resource's schedule
var ErrOverlappingBooking = errors.New("overlapping active booking")

// ErrNoActiveBooking is returned by Checkin when the resource holds no
// tentative/confirmed booking for the event
var ErrNoActiveBooking = errors.New("no active booking for event")

// Book appends a confirmed booking entry for the event, enforcing the
// non-overlap invariant, and flips availability to assigned when the window
// contains now. The mutation is in-memory; the caller persists the resource
// under its optimistic version.
func Book(r *model.Resource, eventID string, window model.TimeWindow, now time.Time) (*model.BookingEntry, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if r.ActiveBookingOverlapping(window) {
		return nil, fmt.Errorf("resource %s: %w", r.ID, ErrOverlappingBooking)
	}

	entry := model.BookingEntry{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Window:    window,
		Status:    model.BookingConfirmed,
		CreatedAt: now,
	}
	r.Bookings = append(r.Bookings, entry)

	if window.Contains(now) {
		r.Availability = model.AvailabilityAssigned
	}

	return &entry, nil
}

// Release closes every active booking the resource holds for the event:
// entries whose window has already started become completed, the rest
// cancelled. Availability is then recomputed. Returns the number of entries
// closed.
func Release(r *model.Resource, eventID string, now time.Time) int {
	closed := 0
	for i := range r.Bookings {
		b := &r.Bookings[i]
		if b.EventID != eventID || !b.Status.Active() {
			continue
		}
		if b.Window.Start.Before(now) {
			b.Status = model.BookingCompleted
		} else {
			b.Status = model.BookingCancelled
		}
		closed++
	}
	if closed > 0 {
		RecomputeAvailability(r, now)
	}
	return closed
}

// Checkin completes the resource's active booking for the event, recording
// the reported condition and any issues. A reported defect sends the resource
// to maintenance; otherwise availability is recomputed from the remaining
// schedule.
func Checkin(r *model.Resource, eventID string, condition string, issues []string, now time.Time) error {
	var entry *model.BookingEntry
	for i := range r.Bookings {
		b := &r.Bookings[i]
		if b.EventID == eventID && b.Status.Active() {
			entry = b
			break
		}
	}
	if entry == nil {
		return fmt.Errorf("resource %s, event %s: %w", r.ID, eventID, ErrNoActiveBooking)
	}

	entry.Status = model.BookingCompleted
	entry.Condition = condition
	entry.Issues = issues

	if len(issues) > 0 {
		r.Availability = model.AvailabilityMaintenance
		return nil
	}
	RecomputeAvailability(r, now)
	return nil
}

// RecomputeAvailability derives availability from the booking schedule:
// assigned while any active booking covers now, available otherwise.
// Maintenance and unavailable are administrative states and never overwritten.
func RecomputeAvailability(r *model.Resource, now time.Time) {
	if r.Availability == model.AvailabilityMaintenance || r.Availability == model.AvailabilityUnavailable {
		return
	}
	for _, b := range r.Bookings {
		if b.Status.Active() && b.Window.Contains(now) {
			r.Availability = model.AvailabilityAssigned
			return
		}
	}
	r.Availability = model.AvailabilityAvailable
}
