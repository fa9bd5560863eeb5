package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestStatusTransitions(t *testing.T) {
	assert.True(t, RequestDraft.CanTransitionTo(RequestPendingApproval))
	assert.True(t, RequestPendingApproval.CanTransitionTo(RequestApproved))
	assert.True(t, RequestPendingApproval.CanTransitionTo(RequestRejected))
	assert.True(t, RequestPendingApproval.CanTransitionTo(RequestPendingRevision))
	assert.True(t, RequestPendingRevision.CanTransitionTo(RequestPendingApproval))
	assert.True(t, RequestApproved.CanTransitionTo(RequestScheduled))
	assert.False(t, RequestDraft.CanTransitionTo(RequestApproved))
	assert.False(t, RequestRejected.CanTransitionTo(RequestPendingApproval))
	assert.False(t, RequestScheduled.CanTransitionTo(RequestApproved))
	assert.True(t, RequestArchived.Terminal())
	assert.False(t, RequestDraft.Terminal())
}

func TestEventStatusForwardOnly(t *testing.T) {
	tests := []struct {
		from EventStatus
		to   EventStatus
		want bool
	}{
		{EventScheduled, EventInProgress, true},
		{EventScheduled, EventCancelled, true},
		{EventScheduled, EventPostponed, true},
		{EventScheduled, EventCompleted, false},
		{EventInProgress, EventCompleted, true},
		{EventInProgress, EventScheduled, false},
		{EventPostponed, EventScheduled, true},
		{EventCompleted, EventScheduled, false},
		{EventCompleted, EventInProgress, false},
		{EventCompleted, EventCancelled, false},
		{EventCancelled, EventScheduled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, EventCompleted.Terminal())
	assert.True(t, EventCancelled.Terminal())
	assert.False(t, EventScheduled.Terminal())
}

func TestAssignmentStatusForwardOnly(t *testing.T) {
	assert.True(t, AssignmentAssigned.CanTransitionTo(AssignmentAccepted))
	assert.True(t, AssignmentAccepted.CanTransitionTo(AssignmentInProgress))
	assert.True(t, AssignmentInProgress.CanTransitionTo(AssignmentCompleted))
	assert.False(t, AssignmentCompleted.CanTransitionTo(AssignmentInProgress))
	assert.False(t, AssignmentDeclined.CanTransitionTo(AssignmentAssigned))
	assert.True(t, AssignmentCompleted.Terminal())
}

func TestResourceBookingHelpers(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	w := func(startH, endH int) TimeWindow {
		return TimeWindow{
			Start: time.Date(2026, 3, 1, startH, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 1, endH, 0, 0, 0, time.UTC),
		}
	}

	r := Resource{
		ID: "cam-1",
		Bookings: []BookingEntry{
			{EventID: "ev-1", Window: w(10, 12), Status: BookingConfirmed},
			{EventID: "ev-2", Window: w(14, 15), Status: BookingCancelled},
			{EventID: "ev-3", Window: w(16, 17), Status: BookingTentative},
		},
	}

	assert.True(t, r.ActiveBookingOverlapping(w(11, 13)))
	assert.False(t, r.ActiveBookingOverlapping(w(12, 14)), "adjacent confirmed booking does not overlap")
	assert.False(t, r.ActiveBookingOverlapping(w(14, 15)), "cancelled bookings do not block")
	assert.True(t, r.ActiveBookingOverlapping(w(16, 17)), "tentative bookings block")

	assert.Equal(t, 2, r.FutureActiveBookings(now))
	assert.Equal(t, 1, r.FutureActiveBookings(time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)))
}
