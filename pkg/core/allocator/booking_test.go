package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

func TestBookEnforcesNonOverlap(t *testing.T) {
	now := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	r := camera("cam-1")

	// Event A [09:00, 10:00)
	_, err := Book(&r, "ev-a", win(t, 9, 10), now)
	require.NoError(t, err)

	// Event B [09:30, 09:45) overlaps and must be rejected
	_, err = Book(&r, "ev-b", model.TimeWindow{
		Start: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC),
	}, now)
	assert.ErrorIs(t, err, ErrOverlappingBooking)

	// [10:00, 10:30) is adjacent and must succeed
	_, err = Book(&r, "ev-c", model.TimeWindow{
		Start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
	}, now)
	require.NoError(t, err)

	// invariant: no two active entries overlap
	for i, a := range r.Bookings {
		for j, b := range r.Bookings {
			if i < j && a.Status.Active() && b.Status.Active() {
				assert.False(t, a.Window.Overlaps(b.Window))
			}
		}
	}
}

func TestBookAvailabilityFlip(t *testing.T) {
	window := win(t, 10, 12)

	// booking for a window containing now flips availability immediately
	r := camera("cam-1")
	_, err := Book(&r, "ev-now", window, window.Start.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityAssigned, r.Availability)

	// a future booking leaves the resource available
	r2 := camera("cam-2")
	_, err = Book(&r2, "ev-later", window, window.Start.Add(-6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityAvailable, r2.Availability)
}

func TestReleaseCompletesStartedCancelsFuture(t *testing.T) {
	r := camera("cam-1")
	started, err := Book(&r, "ev-1", win(t, 9, 11), win(t, 9, 11).Start.Add(-time.Hour))
	require.NoError(t, err)
	future, err := Book(&r, "ev-1", win(t, 14, 15), win(t, 9, 11).Start.Add(-time.Hour))
	require.NoError(t, err)
	other, err := Book(&r, "ev-2", win(t, 16, 17), win(t, 9, 11).Start.Add(-time.Hour))
	require.NoError(t, err)

	// release at 10:00 - the first booking has started, the second has not
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	closed := Release(&r, "ev-1", now)
	assert.Equal(t, 2, closed)

	byID := map[string]model.BookingStatus{}
	for _, b := range r.Bookings {
		byID[b.ID] = b.Status
	}
	assert.Equal(t, model.BookingCompleted, byID[started.ID])
	assert.Equal(t, model.BookingCancelled, byID[future.ID])
	assert.Equal(t, model.BookingConfirmed, byID[other.ID], "other events' bookings are untouched")

	// releasing again is a no-op
	assert.Equal(t, 0, Release(&r, "ev-1", now))
}

func TestCheckin(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	r := camera("cam-1")
	_, err := Book(&r, "ev-1", win(t, 10, 12), now.Add(-3*time.Hour))
	require.NoError(t, err)

	require.NoError(t, Checkin(&r, "ev-1", "good", nil, now))
	assert.Equal(t, model.BookingCompleted, r.Bookings[0].Status)
	assert.Equal(t, "good", r.Bookings[0].Condition)
	assert.Equal(t, model.AvailabilityAvailable, r.Availability)

	// no active booking left for the event
	err = Checkin(&r, "ev-1", "good", nil, now)
	assert.ErrorIs(t, err, ErrNoActiveBooking)
}

func TestCheckinWithDefectGoesToMaintenance(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	r := camera("cam-1")
	_, err := Book(&r, "ev-1", win(t, 10, 12), now.Add(-3*time.Hour))
	require.NoError(t, err)

	require.NoError(t, Checkin(&r, "ev-1", "damaged", []string{"cracked lens"}, now))
	assert.Equal(t, model.AvailabilityMaintenance, r.Availability)
	assert.Equal(t, []string{"cracked lens"}, r.Bookings[0].Issues)
}

func TestRecomputeAvailabilityPreservesAdministrativeStates(t *testing.T) {
	now := time.Now()

	r := camera("cam-1")
	r.Availability = model.AvailabilityMaintenance
	RecomputeAvailability(&r, now)
	assert.Equal(t, model.AvailabilityMaintenance, r.Availability)

	r.Availability = model.AvailabilityUnavailable
	RecomputeAvailability(&r, now)
	assert.Equal(t, model.AvailabilityUnavailable, r.Availability)
}
