package allocator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

func win(t *testing.T, startH, endH int) model.TimeWindow {
	t.Helper()
	return model.TimeWindow{
		Start: time.Date(2026, 3, 2, startH, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 2, endH, 0, 0, 0, time.UTC),
	}
}

func camera(id string) model.Resource {
	return model.Resource{
		ID:           id,
		Type:         model.ResourceEquipment,
		Subtype:      "camera",
		Availability: model.AvailabilityAvailable,
	}
}

func TestRequirementsValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Requirements
		wantErr bool
	}{
		{"valid", Requirements{"camera": 2, "driver": 1}, false},
		{"empty", Requirements{}, true},
		{"zero count", Requirements{"camera": 0}, true},
		{"negative count", Requirements{"camera": -1}, true},
		{"empty category", Requirements{"": 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectPartialAllocation(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window := win(t, 10, 12)

	// three cameramen requested, only two bookable
	busy := camera("cam-3")
	busy.Bookings = []model.BookingEntry{{EventID: "other", Window: window, Status: model.BookingConfirmed}}

	pools := map[string][]model.Resource{
		"cameraman": {camera("cam-1"), camera("cam-2"), busy},
	}

	selections, err := Select(Requirements{"cameraman": 3}, pools, window, nil, now, DefaultScoringWeights())
	require.NoError(t, err)
	require.Len(t, selections, 1)

	sel := selections[0]
	assert.Equal(t, "cameraman", sel.Category)
	assert.Len(t, sel.Resources, 2)
	assert.Equal(t, 1, sel.Shortfall, "shortfall is a normal result, not an error")
}

func TestSelectExcludesIneligible(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window := win(t, 10, 12)

	inMaintenance := camera("cam-m")
	inMaintenance.Availability = model.AvailabilityMaintenance
	unavailable := camera("cam-u")
	unavailable.Availability = model.AvailabilityUnavailable

	adjacent := camera("cam-adj")
	adjacent.Bookings = []model.BookingEntry{{EventID: "other", Window: win(t, 12, 14), Status: model.BookingConfirmed}}

	cancelledOverlap := camera("cam-c")
	cancelledOverlap.Bookings = []model.BookingEntry{{EventID: "other", Window: window, Status: model.BookingCancelled}}

	pools := map[string][]model.Resource{
		"camera": {inMaintenance, unavailable, adjacent, cancelledOverlap},
	}

	selections, err := Select(Requirements{"camera": 4}, pools, window, nil, now, DefaultScoringWeights())
	require.NoError(t, err)
	require.Len(t, selections, 1)

	ids := make([]string, 0)
	for _, r := range selections[0].Resources {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"cam-adj", "cam-c"}, ids,
		"adjacent bookings and cancelled overlaps do not disqualify; maintenance and unavailable do")
	assert.Equal(t, 2, selections[0].Shortfall)
}

func TestSelectMissingCategoryPool(t *testing.T) {
	now := time.Now()
	selections, err := Select(Requirements{"drone": 2}, map[string][]model.Resource{}, win(t, 10, 11), nil, now, DefaultScoringWeights())
	require.NoError(t, err)
	require.Len(t, selections, 1)
	assert.Empty(t, selections[0].Resources)
	assert.Equal(t, 2, selections[0].Shortfall)
}

func TestRankCandidatesPrefersCloserAndIdler(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	window := win(t, 10, 12)
	eventLoc := &model.GeoPoint{Lat: 9.0, Lon: 38.76}

	nearBusy := camera("near-busy")
	nearBusy.Location = &model.GeoPoint{Lat: 9.0, Lon: 38.76}
	nearBusy.Bookings = []model.BookingEntry{
		{EventID: "e1", Window: win(t, 13, 14), Status: model.BookingConfirmed},
		{EventID: "e2", Window: win(t, 15, 16), Status: model.BookingConfirmed},
		{EventID: "e3", Window: win(t, 17, 18), Status: model.BookingConfirmed},
	}

	farIdle := camera("far-idle")
	farIdle.Location = &model.GeoPoint{Lat: 11.5, Lon: 37.36}

	// proximity-dominated weights rank the nearby loaded unit first
	ranked := RankCandidates([]model.Resource{farIdle, nearBusy}, window, eventLoc, now, ScoringWeights{Proximity: 10, Load: 0.1})
	require.Len(t, ranked, 2)
	assert.Equal(t, "near-busy", ranked[0].Resource.ID)

	// load-dominated weights flip the order
	ranked = RankCandidates([]model.Resource{farIdle, nearBusy}, window, eventLoc, now, ScoringWeights{Proximity: 0.1, Load: 10})
	require.Len(t, ranked, 2)
	assert.Equal(t, "far-idle", ranked[0].Resource.ID)
}

func TestRankCandidatesDeterministicTieBreak(t *testing.T) {
	now := time.Now()
	window := win(t, 10, 12)

	ranked := RankCandidates([]model.Resource{camera("b"), camera("a"), camera("c")}, window, nil, now, DefaultScoringWeights())
	require.Len(t, ranked, 3)
	assert.Equal(t, "a", ranked[0].Resource.ID)
	assert.Equal(t, "b", ranked[1].Resource.ID)
	assert.Equal(t, "c", ranked[2].Resource.ID)
}

func TestScoreMaintenanceRecency(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	fresh := camera("fresh")
	freshAt := now.Add(-24 * time.Hour)
	fresh.LastMaintenance = &freshAt

	stale := camera("stale")
	staleAt := now.Add(-90 * 24 * time.Hour)
	stale.LastMaintenance = &staleAt

	w := ScoringWeights{MaintenanceRecency: 1}
	assert.Greater(t, Score(&fresh, nil, now, w), Score(&stale, nil, now, w))
}
