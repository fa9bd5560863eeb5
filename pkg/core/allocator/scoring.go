package allocator

import (
	"sort"
	"time"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// Candidate pairs a qualified resource with its ranking score
type Candidate struct {
	Resource model.Resource
	Score    float64
}

// Eligible reports whether a resource can serve a booking over the window at
// all: availability permits and no tentative/confirmed booking overlaps.
// This is the correctness gate; scoring only orders whatever passes it.
func Eligible(r *model.Resource, window model.TimeWindow) bool {
	if r.Availability == model.AvailabilityUnavailable || r.Availability == model.AvailabilityMaintenance {
		return false
	}
	return !r.ActiveBookingOverlapping(window)
}

// Score computes the weighted ranking score for a candidate.
// Each component is normalized into (0, 1] before weighting:
//   - proximity:   1 / (1 + distanceKm)
//   - maintenance: 1 / (1 + days since last maintenance)
//   - load:        1 / (1 + future active bookings)
//
// Resources with unknown location or maintenance history take the component's
// floor rather than being disqualified.
func Score(r *model.Resource, eventLoc *model.GeoPoint, now time.Time, w ScoringWeights) float64 {
	proximity := 0.0
	if eventLoc != nil && r.Location != nil {
		proximity = 1 / (1 + r.Location.DistanceKm(*eventLoc))
	}

	maintenance := 0.0
	if r.LastMaintenance != nil {
		days := now.Sub(*r.LastMaintenance).Hours() / 24
		if days < 0 {
			days = 0
		}
		maintenance = 1 / (1 + days)
	}

	load := 1 / (1 + float64(r.FutureActiveBookings(now)))

	return w.Proximity*proximity + w.MaintenanceRecency*maintenance + w.Load*load
}

// RankCandidates filters the pool down to resources eligible for the window
// and orders them best-first. Ties break on resource ID so ranking is
// deterministic.
func RankCandidates(pool []model.Resource, window model.TimeWindow, eventLoc *model.GeoPoint, now time.Time, w ScoringWeights) []Candidate {
	var candidates []Candidate
	for i := range pool {
		r := &pool[i]
		if !Eligible(r, window) {
			continue
		}
		candidates = append(candidates, Candidate{Resource: pool[i], Score: Score(r, eventLoc, now, w)})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Resource.ID < candidates[j].Resource.ID
	})

	return candidates
}
