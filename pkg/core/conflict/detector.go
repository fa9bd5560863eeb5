// Package conflict decides whether a proposed event window collides with
// existing commitments, in time and (optionally) in space. Detection is
// read-only: it reports collisions and leaves the block-or-override decision
// to the caller.
package conflict

import (
	"context"
	"fmt"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// DefaultRadiusKm is the spatial conflict radius used when none is configured
const DefaultRadiusKm = 5.0

// DefaultResultLimit caps how many candidate events one check considers
const DefaultResultLimit = 20

// EventSource supplies the committed events a proposed window is checked against
type EventSource interface {
	ListActiveEventsOverlapping(ctx context.Context, window model.TimeWindow, limit int) ([]model.Event, error)
}

// SpatialConflict is an active event overlapping in time within the radius
type SpatialConflict struct {
	Event      model.Event
	DistanceKm float64
}

// Set separates temporal from spatial collisions. A spatial conflict is also
// a temporal one; events appear in Temporal regardless.
type Set struct {
	Temporal []model.Event
	Spatial  []SpatialConflict
}

// Empty reports whether no conflicts were found
func (s *Set) Empty() bool {
	return len(s.Temporal) == 0 && len(s.Spatial) == 0
}

// Detector finds temporal and spatial conflicts for proposed windows
type Detector struct {
	source   EventSource
	radiusKm float64
	limit    int
}

// NewDetector creates a detector over the given event source. Non-positive
// radius or limit fall back to the defaults.
func NewDetector(source EventSource, radiusKm float64, limit int) *Detector {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	return &Detector{source: source, radiusKm: radiusKm, limit: limit}
}

// Find returns all committed events colliding with the proposed window.
// location may be nil, in which case only temporal conflicts are reported.
// excludeEventID skips one event (the event being rescheduled); pass "" to
// check against everything.
func (d *Detector) Find(ctx context.Context, window model.TimeWindow, location *model.GeoPoint, excludeEventID string) (*Set, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("invalid window: %w", err)
	}

	candidates, err := d.source.ListActiveEventsOverlapping(ctx, window, d.limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate events: %w", err)
	}

	set := &Set{}
	for _, ev := range candidates {
		if ev.ID == excludeEventID {
			continue
		}
		// store queries are trusted but the overlap test is re-run here so the
		// detector is correct over any EventSource
		if !ev.Window.Overlaps(window) {
			continue
		}
		set.Temporal = append(set.Temporal, ev)

		if location == nil || ev.Location.Coordinates == nil {
			continue
		}
		dist := location.DistanceKm(*ev.Location.Coordinates)
		if dist <= d.radiusKm {
			set.Spatial = append(set.Spatial, SpatialConflict{Event: ev, DistanceKm: dist})
		}
	}

	return set, nil
}
