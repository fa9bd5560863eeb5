// Package allocator matches resource requirements against the available pool
// and maintains the booking-schedule invariant: for any resource, no two
// tentative/confirmed booking entries may overlap in time.
package allocator

import (
	"fmt"
	"sort"
	"time"

	"github.com/Gebrish-A/amc-scheduling/pkg/core/model"
)

// Requirements maps a resource category (personnel role, equipment subtype,
// vehicle subtype) to the number of units needed
type Requirements map[string]int

// Validate rejects empty manifests and non-positive counts before any
// persistence is touched
func (req Requirements) Validate() error {
	if len(req) == 0 {
		return fmt.Errorf("requirements must name at least one category")
	}
	for category, count := range req {
		if category == "" {
			return fmt.Errorf("requirements contain an empty category")
		}
		if count <= 0 {
			return fmt.Errorf("requirement for %q must be positive, got %d", category, count)
		}
	}
	return nil
}

// Categories returns the requirement categories in deterministic order
func (req Requirements) Categories() []string {
	out := make([]string, 0, len(req))
	for c := range req {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Selection is the outcome of matching one category against the pool
type Selection struct {
	Category  string
	Resources []model.Resource
	Shortfall int
}

// Result is the outcome of an allocation run. A non-empty Shortfall is a
// normal result, not an error; callers must branch on it.
type Result struct {
	EventID   string
	Granted   map[string][]string // category -> granted resource IDs
	Shortfall map[string]int      // category -> units that could not be filled
}

// Complete reports whether every requirement was fully satisfied
func (r *Result) Complete() bool {
	return len(r.Shortfall) == 0
}

// Select picks the top-scoring eligible resources for each required category.
// pools maps category to the queryable pool for that category. Selection is
// pure: it decides, the caller books.
func Select(requirements Requirements, pools map[string][]model.Resource, window model.TimeWindow, eventLoc *model.GeoPoint, now time.Time, w ScoringWeights) ([]Selection, error) {
	if err := requirements.Validate(); err != nil {
		return nil, err
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	var selections []Selection
	for _, category := range requirements.Categories() {
		need := requirements[category]
		ranked := RankCandidates(pools[category], window, eventLoc, now, w)

		take := need
		if take > len(ranked) {
			take = len(ranked)
		}

		sel := Selection{Category: category, Shortfall: need - take}
		for _, c := range ranked[:take] {
			sel.Resources = append(sel.Resources, c.Resource)
		}
		selections = append(selections, sel)
	}

	return selections, nil
}
