package allocator

// ScoringWeights control how available resources are ranked when a
// requirement can be satisfied by more than one candidate. Ranking never
// affects correctness (an overlapping booking always disqualifies); it only
// decides which qualified candidate is preferred.
type ScoringWeights struct {
	// Proximity is the weight applied to how close the resource currently is
	// to the event location. Closer resources score higher.
	Proximity float64 `yaml:"proximity"`

	// MaintenanceRecency is the weight applied to how recently the resource
	// was maintained. Recently serviced resources score higher.
	MaintenanceRecency float64 `yaml:"maintenanceRecency"`

	// Load is the weight applied to the resource's current booking load.
	// Resources with fewer future bookings score higher, spreading wear
	// across the pool.
	Load float64 `yaml:"load"`
}

// DefaultScoringWeights returns the standard scoring policy
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Proximity:          2.0,
		MaintenanceRecency: 1.0,
		Load:               1.5,
	}
}
