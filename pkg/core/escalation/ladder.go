package escalation

import "time"

// Escalation tiers. Tier 0 means not escalated.
const (
	TierNone           = 0
	TierFunctionalLead = 1
	TierSeniorLead     = 2
	TierDepartmentHead = 3
	TierSystemAdmin    = 4
)

// Recipient roles resolved through the directory, one per tier
const (
	RoleFunctionalLead = "functional_lead"
	RoleSeniorLead     = "senior_lead"
	RoleDepartmentHead = "department_head"
	RoleSystemAdmin    = "system_administrator"
)

// Ladder maps how long an item has been overdue to an escalation tier.
// Thresholds are lower bounds: elapsed >= Tier4 is tier 4, elapsed >= Tier3
// is tier 3, and so on. Elapsed below Tier1 is tier 0.
type Ladder struct {
	Tier1 time.Duration
	Tier2 time.Duration
	Tier3 time.Duration
	Tier4 time.Duration
}

// DefaultLadder returns the standard 2/4/8/24 hour ladder
func DefaultLadder() Ladder {
	return Ladder{
		Tier1: 2 * time.Hour,
		Tier2: 4 * time.Hour,
		Tier3: 8 * time.Hour,
		Tier4: 24 * time.Hour,
	}
}

// TierFor derives the escalation tier from elapsed overdue time
func (l Ladder) TierFor(elapsed time.Duration) int {
	switch {
	case elapsed >= l.Tier4:
		return TierSystemAdmin
	case elapsed >= l.Tier3:
		return TierDepartmentHead
	case elapsed >= l.Tier2:
		return TierSeniorLead
	case elapsed >= l.Tier1:
		return TierFunctionalLead
	default:
		return TierNone
	}
}

// RoleForTier returns the directory role notified at the given tier
func RoleForTier(tier int) string {
	switch tier {
	case TierFunctionalLead:
		return RoleFunctionalLead
	case TierSeniorLead:
		return RoleSeniorLead
	case TierDepartmentHead:
		return RoleDepartmentHead
	case TierSystemAdmin:
		return RoleSystemAdmin
	default:
		return ""
	}
}
