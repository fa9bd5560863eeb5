package escalation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTierFor(t *testing.T) {
	ladder := DefaultLadder()

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, TierNone},
		{time.Hour, TierNone},
		{2*time.Hour - time.Second, TierNone},
		{2 * time.Hour, TierFunctionalLead},
		{3 * time.Hour, TierFunctionalLead},
		{4 * time.Hour, TierSeniorLead},
		{5 * time.Hour, TierSeniorLead},
		{8 * time.Hour, TierDepartmentHead},
		{23 * time.Hour, TierDepartmentHead},
		{24 * time.Hour, TierSystemAdmin},
		{100 * time.Hour, TierSystemAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.elapsed.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ladder.TierFor(tt.elapsed))
		})
	}
}

func TestRoleForTier(t *testing.T) {
	assert.Equal(t, RoleFunctionalLead, RoleForTier(1))
	assert.Equal(t, RoleSeniorLead, RoleForTier(2))
	assert.Equal(t, RoleDepartmentHead, RoleForTier(3))
	assert.Equal(t, RoleSystemAdmin, RoleForTier(4))
	assert.Equal(t, "", RoleForTier(0))
}
