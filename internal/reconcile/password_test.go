package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTier(t *testing.T) {
	elevated := []string{"Domain Admins", "Administrators"}

	tests := []struct {
		name     string
		memberOf []string
		expected CredentialTier
	}{
		{
			name:     "No groups",
			memberOf: nil,
			expected: TierStandard,
		},
		{
			name:     "Ordinary groups only",
			memberOf: []string{"Developers", "Operators"},
			expected: TierStandard,
		},
		{
			name:     "Direct elevated membership",
			memberOf: []string{"Developers", "Domain Admins"},
			expected: TierElevated,
		},
		{
			name:     "Substring must not elevate",
			memberOf: []string{"Administratorship", "Domain Administration"},
			expected: TierStandard,
		},
		{
			name:     "Case differences must not elevate",
			memberOf: []string{"domain admins"},
			expected: TierStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyTier(tt.memberOf, elevated))
		})
	}
}

func TestClassifyTierNoElevatedGroupsConfigured(t *testing.T) {
	assert.Equal(t, TierStandard, ClassifyTier([]string{"Domain Admins"}, nil))
}
