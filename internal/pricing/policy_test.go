// internal/pricing/policy_test.go
package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
)

func TestCheckAcceptanceFixed(t *testing.T) {
	policy := Policy{AcceptType: AcceptTypeFixed, FixedPercent: 30}

	result, err := CheckAcceptance(policy, 30)
	assert.NoError(t, err)
	assert.Equal(t, Allowed, result)

	// Off-policy without negotiation is a hard rejection.
	result, err = CheckAcceptance(policy, 31)
	assert.NoError(t, err)
	assert.Equal(t, Rejected, result)

	policy.AllowNegotiation = true
	result, err = CheckAcceptance(policy, 31)
	assert.NoError(t, err)
	assert.Equal(t, RequiresNegotiation, result)
}

func TestCheckAcceptanceRange(t *testing.T) {
	policy := Policy{AcceptType: AcceptTypeRange, MinPercent: 20, MaxPercent: 60, AllowNegotiation: true}

	tests := []struct {
		percent float64
		want    Acceptance
	}{
		{20, Allowed},
		{40, Allowed},
		{60, Allowed},
		{19, RequiresNegotiation},
		{61, RequiresNegotiation},
		{0, RequiresNegotiation},
		{100, RequiresNegotiation},
	}

	for _, tt := range tests {
		result, err := CheckAcceptance(policy, tt.percent)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, result, "percent=%v", tt.percent)
	}

	policy.AllowNegotiation = false
	result, err := CheckAcceptance(policy, 19)
	assert.NoError(t, err)
	assert.Equal(t, Rejected, result)
}

func TestPolicyValidation(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{"min equals max", Policy{AcceptType: AcceptTypeRange, MinPercent: 50, MaxPercent: 50}},
		{"min above max", Policy{AcceptType: AcceptTypeRange, MinPercent: 60, MaxPercent: 20}},
		{"negative min", Policy{AcceptType: AcceptTypeRange, MinPercent: -1, MaxPercent: 50}},
		{"max above 100", Policy{AcceptType: AcceptTypeRange, MinPercent: 10, MaxPercent: 101}},
		{"fixed above 100", Policy{AcceptType: AcceptTypeFixed, FixedPercent: 110}},
		{"unknown type", Policy{AcceptType: "SOMETHING"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.policy.Validate(), apperrors.ErrValidation)
		})
	}

	assert.NoError(t, Policy{AcceptType: AcceptTypeFixed, FixedPercent: 100}.Validate())
	assert.NoError(t, Policy{AcceptType: AcceptTypeRange, MinPercent: 0, MaxPercent: 100}.Validate())
}

func TestCheckAcceptancePercentOutOfRange(t *testing.T) {
	policy := Policy{AcceptType: AcceptTypeRange, MinPercent: 20, MaxPercent: 60}

	_, err := CheckAcceptance(policy, -5)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = CheckAcceptance(policy, 120)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
