// internal/pricing/policy.go
package pricing

import (
	"fmt"

	"github.com/cincoin-asia/cincoin-backend/internal/apperrors"
)

type AcceptType string

const (
	AcceptTypeFixed AcceptType = "FIXED"
	AcceptTypeRange AcceptType = "RANGE"
)

// Acceptance is the outcome of checking a candidate split percentage against
// a product's policy.
type Acceptance string

const (
	Allowed             Acceptance = "ALLOWED"
	RequiresNegotiation Acceptance = "REQUIRES_NEGOTIATION"
	Rejected            Acceptance = "REJECTED"
)

// Policy is a product's declared rule for how much of the price may be paid
// in tokens. For FIXED only FixedPercent is meaningful; for RANGE only
// MinPercent/MaxPercent are.
type Policy struct {
	AcceptType       AcceptType
	FixedPercent     float64
	MinPercent       float64
	MaxPercent       float64
	AllowNegotiation bool
}

// Validate checks the policy's own invariants before it is saved on a
// product or used to judge a split.
func (p Policy) Validate() error {
	switch p.AcceptType {
	case AcceptTypeFixed:
		if p.FixedPercent < 0 || p.FixedPercent > 100 {
			return fmt.Errorf("%w: fixed percent must be within [0,100], got %v", apperrors.ErrValidation, p.FixedPercent)
		}
	case AcceptTypeRange:
		if p.MinPercent < 0 || p.MaxPercent > 100 || p.MinPercent >= p.MaxPercent {
			return fmt.Errorf("%w: range must satisfy 0 <= min < max <= 100, got [%v,%v]", apperrors.ErrValidation, p.MinPercent, p.MaxPercent)
		}
	default:
		return fmt.Errorf("%w: unknown accept type %q", apperrors.ErrValidation, p.AcceptType)
	}
	return nil
}

// CheckAcceptance decides whether a buyer's candidate percentage can proceed
// directly, must go through seller negotiation, or is rejected outright.
func CheckAcceptance(policy Policy, percent float64) (Acceptance, error) {
	if err := policy.Validate(); err != nil {
		return "", err
	}
	if percent < 0 || percent > 100 {
		return "", fmt.Errorf("%w: percent must be within [0,100], got %v", apperrors.ErrValidation, percent)
	}

	var ok bool
	switch policy.AcceptType {
	case AcceptTypeFixed:
		ok = percent == policy.FixedPercent
	case AcceptTypeRange:
		ok = percent >= policy.MinPercent && percent <= policy.MaxPercent
	}

	if ok {
		return Allowed, nil
	}
	if policy.AllowNegotiation {
		return RequiresNegotiation, nil
	}
	return Rejected, nil
}
