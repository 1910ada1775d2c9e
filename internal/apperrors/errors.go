// Package apperrors defines the sentinel errors the service layer returns so
// handlers can map failures to distinct HTTP responses without string
// matching. Services wrap these with context via fmt.Errorf and %w.
package apperrors

import "errors"

var (
	// ErrValidation covers malformed input: percentages outside 0-100,
	// non-positive prices or rates, min >= max policy ranges.
	ErrValidation = errors.New("validation failed")

	// ErrPolicyRejected means the acceptance policy denies the requested
	// split and the seller does not allow negotiation.
	ErrPolicyRejected = errors.New("split rejected by acceptance policy")

	// ErrInvalidStateTransition covers attempts to alter a terminal
	// negotiation or advance a completed sell order.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	ErrNotFound               = errors.New("resource not found")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrDuplicateRequest       = errors.New("duplicate request")
	ErrConcurrentModification = errors.New("resource was modified concurrently")
)
