package domain

import "errors"

// Failure taxonomy of the booking core. Every error returned by the
// use cases wraps exactly one of these sentinels, so callers can map
// them to transport codes with errors.Is without inspecting messages.
var (
	// ErrUnauthorized is returned when no authenticated actor is present
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the actor lacks the role or ownership
	// required for the requested transition
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a referenced booking, customer, vehicle,
	// service or service center does not exist
	ErrNotFound = errors.New("not found")

	// ErrBusinessRuleViolation is returned when the requested transition is
	// illegal from the current status, or a required field is missing
	ErrBusinessRuleViolation = errors.New("business rule violation")

	// ErrConcurrencyConflict is returned when the booking was mutated by
	// another operation between load and commit
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)
