package model

import "errors"

var (
	// ErrNotFound: no record with the given id. Externally indistinguishable
	// from ErrForbidden; internal logs keep them apart.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the record exists but the caller is not its owner.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation: malformed or missing request fields, rejected before any
	// external call.
	ErrValidation = errors.New("validation error")

	// ErrNoCandidates: the POI filter returned an empty set; generation
	// terminates with nothing persisted.
	ErrNoCandidates = errors.New("no poi candidates")

	// ErrOptimizer: the optimizer was unavailable or returned an
	// unprocessable plan; generation terminates with nothing persisted.
	ErrOptimizer = errors.New("optimizer failure")

	// ErrNormalization: stored plan data violates canonical-shape invariants.
	ErrNormalization = errors.New("plan normalization failed")

	// ErrInvalidTransition: the requested status change is not a legal edge
	// of the itinerary state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
)
