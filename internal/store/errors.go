package store

import "errors"

// Precondition errors surfaced to the submitting user. Domain operations
// return these without mutating anything; multi-step writes run in one
// transaction so a failure never leaves a partial update behind.
var (
	// ErrNotFound is returned by domain operations whose target row is gone.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateAssignment is returned when a chore is assigned to a child
	// that already has an open assignment for it.
	ErrDuplicateAssignment = errors.New("chore already assigned to this child")

	// ErrWrongState is returned when an assignment is approved or rejected
	// while not awaiting review.
	ErrWrongState = errors.New("assignment is not awaiting review")

	// ErrInsufficientPoints is returned when a child purchases a reward
	// costing more than their balance.
	ErrInsufficientPoints = errors.New("not enough points for this reward")
)
