package services

import "errors"

// Validation failures are distinct from persistence errors: they are rejected
// before any mutation and map to 4xx at the handler boundary.
var (
	ErrNotFound         = errors.New("record not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrSelfPredecessor  = errors.New("schedule item cannot be its own predecessor")
	ErrCyclicDependency = errors.New("predecessor assignment would create a cycle")
	ErrPredecessorInUse = errors.New("schedule item is still referenced as a predecessor")
)
