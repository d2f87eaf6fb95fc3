package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist locally.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity with the same natural key
	// is already present in the store.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConfigured indicates a required collaborator has not been
	// wired up (store, fetcher or configuration).
	ErrNotConfigured = errors.New("not configured")
)
