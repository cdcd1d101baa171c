package storage

import "errors"

// Common storage errors.
var (
	// ErrNotFound is returned when a term is not found.
	ErrNotFound = errors.New("term not found")
)
