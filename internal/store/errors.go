package store

import "errors"

var (
	// ErrNotFound is returned when an entity ID has no row.
	ErrNotFound = errors.New("entity not found")
)
