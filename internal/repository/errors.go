package repository

import "errors"

var (
	// ErrNotFound is returned when the requested trip, user or chat does
	// not exist in the store.
	ErrNotFound = errors.New("entity not found")
)
