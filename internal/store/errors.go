package store

import "errors"

var (
	// ErrNotFound is returned when a document lookup misses. Handlers map
	// it to a 404 page instead of letting a nil document propagate.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when a path parameter is not a valid
	// document id.
	ErrInvalidID = errors.New("invalid document id")
)
