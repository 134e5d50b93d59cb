package errors

import "errors"

var (
	ErrNotFound = errors.New("availability exception not found")

	ErrInvalidID = errors.New("invalid exception ID format")

	// ErrDuplicateDate signals a second exception for the same provider and
	// date; the collection carries a unique index on that pair.
	ErrDuplicateDate = errors.New("an exception already exists for this provider and date")
)
