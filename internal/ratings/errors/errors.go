package errors

import "errors"

var (
	ErrNotFound = errors.New("rating not found")

	ErrInvalidID = errors.New("invalid rating ID format")

	ErrTargetNotFound = errors.New("rating target not found")
)
