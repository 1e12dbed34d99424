package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrSlotTaken = errors.New("time slot already has a confirmed booking")

	ErrStatusChanged = errors.New("booking status changed concurrently")

	ErrAlreadyCancelled = errors.New("booking already has a cancellation record")
)
