package errors

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	ErrInvalidID = errors.New("invalid user ID format")

	ErrEmailTaken = errors.New("email already registered")

	ErrInvalidToken = errors.New("invalid token")
)
