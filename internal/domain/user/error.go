package user

import "errors"

var (
	ErrNotFound     = errors.New("user not found")
	ErrInvalidAuth  = errors.New("invalid credentials")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmailTaken   = errors.New("email already registered")

	// ErrInvalidStoreConfig is returned when a user-supplied connection
	// string fails the connectivity probe and must not be persisted.
	ErrInvalidStoreConfig = errors.New("storage preference failed validation")
)
