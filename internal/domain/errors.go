package domain

import "errors"

// Sentinel errors shared across repositories and services. Controllers map
// these to HTTP status codes; everything else is treated as an internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrAlreadyRegistered = errors.New("user is already registered for this event")
	ErrEventFull         = errors.New("event is at full capacity")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
)
