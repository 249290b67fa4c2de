package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrSchedulingConflict    = errors.New("scheduling conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
