package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("resource not found")
	ErrSourceDisabled        = errors.New("source is not enabled")
	ErrIdentityConflict      = errors.New("identity conflict")
	ErrTransport             = errors.New("transport failure")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
