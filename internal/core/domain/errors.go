package domain

import "errors"

// Sentinel errors shared by services, repositories and transport adapters.
// Callers match them with errors.Is; messages are wrapped with context.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrConflict          = errors.New("concurrent update conflict")
	ErrAlreadyReviewed   = errors.New("already reviewed")
	ErrAlreadyExists     = errors.New("already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// IsRetryable reports whether the caller may simply retry the operation.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}
