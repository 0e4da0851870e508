package domain

import "errors"

// Error kinds surfaced by the booking core. The HTTP adapter maps each to a
// transport status; the core itself only ever wraps these with context.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
	ErrCapacity   = errors.New("room capacity exceeded")
	ErrConflict   = errors.New("room not available for the selected dates")
	ErrForbidden  = errors.New("not authorized")
)
