package domain

import "errors"

// ErrNotFound is returned when an identifier could not be resolved to a record,
// either because a direct lookup found no row or because every resolution
// stage was exhausted. It is an expected outcome, not a fault.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when caller input is rejected before reaching the
// store (e.g. an unknown search type filter).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrStoreUnavailable wraps any transport or query failure from the record
// store. It is surfaced to the caller and never retried at this layer.
// Handlers should map this to HTTP 503 Service Unavailable.
var ErrStoreUnavailable = errors.New("store unavailable")
