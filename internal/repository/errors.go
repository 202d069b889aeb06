// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// inventory manager and handlers to distinguish between different
// failure scenarios without inspecting driver-specific errors. Store
// failures that do not match a sentinel (connection errors, timeouts)
// are wrapped and propagated unchanged.
package repository

import "errors"

// ErrFlightNotFound is returned when the referenced flight does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrFlightNotFound = errors.New("flight not found")

// ErrInsufficientSeats is returned when the atomic conditional
// decrement touched zero rows because not enough seats remain.
// Handlers should translate this into an HTTP 409 response; the
// caller may retry with fewer seats but the system never auto-retries.
var ErrInsufficientSeats = errors.New("insufficient seats available")

// ErrDuplicateHold is returned when a non-expired hold already exists
// for the checkout session. The caller should reuse the existing hold.
var ErrDuplicateHold = errors.New("active hold already exists for session")

// ErrHoldNotFound is returned when a hold lookup by identifier finds
// no row.
var ErrHoldNotFound = errors.New("hold not found")

// ErrInvalidIdentifier is returned for malformed flight or hold
// identifiers before any store round-trip is attempted.
var ErrInvalidIdentifier = errors.New("invalid identifier")
