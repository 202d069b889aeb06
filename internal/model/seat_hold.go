package model

import "time"

// SeatHold represents a temporary claim on a number of seats during
// the checkout process.  Holds prevent concurrent bookings from
// grabbing the same seats while a user is in the process of paying.
// The held seat count is already reflected as a decrement in the
// referenced flight's SeatsAvailable – the hold is the receipt that
// makes the decrement reversible.  Holds expire automatically at
// their expires_at timestamp and are reclaimed by the reaper.
//
// Fields:
//  ID        – primary key identifier (UUID).
//  FlightID  – flight on which the seats are held.  Not enforced by a
//              foreign key: holds can be created before the flight's
//              canonical reference is finalised, so a dangling value
//              is a recognised anomaly handled by the reaper and the
//              admin reconciliation, not a crash.
//  SessionID – opaque checkout session identifier; at most one
//              non-expired hold may exist per session.
//  Seats     – number of seats held (positive).
//  ExpiresAt – when the hold expires.
//  CreatedAt – when the hold was created.
type SeatHold struct {
    ID        string    // seat_holds.id
    FlightID  string    // seat_holds.flight_id
    SessionID string    // seat_holds.session_id
    Seats     uint32    // seat_holds.seats
    ExpiresAt time.Time // seat_holds.expires_at
    CreatedAt time.Time // seat_holds.created_at
}

// Expired reports whether the hold's expiry has passed relative to now.
func (h *SeatHold) Expired(now time.Time) bool {
    return !h.ExpiresAt.After(now)
}
