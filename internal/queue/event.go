// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer that move them.
package queue

// Hold event types carried in HoldEvent.Type.
const (
    EventHoldCreated   = "hold.created"
    EventHoldReleased  = "hold.released"
    EventHoldConfirmed = "hold.confirmed"
)

// HoldEvent is published on every hold lifecycle transition.  It
// contains enough information for downstream consumers to log, notify
// or trigger analytics without querying the primary database.
type HoldEvent struct {
    Type       string `json:"type"`
    HoldID     string `json:"hold_id"`
    FlightID   string `json:"flight_id"`
    SessionID  string `json:"session_id"`
    Seats      uint32 `json:"seats"`
    ExpiresAt  string `json:"expires_at"`
    OccurredAt string `json:"occurred_at"`
}
