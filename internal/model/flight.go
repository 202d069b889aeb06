package model

import "time"

// Flight represents a schedulable flight offer ingested from the
// upstream flight-data provider.  Seats is the total capacity and is
// immutable after creation; SeatsAvailable is the mutable counter that
// the inventory layer decrements when holds are taken and restores
// when holds expire or are released.
//
// SeatsAvailable is never written by application-level read-modify-write:
// every mutation goes through an atomic conditional UPDATE that also
// bumps Version by exactly one.  Version therefore increases
// monotonically and can be used by callers to detect concurrent
// modification.
type Flight struct {
    ID             string    // flights.id (UUID)
    FlightNumber   string    // flights.flight_number (e.g. "MS804")
    Origin         string    // flights.origin IATA code
    Destination    string    // flights.destination IATA code
    DepartsAt      time.Time // flights.departs_at
    Seats          uint32    // flights.seats – total capacity
    SeatsAvailable uint32    // flights.seats_available – 0..Seats
    Version        uint64    // flights.version – bumped on every seat mutation
    OfferID        string    // flights.offer_id – external offer identifier (secondary key)
    CreatedAt      time.Time // flights.created_at
    UpdatedAt      time.Time // flights.updated_at
}
