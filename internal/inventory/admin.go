package inventory

import (
    "context"
    "errors"
    "fmt"
    "log"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
)

// Admin bundles the operational recovery utilities.  These are not part
// of the request path; they are exposed only through authenticated
// admin endpoints and run manually after data inconsistencies.
type Admin struct {
    flights FlightStore
    holds   HoldStore
    cache   AvailabilityCache // optional
}

// NewAdmin constructs the admin operations over the same stores the
// manager uses.
func NewAdmin(flights FlightStore, holds HoldStore, cache AvailabilityCache) *Admin {
    if flights == nil || holds == nil {
        panic("nil store passed to NewAdmin")
    }
    return &Admin{flights: flights, holds: holds, cache: cache}
}

// CleanupAllHolds unconditionally deletes every seat hold and
// invalidates all cached availability entries.  It does NOT credit
// seats back to flights: it is an escape hatch for resetting
// test/staging state, and running it against live flights requires a
// separate seat-count reconciliation afterwards.  Returns the count
// deleted.
func (a *Admin) CleanupAllHolds(ctx context.Context) (int64, error) {
    deleted, err := a.holds.DeleteAll(ctx)
    if err != nil {
        return 0, fmt.Errorf("cleanup holds: %w", err)
    }
    if a.cache != nil {
        a.cache.InvalidateAll(ctx)
    }
    log.Printf("admin: cleanup deleted %d holds (seat counts NOT compensated)", deleted)
    return deleted, nil
}

// ReconcileReport summarises a reconciliation pass.
type ReconcileReport struct {
    Scanned    int `json:"scanned"`
    Resolved   int `json:"resolved"`
    Unresolved int `json:"unresolved"`
}

// ReconcileHoldFlightIDs rewrites the flight reference of every hold
// whose flight_id does not resolve to a flight row, by looking the
// value up as an external offer identifier.  Holds that cannot be
// resolved are left untouched and logged.  Holds can carry an offer id
// because the booking flow may record them before the flight's
// canonical reference is finalised.
func (a *Admin) ReconcileHoldFlightIDs(ctx context.Context) (ReconcileReport, error) {
    var report ReconcileReport

    orphans, err := a.holds.FindOrphaned(ctx)
    if err != nil {
        return report, fmt.Errorf("find orphaned holds: %w", err)
    }
    report.Scanned = len(orphans)

    for _, h := range orphans {
        flight, err := a.flights.GetByOfferID(ctx, h.FlightID)
        if err != nil {
            if errors.Is(err, repository.ErrFlightNotFound) {
                report.Unresolved++
                log.Printf("admin: hold %s flight ref %q unresolvable; left untouched", h.ID, h.FlightID)
                continue
            }
            return report, fmt.Errorf("resolve offer %q for hold %s: %w", h.FlightID, h.ID, err)
        }
        if err := a.holds.UpdateFlightID(ctx, h.ID, flight.ID); err != nil {
            report.Unresolved++
            log.Printf("admin: rewrite hold %s flight ref to %s failed: %v", h.ID, flight.ID, err)
            continue
        }
        report.Resolved++
        log.Printf("admin: hold %s flight ref %q resolved to flight %s", h.ID, h.FlightID, flight.ID)
    }
    return report, nil
}
