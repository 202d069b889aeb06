// Package inventory implements seat admission control for flights: it
// creates time-boxed seat holds, confirms them into permanent sales and
// releases them back, while preventing oversell under concurrent
// requests.  Correctness rests on the store's atomic conditional
// update, never on in-process state; the distributed lock only narrows
// the window of the compound check-decrement-insert operation.
package inventory

import (
    "context"
    "errors"
    "fmt"
    "log"
    "time"

    "github.com/google/uuid"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/queue"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
)

// FlightStore is the flight-record access the manager depends on.  The
// seat mutations must be atomic conditional updates on the store side.
type FlightStore interface {
    GetByID(ctx context.Context, id string) (*model.Flight, error)
    GetByOfferID(ctx context.Context, offerID string) (*model.Flight, error)
    ReserveSeats(ctx context.Context, flightID string, n uint32) error
    RestoreSeats(ctx context.Context, flightID string, n uint32) error
}

// HoldStore is the seat-hold access the manager, reaper and admin
// operations depend on.
type HoldStore interface {
    Create(ctx context.Context, h *model.SeatHold) error
    GetByID(ctx context.Context, id string) (*model.SeatHold, error)
    Delete(ctx context.Context, id string) (bool, error)
    FindActiveBySession(ctx context.Context, sessionID string, now time.Time) (*model.SeatHold, error)
    FindExpired(ctx context.Context, now time.Time) ([]model.SeatHold, error)
    FindOrphaned(ctx context.Context) ([]model.SeatHold, error)
    UpdateFlightID(ctx context.Context, holdID, flightID string) error
    DeleteAll(ctx context.Context) (int64, error)
}

// Locker provides per-flight mutual-exclusion leases.  A nil Locker
// disables locking entirely; the store's conditional update remains the
// source of truth either way.
type Locker interface {
    Acquire(ctx context.Context, key string, ttl time.Duration) (lease string, ok bool, err error)
    Release(ctx context.Context, key, lease string) error
}

// AvailabilityCache caches flight availability for search reads.  All
// methods are best-effort: implementations log failures and never
// surface them, since staleness is an acceptable degraded mode.
type AvailabilityCache interface {
    Get(ctx context.Context, flightID string) (*model.Flight, bool)
    Set(ctx context.Context, flightID string, f *model.Flight)
    Invalidate(ctx context.Context, flightID string)
    InvalidateAll(ctx context.Context)
}

// EventPublisher emits hold lifecycle events to the message broker.
// Publishing is best-effort; errors are logged by the caller and never
// affect the transactional outcome.
type EventPublisher interface {
    Publish(ctx context.Context, evt queue.HoldEvent) error
}

const lockKeyPrefix = "hold_lock:"

// Manager exposes the hold-creation, confirmation and release
// operations.  It enforces the invariant that seats committed to
// active holds plus seats sold never exceed a flight's capacity.
type Manager struct {
    flights FlightStore
    holds   HoldStore
    lock    Locker            // optional
    cache   AvailabilityCache // optional
    events  EventPublisher    // optional

    holdTTL time.Duration
    lockTTL time.Duration

    now func() time.Time
}

// NewManager constructs a Manager.  flights and holds must be non-nil;
// lock, cache and events may be nil, in which case the corresponding
// side effects are skipped.
func NewManager(flights FlightStore, holds HoldStore, lock Locker, cache AvailabilityCache, events EventPublisher, holdTTL, lockTTL time.Duration) *Manager {
    if flights == nil || holds == nil {
        panic("nil store passed to NewManager")
    }
    if holdTTL <= 0 {
        holdTTL = 15 * time.Minute
    }
    if lockTTL <= 0 {
        lockTTL = 10 * time.Second
    }
    return &Manager{
        flights: flights,
        holds:   holds,
        lock:    lock,
        cache:   cache,
        events:  events,
        holdTTL: holdTTL,
        lockTTL: lockTTL,
        now:     time.Now,
    }
}

// CreateHold places a temporary hold for seats on a flight on behalf of
// a checkout session.  Business rules are checked in order:
//
//  1. at most one active hold per session (ErrDuplicateHold),
//  2. the atomic conditional decrement against the flight row, which
//     yields ErrFlightNotFound or ErrInsufficientSeats when it commits
//     nothing,
//  3. the hold record is persisted with expiry now+TTL; an insert
//     failure triggers a compensating seat restore.
//
// The per-flight distributed lock, when configured, is held across
// steps 2–3 and always released on exit.  Cache invalidation and event
// publishing are fire-and-forget.
func (m *Manager) CreateHold(ctx context.Context, flightID string, seats uint32, sessionID string) (*model.SeatHold, error) {
    if _, err := uuid.Parse(flightID); err != nil {
        return nil, fmt.Errorf("%w: flight id %q", repository.ErrInvalidIdentifier, flightID)
    }
    if seats == 0 {
        return nil, fmt.Errorf("%w: seats must be positive", repository.ErrInvalidIdentifier)
    }
    if sessionID == "" {
        return nil, fmt.Errorf("%w: session id must not be empty", repository.ErrInvalidIdentifier)
    }

    now := m.now().UTC()

    existing, err := m.holds.FindActiveBySession(ctx, sessionID, now)
    if err != nil {
        return nil, fmt.Errorf("check session holds: %w", err)
    }
    if existing != nil {
        return nil, fmt.Errorf("%w: session %s holds %d seats on flight %s until %s",
            repository.ErrDuplicateHold, sessionID, existing.Seats, existing.FlightID,
            existing.ExpiresAt.Format(time.RFC3339))
    }

    release := m.acquireFlightLock(ctx, flightID)
    defer release()

    if err := m.flights.ReserveSeats(ctx, flightID, seats); err != nil {
        return nil, err
    }

    hold := &model.SeatHold{
        ID:        uuid.New().String(),
        FlightID:  flightID,
        SessionID: sessionID,
        Seats:     seats,
        ExpiresAt: now.Add(m.holdTTL),
        CreatedAt: now,
    }
    if err := m.holds.Create(ctx, hold); err != nil {
        // The decrement already committed; credit the seats back so the
        // flight is not leaked into a permanently reduced state.
        if restoreErr := m.flights.RestoreSeats(ctx, flightID, seats); restoreErr != nil {
            log.Printf("inventory: compensating restore of %d seats on flight %s failed: %v", seats, flightID, restoreErr)
        }
        return nil, fmt.Errorf("persist hold: %w", err)
    }

    m.invalidate(ctx, flightID)
    m.publish(ctx, queue.EventHoldCreated, hold)
    return hold, nil
}

// ReleaseHold reverses a hold's seat decrement and deletes the hold
// record.  It is an idempotent no-op when the hold no longer exists:
// concurrent reapers and cancellations race on the hold-row DELETE and
// only the caller that removed the row credits seats back, so a double
// release can never double-credit.
//
// A hold referencing a vanished flight is deleted without a
// compensating increment (there is nothing to credit); the anomaly is
// logged and treated as success.
func (m *Manager) ReleaseHold(ctx context.Context, holdID string) error {
    if _, err := uuid.Parse(holdID); err != nil {
        return fmt.Errorf("%w: hold id %q", repository.ErrInvalidIdentifier, holdID)
    }

    hold, err := m.holds.GetByID(ctx, holdID)
    if err != nil {
        if errors.Is(err, repository.ErrHoldNotFound) {
            return nil // already released
        }
        return fmt.Errorf("load hold: %w", err)
    }

    deleted, err := m.holds.Delete(ctx, holdID)
    if err != nil {
        return fmt.Errorf("delete hold: %w", err)
    }
    if !deleted {
        return nil // lost the race to a concurrent release
    }

    if err := m.flights.RestoreSeats(ctx, hold.FlightID, hold.Seats); err != nil {
        if errors.Is(err, repository.ErrFlightNotFound) {
            log.Printf("inventory: hold %s referenced missing flight %s; deleted without seat credit", holdID, hold.FlightID)
        } else {
            return fmt.Errorf("restore seats for hold %s: %w", holdID, err)
        }
    }

    m.invalidate(ctx, hold.FlightID)
    m.publish(ctx, queue.EventHoldReleased, hold)
    return nil
}

// ConfirmHold commits a hold: the hold record is deleted without
// restoring seats, making the decrement permanent.  The booking flow
// calls this after successful payment.  Confirming a hold that no
// longer exists returns ErrHoldNotFound, since the seats may already
// have been reclaimed by the reaper.
func (m *Manager) ConfirmHold(ctx context.Context, holdID string) error {
    if _, err := uuid.Parse(holdID); err != nil {
        return fmt.Errorf("%w: hold id %q", repository.ErrInvalidIdentifier, holdID)
    }

    hold, err := m.holds.GetByID(ctx, holdID)
    if err != nil {
        return fmt.Errorf("load hold: %w", err)
    }
    deleted, err := m.holds.Delete(ctx, holdID)
    if err != nil {
        return fmt.Errorf("delete hold: %w", err)
    }
    if !deleted {
        return repository.ErrHoldNotFound
    }

    m.publish(ctx, queue.EventHoldConfirmed, hold)
    return nil
}

// GetFlight returns a flight's current availability, served from the
// cache when possible.
func (m *Manager) GetFlight(ctx context.Context, flightID string) (*model.Flight, error) {
    if _, err := uuid.Parse(flightID); err != nil {
        return nil, fmt.Errorf("%w: flight id %q", repository.ErrInvalidIdentifier, flightID)
    }
    if m.cache != nil {
        if f, ok := m.cache.Get(ctx, flightID); ok {
            return f, nil
        }
    }
    f, err := m.flights.GetByID(ctx, flightID)
    if err != nil {
        return nil, err
    }
    if m.cache != nil {
        m.cache.Set(ctx, flightID, f)
    }
    return f, nil
}

// acquireFlightLock attempts to take the per-flight lease and returns a
// release func that is safe to call on every exit path.  Failure to
// acquire is logged and tolerated: the lock is layered in addition to
// the store's atomic update, never instead of it.
func (m *Manager) acquireFlightLock(ctx context.Context, flightID string) func() {
    if m.lock == nil {
        return func() {}
    }
    key := lockKeyPrefix + flightID
    for attempt := 0; attempt < 3; attempt++ {
        lease, ok, err := m.lock.Acquire(ctx, key, m.lockTTL)
        if err != nil {
            log.Printf("inventory: lock acquire on %s failed: %v; proceeding without lock", key, err)
            return func() {}
        }
        if ok {
            return func() {
                if err := m.lock.Release(ctx, key, lease); err != nil {
                    log.Printf("inventory: lock release on %s failed: %v", key, err)
                }
            }
        }
        select {
        case <-ctx.Done():
            return func() {}
        case <-time.After(50 * time.Millisecond):
        }
    }
    log.Printf("inventory: lock on %s still contended; proceeding without lock", key)
    return func() {}
}

func (m *Manager) invalidate(ctx context.Context, flightID string) {
    if m.cache != nil {
        m.cache.Invalidate(ctx, flightID)
    }
}

func (m *Manager) publish(ctx context.Context, typ string, hold *model.SeatHold) {
    if m.events == nil {
        return
    }
    evt := queue.HoldEvent{
        Type:       typ,
        HoldID:     hold.ID,
        FlightID:   hold.FlightID,
        SessionID:  hold.SessionID,
        Seats:      hold.Seats,
        ExpiresAt:  hold.ExpiresAt.UTC().Format(time.RFC3339),
        OccurredAt: m.now().UTC().Format(time.RFC3339),
    }
    if err := m.events.Publish(ctx, evt); err != nil {
        log.Printf("inventory: publish %s event for hold %s failed: %v", typ, hold.ID, err)
    }
}
