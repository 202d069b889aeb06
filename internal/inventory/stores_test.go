package inventory

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/queue"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
)

// memFlightStore is an in-memory FlightStore whose seat mutations are
// guarded by a mutex, mirroring the row-level atomicity of the real
// conditional UPDATEs.
type memFlightStore struct {
    mu      sync.Mutex
    flights map[string]*model.Flight
}

func newMemFlightStore(flights ...*model.Flight) *memFlightStore {
    s := &memFlightStore{flights: make(map[string]*model.Flight)}
    for _, f := range flights {
        cp := *f
        s.flights[f.ID] = &cp
    }
    return s
}

func (s *memFlightStore) GetByID(_ context.Context, id string) (*model.Flight, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    f, ok := s.flights[id]
    if !ok {
        return nil, repository.ErrFlightNotFound
    }
    cp := *f
    return &cp, nil
}

func (s *memFlightStore) GetByOfferID(_ context.Context, offerID string) (*model.Flight, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, f := range s.flights {
        if f.OfferID == offerID {
            cp := *f
            return &cp, nil
        }
    }
    return nil, repository.ErrFlightNotFound
}

func (s *memFlightStore) ReserveSeats(_ context.Context, flightID string, n uint32) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    f, ok := s.flights[flightID]
    if !ok {
        return repository.ErrFlightNotFound
    }
    if f.SeatsAvailable < n {
        return repository.ErrInsufficientSeats
    }
    f.SeatsAvailable -= n
    f.Version++
    return nil
}

func (s *memFlightStore) RestoreSeats(_ context.Context, flightID string, n uint32) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    f, ok := s.flights[flightID]
    if !ok {
        return repository.ErrFlightNotFound
    }
    if f.SeatsAvailable+n > f.Seats {
        return errors.New("restore would exceed capacity")
    }
    f.SeatsAvailable += n
    f.Version++
    return nil
}

// memHoldStore is an in-memory HoldStore.  failCreate forces the next
// Create to fail so compensation paths can be exercised.
type memHoldStore struct {
    mu         sync.Mutex
    holds      map[string]*model.SeatHold
    failCreate bool
}

func newMemHoldStore() *memHoldStore {
    return &memHoldStore{holds: make(map[string]*model.SeatHold)}
}

func (s *memHoldStore) Create(_ context.Context, h *model.SeatHold) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.failCreate {
        return errors.New("simulated insert failure")
    }
    cp := *h
    s.holds[h.ID] = &cp
    return nil
}

func (s *memHoldStore) GetByID(_ context.Context, id string) (*model.SeatHold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    h, ok := s.holds[id]
    if !ok {
        return nil, repository.ErrHoldNotFound
    }
    cp := *h
    return &cp, nil
}

func (s *memHoldStore) Delete(_ context.Context, id string) (bool, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.holds[id]; !ok {
        return false, nil
    }
    delete(s.holds, id)
    return true, nil
}

func (s *memHoldStore) FindActiveBySession(_ context.Context, sessionID string, now time.Time) (*model.SeatHold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var latest *model.SeatHold
    for _, h := range s.holds {
        if h.SessionID == sessionID && h.ExpiresAt.After(now) {
            if latest == nil || h.ExpiresAt.After(latest.ExpiresAt) {
                latest = h
            }
        }
    }
    if latest == nil {
        return nil, nil
    }
    cp := *latest
    return &cp, nil
}

func (s *memHoldStore) FindExpired(_ context.Context, now time.Time) ([]model.SeatHold, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.SeatHold
    for _, h := range s.holds {
        if !h.ExpiresAt.After(now) {
            out = append(out, *h)
        }
    }
    return out, nil
}

func (s *memHoldStore) FindOrphaned(_ context.Context) ([]model.SeatHold, error) {
    // Orphan detection needs the flight table; tests wire it through
    // orphanFinder below when they need it.
    return nil, nil
}

func (s *memHoldStore) UpdateFlightID(_ context.Context, holdID, flightID string) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    h, ok := s.holds[holdID]
    if !ok {
        return repository.ErrHoldNotFound
    }
    h.FlightID = flightID
    return nil
}

func (s *memHoldStore) DeleteAll(_ context.Context) (int64, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    n := int64(len(s.holds))
    s.holds = make(map[string]*model.SeatHold)
    return n, nil
}

func (s *memHoldStore) count() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return len(s.holds)
}

// orphanFinder overlays FindOrphaned with a real LEFT-JOIN equivalent
// against a memFlightStore.
type orphanFinder struct {
    *memHoldStore
    flights *memFlightStore
}

func (o *orphanFinder) FindOrphaned(_ context.Context) ([]model.SeatHold, error) {
    o.mu.Lock()
    defer o.mu.Unlock()
    o.flights.mu.Lock()
    defer o.flights.mu.Unlock()
    var out []model.SeatHold
    for _, h := range o.holds {
        if _, ok := o.flights.flights[h.FlightID]; !ok {
            out = append(out, *h)
        }
    }
    return out, nil
}

// fakeLocker records acquire/release pairs.
type fakeLocker struct {
    mu       sync.Mutex
    held     map[string]string
    acquires int
    releases int
}

func newFakeLocker() *fakeLocker {
    return &fakeLocker{held: make(map[string]string)}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (string, bool, error) {
    l.mu.Lock()
    defer l.mu.Unlock()
    if _, taken := l.held[key]; taken {
        return "", false, nil
    }
    l.acquires++
    lease := key + "-lease"
    l.held[key] = lease
    return lease, true, nil
}

func (l *fakeLocker) Release(_ context.Context, key, lease string) error {
    l.mu.Lock()
    defer l.mu.Unlock()
    if l.held[key] == lease {
        delete(l.held, key)
        l.releases++
    }
    return nil
}

// fakePublisher collects published events.
type fakePublisher struct {
    mu     sync.Mutex
    events []queue.HoldEvent
}

func (p *fakePublisher) Publish(_ context.Context, evt queue.HoldEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.events = append(p.events, evt)
    return nil
}

// fakeCache records invalidations.
type fakeCache struct {
    mu          sync.Mutex
    entries     map[string]*model.Flight
    invalidated []string
    clearedAll  int
}

func newFakeCache() *fakeCache {
    return &fakeCache{entries: make(map[string]*model.Flight)}
}

func (c *fakeCache) Get(_ context.Context, flightID string) (*model.Flight, bool) {
    c.mu.Lock()
    defer c.mu.Unlock()
    f, ok := c.entries[flightID]
    return f, ok
}

func (c *fakeCache) Set(_ context.Context, flightID string, f *model.Flight) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.entries[flightID] = f
}

func (c *fakeCache) Invalidate(_ context.Context, flightID string) {
    c.mu.Lock()
    defer c.mu.Unlock()
    delete(c.entries, flightID)
    c.invalidated = append(c.invalidated, flightID)
}

func (c *fakeCache) InvalidateAll(_ context.Context) {
    c.mu.Lock()
    defer c.mu.Unlock()
    c.entries = make(map[string]*model.Flight)
    c.clearedAll++
}
