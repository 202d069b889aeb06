package inventory

import (
    "context"
    "log"
    "time"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
)

// holdReleaser is the slice of the Manager the reaper needs.
type holdReleaser interface {
    ReleaseHold(ctx context.Context, holdID string) error
}

// expiredScanner is the slice of the HoldStore the reaper needs.
type expiredScanner interface {
    FindExpired(ctx context.Context, now time.Time) ([]model.SeatHold, error)
}

// Reaper periodically scans for holds past their expiry and releases
// the associated seats back to inventory.  Each scan cycle processes
// exactly the holds found at scan start; one hold's failure never
// aborts the remaining holds.
type Reaper struct {
    holds    expiredScanner
    releaser holdReleaser
    interval time.Duration

    now func() time.Time
}

// NewReaper constructs a Reaper.  interval must be positive.
func NewReaper(holds expiredScanner, releaser holdReleaser, interval time.Duration) *Reaper {
    if interval <= 0 {
        interval = time.Minute
    }
    return &Reaper{
        holds:    holds,
        releaser: releaser,
        interval: interval,
        now:      time.Now,
    }
}

// Start runs the scan loop until the context is cancelled.  It blocks;
// run it in its own goroutine.
func (r *Reaper) Start(ctx context.Context) {
    ticker := time.NewTicker(r.interval)
    defer ticker.Stop()

    log.Printf("reaper: started (interval %s)", r.interval)
    for {
        select {
        case <-ctx.Done():
            log.Printf("reaper: stopped")
            return
        case <-ticker.C:
            r.tick(ctx)
        }
    }
}

// tick performs one scan cycle.  Failures are counted and logged per
// hold so a single bad record cannot halt the scan.
func (r *Reaper) tick(ctx context.Context) {
    expired, err := r.holds.FindExpired(ctx, r.now().UTC())
    if err != nil {
        log.Printf("reaper: scan failed: %v", err)
        return
    }
    if len(expired) == 0 {
        return
    }

    released, failed := 0, 0
    for _, h := range expired {
        if err := r.releaser.ReleaseHold(ctx, h.ID); err != nil {
            failed++
            log.Printf("reaper: release hold %s (flight %s) failed: %v", h.ID, h.FlightID, err)
            continue
        }
        released++
    }
    log.Printf("reaper: cycle done: %d released, %d failed of %d expired", released, failed, len(expired))
}
