package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
)

// SeatHoldRepo provides data access to the seat_holds table.  It is
// responsible for creating, querying and deleting seat holds.  All
// methods compare expirations in UTC; callers must supply UTC
// timestamps.
//
// flight_id carries no foreign-key constraint: the booking flow may
// record a hold before the flight's canonical reference is finalised.
// FindOrphaned surfaces such rows for the reaper and the admin
// reconciliation.
type SeatHoldRepo struct {
    db *sql.DB
}

// NewSeatHoldRepo returns a new SeatHoldRepo bound to the provided database.
func NewSeatHoldRepo(db *sql.DB) *SeatHoldRepo { return &SeatHoldRepo{db: db} }

const holdColumns = `id, flight_id, session_id, seats, expires_at, created_at`

// Create inserts a new seat hold.  The caller must supply the UUID
// identifier and the expiry; created_at defaults in the database.
func (r *SeatHoldRepo) Create(ctx context.Context, h *model.SeatHold) error {
    const q = `INSERT INTO seat_holds (id, flight_id, session_id, seats, expires_at)
               VALUES (?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q, h.ID, h.FlightID, h.SessionID, h.Seats, mysqlTime(h.ExpiresAt))
    if err != nil {
        return fmt.Errorf("insert seat hold: %w", err)
    }
    return nil
}

// GetByID returns a hold by its identifier, or ErrHoldNotFound.
func (r *SeatHoldRepo) GetByID(ctx context.Context, id string) (*model.SeatHold, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+holdColumns+` FROM seat_holds WHERE id = ?`, id)
    return scanHold(row)
}

// Delete removes a hold by its identifier and reports whether a row was
// actually deleted.  The rows-affected result is the idempotency gate
// for release: concurrent releases race on this DELETE and only the one
// that removed the row credits seats back.
func (r *SeatHoldRepo) Delete(ctx context.Context, id string) (bool, error) {
    res, err := r.db.ExecContext(ctx, `DELETE FROM seat_holds WHERE id = ?`, id)
    if err != nil {
        return false, fmt.Errorf("delete seat hold: %w", err)
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return false, fmt.Errorf("delete seat hold: rows affected: %w", err)
    }
    return affected > 0, nil
}

// FindActiveBySession returns the non-expired hold for a checkout
// session, or nil when the session has none.  At most one active hold
// may exist per session; when the database contains several (possible
// only after clock skew or manual edits) the one expiring last wins.
func (r *SeatHoldRepo) FindActiveBySession(ctx context.Context, sessionID string, now time.Time) (*model.SeatHold, error) {
    const q = `SELECT ` + holdColumns + ` FROM seat_holds
               WHERE session_id = ? AND expires_at > ?
               ORDER BY expires_at DESC LIMIT 1`
    h, err := scanHold(r.db.QueryRowContext(ctx, q, sessionID, mysqlTime(now)))
    if err != nil {
        if errors.Is(err, ErrHoldNotFound) {
            return nil, nil
        }
        return nil, err
    }
    return h, nil
}

// FindExpired returns all holds whose expiry has passed.  The reaper
// processes exactly the rows returned by one call; holds expiring
// mid-cycle wait for the next scan.
func (r *SeatHoldRepo) FindExpired(ctx context.Context, now time.Time) ([]model.SeatHold, error) {
    const q = `SELECT ` + holdColumns + ` FROM seat_holds WHERE expires_at <= ?`
    rows, err := r.db.QueryContext(ctx, q, mysqlTime(now))
    if err != nil {
        return nil, fmt.Errorf("query expired holds: %w", err)
    }
    defer rows.Close()
    return scanHolds(rows)
}

// FindOrphaned returns holds whose flight_id does not resolve to any
// flight row.  These are candidates for the admin reconciliation, which
// retries the lookup through the flight offer_id secondary key.
func (r *SeatHoldRepo) FindOrphaned(ctx context.Context) ([]model.SeatHold, error) {
    const q = `SELECT h.id, h.flight_id, h.session_id, h.seats, h.expires_at, h.created_at
               FROM seat_holds h
               LEFT JOIN flights f ON f.id = h.flight_id
               WHERE f.id IS NULL`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, fmt.Errorf("query orphaned holds: %w", err)
    }
    defer rows.Close()
    return scanHolds(rows)
}

// UpdateFlightID rewrites a hold's flight reference after reconciliation
// resolved it through the offer identifier.
func (r *SeatHoldRepo) UpdateFlightID(ctx context.Context, holdID, flightID string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE seat_holds SET flight_id = ? WHERE id = ?`, flightID, holdID)
    if err != nil {
        return fmt.Errorf("update hold flight id: %w", err)
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return fmt.Errorf("update hold flight id: rows affected: %w", err)
    }
    if affected == 0 {
        return ErrHoldNotFound
    }
    return nil
}

// DeleteAll removes every seat hold and returns the count deleted.
// It does not compensate flight seat counts; it exists for
// operational recovery and test/staging resets only.
func (r *SeatHoldRepo) DeleteAll(ctx context.Context) (int64, error) {
    res, err := r.db.ExecContext(ctx, `DELETE FROM seat_holds`)
    if err != nil {
        return 0, fmt.Errorf("delete all seat holds: %w", err)
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return 0, fmt.Errorf("delete all seat holds: rows affected: %w", err)
    }
    return affected, nil
}

func scanHold(row *sql.Row) (*model.SeatHold, error) {
    var h model.SeatHold
    err := row.Scan(&h.ID, &h.FlightID, &h.SessionID, &h.Seats, &h.ExpiresAt, &h.CreatedAt)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrHoldNotFound
        }
        return nil, fmt.Errorf("scan seat hold: %w", err)
    }
    return &h, nil
}

func scanHolds(rows *sql.Rows) ([]model.SeatHold, error) {
    var holds []model.SeatHold
    for rows.Next() {
        var h model.SeatHold
        if err := rows.Scan(&h.ID, &h.FlightID, &h.SessionID, &h.Seats, &h.ExpiresAt, &h.CreatedAt); err != nil {
            return nil, fmt.Errorf("scan seat hold: %w", err)
        }
        holds = append(holds, h)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return holds, nil
}
