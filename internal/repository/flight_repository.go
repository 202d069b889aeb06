package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
)

// FlightRepo provides data access to the flights table.  All seat
// mutations go through atomic conditional UPDATEs; the repository never
// exposes a plain write to seats_available.  Timestamps are stored and
// compared in UTC.
type FlightRepo struct {
    db *sql.DB
}

// NewFlightRepo returns a new FlightRepo bound to the provided database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *FlightRepo) DB() *sql.DB { return r.db }

// Create inserts a new flight record.  SeatsAvailable is initialised to
// the full capacity and version starts at zero.  The caller must supply
// the UUID identifier.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
    const q = `INSERT INTO flights
               (id, flight_number, origin, destination, departs_at, seats, seats_available, version, offer_id)
               VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`
    _, err := r.db.ExecContext(ctx, q,
        f.ID, f.FlightNumber, f.Origin, f.Destination,
        mysqlTime(f.DepartsAt), f.Seats, f.Seats, f.OfferID,
    )
    if err != nil {
        return fmt.Errorf("insert flight: %w", err)
    }
    f.SeatsAvailable = f.Seats
    f.Version = 0
    return nil
}

// GetByID returns a flight by its primary identifier.  It returns
// ErrFlightNotFound when no row exists.
func (r *FlightRepo) GetByID(ctx context.Context, id string) (*model.Flight, error) {
    const q = `SELECT id, flight_number, origin, destination, departs_at,
                      seats, seats_available, version, offer_id, created_at, updated_at
               FROM flights WHERE id = ?`
    return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByOfferID returns a flight by its external offer identifier.  It is
// used by the admin reconciliation to resolve holds whose flight_id was
// recorded before the canonical reference existed.  Returns
// ErrFlightNotFound when no row matches.
func (r *FlightRepo) GetByOfferID(ctx context.Context, offerID string) (*model.Flight, error) {
    const q = `SELECT id, flight_number, origin, destination, departs_at,
                      seats, seats_available, version, offer_id, created_at, updated_at
               FROM flights WHERE offer_id = ?`
    return r.scanOne(r.db.QueryRowContext(ctx, q, offerID))
}

func (r *FlightRepo) scanOne(row *sql.Row) (*model.Flight, error) {
    var f model.Flight
    var offerID sql.NullString
    err := row.Scan(
        &f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartsAt,
        &f.Seats, &f.SeatsAvailable, &f.Version, &offerID, &f.CreatedAt, &f.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrFlightNotFound
        }
        return nil, fmt.Errorf("scan flight: %w", err)
    }
    if offerID.Valid {
        f.OfferID = offerID.String
    }
    return &f, nil
}

// ReserveSeats atomically decrements seats_available by n and bumps the
// version, but only when at least n seats remain.  The WHERE clause is
// the admission-control decision: two concurrent callers can never both
// succeed when only one has sufficient seats, because the row-level
// conditional UPDATE is indivisible on the store side.
//
// When the UPDATE affects zero rows, a follow-up existence check picks
// the error kind: ErrFlightNotFound when the flight row is missing,
// ErrInsufficientSeats otherwise.  The check only selects the error;
// the commit decision was already made by the UPDATE.
func (r *FlightRepo) ReserveSeats(ctx context.Context, flightID string, n uint32) error {
    const q = `UPDATE flights
               SET seats_available = seats_available - ?, version = version + 1
               WHERE id = ? AND seats_available >= ?`
    res, err := r.db.ExecContext(ctx, q, n, flightID, n)
    if err != nil {
        return fmt.Errorf("reserve seats: %w", err)
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return fmt.Errorf("reserve seats: rows affected: %w", err)
    }
    if affected == 0 {
        if _, err := r.GetByID(ctx, flightID); err != nil {
            return err // ErrFlightNotFound or a store failure
        }
        return ErrInsufficientSeats
    }
    return nil
}

// RestoreSeats atomically credits n seats back and bumps the version.
// The cap guard keeps seats_available from ever exceeding the total
// capacity, which would indicate a double release.  Returns
// ErrFlightNotFound when the flight row is missing so callers can treat
// an orphaned hold as a repair path rather than a failure.
func (r *FlightRepo) RestoreSeats(ctx context.Context, flightID string, n uint32) error {
    const q = `UPDATE flights
               SET seats_available = seats_available + ?, version = version + 1
               WHERE id = ? AND seats_available + ? <= seats`
    res, err := r.db.ExecContext(ctx, q, n, flightID, n)
    if err != nil {
        return fmt.Errorf("restore seats: %w", err)
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return fmt.Errorf("restore seats: rows affected: %w", err)
    }
    if affected == 0 {
        f, err := r.GetByID(ctx, flightID)
        if err != nil {
            return err
        }
        return fmt.Errorf("restore %d seats on flight %s: would exceed capacity (%d/%d available)",
            n, flightID, f.SeatsAvailable, f.Seats)
    }
    return nil
}

// helper shared with the hold repository for DATETIME formatting
func mysqlTime(t time.Time) string {
    return t.UTC().Format("2006-01-02 15:04:05")
}
