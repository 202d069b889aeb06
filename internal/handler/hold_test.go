package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/inventory"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
)

// stubFlights and stubHolds back the manager with plain maps; handler
// tests run sequentially so no locking is needed.
type stubFlights struct {
    flights map[string]*model.Flight
}

func (s *stubFlights) GetByID(_ context.Context, id string) (*model.Flight, error) {
    f, ok := s.flights[id]
    if !ok {
        return nil, repository.ErrFlightNotFound
    }
    return f, nil
}

func (s *stubFlights) GetByOfferID(_ context.Context, offerID string) (*model.Flight, error) {
    for _, f := range s.flights {
        if f.OfferID == offerID {
            return f, nil
        }
    }
    return nil, repository.ErrFlightNotFound
}

func (s *stubFlights) ReserveSeats(_ context.Context, flightID string, n uint32) error {
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

func (s *stubFlights) RestoreSeats(_ context.Context, flightID string, n uint32) error {
    f, ok := s.flights[flightID]
    if !ok {
        return repository.ErrFlightNotFound
    }
    f.SeatsAvailable += n
    f.Version++
    return nil
}

type stubHolds struct {
    holds map[string]*model.SeatHold
}

func (s *stubHolds) Create(_ context.Context, h *model.SeatHold) error {
    s.holds[h.ID] = h
    return nil
}

func (s *stubHolds) GetByID(_ context.Context, id string) (*model.SeatHold, error) {
    h, ok := s.holds[id]
    if !ok {
        return nil, repository.ErrHoldNotFound
    }
    return h, nil
}

func (s *stubHolds) Delete(_ context.Context, id string) (bool, error) {
    if _, ok := s.holds[id]; !ok {
        return false, nil
    }
    delete(s.holds, id)
    return true, nil
}

func (s *stubHolds) FindActiveBySession(_ context.Context, sessionID string, now time.Time) (*model.SeatHold, error) {
    for _, h := range s.holds {
        if h.SessionID == sessionID && h.ExpiresAt.After(now) {
            return h, nil
        }
    }
    return nil, nil
}

func (s *stubHolds) FindExpired(_ context.Context, now time.Time) ([]model.SeatHold, error) {
    return nil, nil
}

func (s *stubHolds) FindOrphaned(_ context.Context) ([]model.SeatHold, error) {
    return nil, nil
}

func (s *stubHolds) UpdateFlightID(_ context.Context, holdID, flightID string) error {
    return nil
}

func (s *stubHolds) DeleteAll(_ context.Context) (int64, error) {
    n := int64(len(s.holds))
    s.holds = make(map[string]*model.SeatHold)
    return n, nil
}

func newHoldTestServer(flights ...*model.Flight) (*echo.Echo, *stubFlights, *stubHolds) {
    fs := &stubFlights{flights: make(map[string]*model.Flight)}
    for _, f := range flights {
        fs.flights[f.ID] = f
    }
    hs := &stubHolds{holds: make(map[string]*model.SeatHold)}
    mgr := inventory.NewManager(fs, hs, nil, nil, nil, 15*time.Minute, 10*time.Second)
    h := NewHoldHandler(mgr)

    e := echo.New()
    e.POST("/v1/flights/:id/holds", h.CreateHold)
    e.DELETE("/v1/holds/:id", h.ReleaseHold)
    e.POST("/v1/holds/:id/confirm", h.ConfirmHold)
    return e, fs, hs
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
    req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)
    return rec
}

func TestCreateHoldEndpoint_Success(t *testing.T) {
    flight := &model.Flight{ID: uuid.NewString(), Seats: 100, SeatsAvailable: 10, Version: 1}
    e, fs, _ := newHoldTestServer(flight)

    rec := postJSON(e, "/v1/flights/"+flight.ID+"/holds", `{"seats": 2, "session_id": "sess-1"}`)

    assert.Equal(t, http.StatusCreated, rec.Code)
    assert.Contains(t, rec.Body.String(), `"hold_id"`)
    assert.Contains(t, rec.Body.String(), `"expires_at"`)
    assert.Equal(t, uint32(8), fs.flights[flight.ID].SeatsAvailable)
}

func TestCreateHoldEndpoint_ErrorStatuses(t *testing.T) {
    flight := &model.Flight{ID: uuid.NewString(), Seats: 100, SeatsAvailable: 1, Version: 1}
    e, _, _ := newHoldTestServer(flight)

    // Take the last seat so contention cases can be provoked below.
    rec := postJSON(e, "/v1/flights/"+flight.ID+"/holds", `{"seats": 1, "session_id": "sess-1"}`)
    require.Equal(t, http.StatusCreated, rec.Code)

    cases := []struct {
        name   string
        path   string
        body   string
        status int
    }{
        {"malformed flight id", "/v1/flights/42/holds", `{"seats": 1, "session_id": "s"}`, http.StatusBadRequest},
        {"zero seats", "/v1/flights/" + flight.ID + "/holds", `{"seats": 0, "session_id": "s"}`, http.StatusBadRequest},
        {"missing session", "/v1/flights/" + flight.ID + "/holds", `{"seats": 1}`, http.StatusBadRequest},
        {"unknown flight", "/v1/flights/" + uuid.NewString() + "/holds", `{"seats": 1, "session_id": "s"}`, http.StatusNotFound},
        {"sold out", "/v1/flights/" + flight.ID + "/holds", `{"seats": 1, "session_id": "sess-2"}`, http.StatusConflict},
        {"duplicate session", "/v1/flights/" + flight.ID + "/holds", `{"seats": 1, "session_id": "sess-1"}`, http.StatusConflict},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            rec := postJSON(e, tc.path, tc.body)
            assert.Equal(t, tc.status, rec.Code)
        })
    }
}

func TestReleaseHoldEndpoint_Idempotent(t *testing.T) {
    flight := &model.Flight{ID: uuid.NewString(), Seats: 100, SeatsAvailable: 10, Version: 1}
    e, fs, hs := newHoldTestServer(flight)

    rec := postJSON(e, "/v1/flights/"+flight.ID+"/holds", `{"seats": 3, "session_id": "sess-1"}`)
    require.Equal(t, http.StatusCreated, rec.Code)

    var holdID string
    for id := range hs.holds {
        holdID = id
    }

    for i := 0; i < 2; i++ {
        req := httptest.NewRequest(http.MethodDelete, "/v1/holds/"+holdID, nil)
        rec := httptest.NewRecorder()
        e.ServeHTTP(rec, req)
        assert.Equal(t, http.StatusOK, rec.Code)
    }
    assert.Equal(t, uint32(10), fs.flights[flight.ID].SeatsAvailable, "seats credited once across repeated releases")
}

func TestConfirmHoldEndpoint(t *testing.T) {
    flight := &model.Flight{ID: uuid.NewString(), Seats: 100, SeatsAvailable: 10, Version: 1}
    e, fs, hs := newHoldTestServer(flight)

    rec := postJSON(e, "/v1/flights/"+flight.ID+"/holds", `{"seats": 3, "session_id": "sess-1"}`)
    require.Equal(t, http.StatusCreated, rec.Code)

    var holdID string
    for id := range hs.holds {
        holdID = id
    }

    rec = postJSON(e, "/v1/holds/"+holdID+"/confirm", "")
    assert.Equal(t, http.StatusOK, rec.Code)
    assert.Equal(t, uint32(7), fs.flights[flight.ID].SeatsAvailable, "confirmed seats stay reserved")

    rec = postJSON(e, "/v1/holds/"+holdID+"/confirm", "")
    assert.Equal(t, http.StatusNotFound, rec.Code)

    rec = postJSON(e, "/v1/holds/not-a-uuid/confirm", "")
    assert.Equal(t, http.StatusBadRequest, rec.Code)
}
