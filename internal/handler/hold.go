package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/inventory"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
)

// HoldHandler exposes the seat hold lifecycle over HTTP on behalf of
// the booking/checkout flow.  Error kinds map to distinguishable
// statuses so the caller can present "not enough seats" versus "try
// again" rather than a generic failure.
type HoldHandler struct {
    Manager *inventory.Manager
}

// NewHoldHandler constructs a HoldHandler.  The manager must be non-nil.
func NewHoldHandler(mgr *inventory.Manager) *HoldHandler {
    if mgr == nil {
        panic("nil manager passed to NewHoldHandler")
    }
    return &HoldHandler{Manager: mgr}
}

// CreateHold handles POST /v1/flights/:id/holds.  The body must carry a
// positive seat count and the opaque checkout session identifier.  On
// success the created hold and its expiry are returned with 201.
func (h *HoldHandler) CreateHold(c echo.Context) error {
    flightID := c.Param("id")

    var body struct {
        Seats     uint32 `json:"seats"`
        SessionID string `json:"session_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Seats == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be a positive integer"})
    }
    if body.SessionID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "session_id is required"})
    }

    hold, err := h.Manager.CreateHold(c.Request().Context(), flightID, body.Seats, body.SessionID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidIdentifier):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
        case errors.Is(err, repository.ErrFlightNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
        case errors.Is(err, repository.ErrInsufficientSeats):
            return c.JSON(http.StatusConflict, echo.Map{"error": "insufficient seats available"})
        case errors.Is(err, repository.ErrDuplicateHold):
            return c.JSON(http.StatusConflict, echo.Map{"error": "active hold already exists for this session"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create hold"})
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "hold_id":    hold.ID,
        "flight_id":  hold.FlightID,
        "seats":      hold.Seats,
        "expires_at": hold.ExpiresAt.Format(time.RFC3339),
    })
}

// ReleaseHold handles DELETE /v1/holds/:id.  Release is idempotent: a
// hold that was already released (or reaped) yields the same 200 as a
// live one, so cancellation paths and reapers can race safely.
func (h *HoldHandler) ReleaseHold(c echo.Context) error {
    err := h.Manager.ReleaseHold(c.Request().Context(), c.Param("id"))
    if err != nil {
        if errors.Is(err, repository.ErrInvalidIdentifier) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to release hold"})
    }
    return c.JSON(http.StatusOK, echo.Map{"released": true})
}

// ConfirmHold handles POST /v1/holds/:id/confirm.  The payment flow
// calls this after a successful charge; the hold is deleted without
// restoring seats, making the decrement permanent.
func (h *HoldHandler) ConfirmHold(c echo.Context) error {
    err := h.Manager.ConfirmHold(c.Request().Context(), c.Param("id"))
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidIdentifier):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hold id"})
        case errors.Is(err, repository.ErrHoldNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hold not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm hold"})
    }
    return c.JSON(http.StatusOK, echo.Map{"confirmed": true})
}
