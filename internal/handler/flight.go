package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/inventory"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/model"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
)

// FlightHandler serves flight availability reads and the admin ingest
// endpoint.  Reads go through the manager so cached availability is
// used when fresh.
type FlightHandler struct {
    Manager *inventory.Manager
    Flights *repository.FlightRepo
}

// NewFlightHandler constructs a FlightHandler.  Both dependencies must
// be non-nil.
func NewFlightHandler(mgr *inventory.Manager, flights *repository.FlightRepo) *FlightHandler {
    if mgr == nil || flights == nil {
        panic("nil dependency passed to NewFlightHandler")
    }
    return &FlightHandler{Manager: mgr, Flights: flights}
}

// GetFlight handles GET /v1/flights/:id and returns the flight's
// current availability.
func (h *FlightHandler) GetFlight(c echo.Context) error {
    f, err := h.Manager.GetFlight(c.Request().Context(), c.Param("id"))
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrInvalidIdentifier):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid flight id"})
        case errors.Is(err, repository.ErrFlightNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load flight"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "id":              f.ID,
        "flight_number":   f.FlightNumber,
        "origin":          f.Origin,
        "destination":     f.Destination,
        "departs_at":      f.DepartsAt.UTC().Format(time.RFC3339),
        "seats":           f.Seats,
        "seats_available": f.SeatsAvailable,
    })
}

// CreateFlight handles POST /v1/admin/flights.  It ingests a flight
// offer with its total capacity; seats_available starts at full
// capacity and version at zero.
func (h *FlightHandler) CreateFlight(c echo.Context) error {
    var body struct {
        FlightNumber string    `json:"flight_number"`
        Origin       string    `json:"origin"`
        Destination  string    `json:"destination"`
        DepartsAt    time.Time `json:"departs_at"`
        Seats        uint32    `json:"seats"`
        OfferID      string    `json:"offer_id"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.FlightNumber == "" || body.Origin == "" || body.Destination == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "flight_number, origin and destination are required"})
    }
    if body.Seats == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be a positive integer"})
    }

    f := &model.Flight{
        ID:           uuid.New().String(),
        FlightNumber: body.FlightNumber,
        Origin:       body.Origin,
        Destination:  body.Destination,
        DepartsAt:    body.DepartsAt,
        Seats:        body.Seats,
        OfferID:      body.OfferID,
    }
    if err := h.Flights.Create(c.Request().Context(), f); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create flight"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "id":              f.ID,
        "seats":           f.Seats,
        "seats_available": f.SeatsAvailable,
    })
}
