package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/inventory"
)

// AdminHandler exposes the operational recovery endpoints.  The routes
// are registered behind JWT auth with the ADMIN role; these operations
// are manually triggered and never part of the request path.
type AdminHandler struct {
    Admin *inventory.Admin
}

// NewAdminHandler constructs an AdminHandler.  admin must be non-nil.
func NewAdminHandler(admin *inventory.Admin) *AdminHandler {
    if admin == nil {
        panic("nil admin passed to NewAdminHandler")
    }
    return &AdminHandler{Admin: admin}
}

// CleanupHolds handles POST /v1/admin/holds/cleanup.  It deletes every
// seat hold without crediting seats back; the response carries the
// count so operators can run the follow-up reconciliation.
func (h *AdminHandler) CleanupHolds(c echo.Context) error {
    deleted, err := h.Admin.CleanupAllHolds(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cleanup failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

// ReconcileHolds handles POST /v1/admin/holds/reconcile.  It rewrites
// hold flight references that were recorded as external offer ids.
func (h *AdminHandler) ReconcileHolds(c echo.Context) error {
    report, err := h.Admin.ReconcileHoldFlightIDs(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reconciliation failed"})
    }
    return c.JSON(http.StatusOK, report)
}
