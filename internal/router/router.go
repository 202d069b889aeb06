package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/config"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/handler"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Used by load balancers and monitoring to verify the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterInventory registers the public seat-inventory endpoints.  The
// hold-creation route sits behind the Redis token bucket so one client
// cannot hammer the seat decrement path; rdb may be nil, in which case
// rate limiting is disabled.
func RegisterInventory(e *echo.Echo, f *handler.FlightHandler, h *handler.HoldHandler, rdb *redis.Client) {
    e.GET("/v1/flights/:id", f.GetFlight)

    limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
    e.POST("/v1/flights/:id/holds", h.CreateHold, limiter)

    // Release is idempotent; confirm is called by the payment flow.
    e.DELETE("/v1/holds/:id", h.ReleaseHold)
    e.POST("/v1/holds/:id/confirm", h.ConfirmHold)
}

// RegisterAdmin registers the operational recovery endpoints behind JWT
// authentication with the ADMIN role.
func RegisterAdmin(e *echo.Echo, f *handler.FlightHandler, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole("ADMIN"))

    g.POST("/flights", f.CreateFlight)
    g.POST("/holds/cleanup", a.CleanupHolds)
    g.POST("/holds/reconcile", a.ReconcileHolds)
}
