package main // Entry point package

import (
    "context"
    "log"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/M7MDSSJ/smart-air-port-sub000/internal/cache"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/config"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/database"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/handler"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/inventory"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/lock"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/queue"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/repository"
    "github.com/M7MDSSJ/smart-air-port-sub000/internal/router"
)

func main() {
    _ = godotenv.Load() // .env is optional; real env vars win
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    // Redis is optional: without it the lock, cache and rate limiter
    // degrade to no-ops while the store's atomic updates keep seat
    // accounting correct.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; running without lock, cache and rate limiting")
    }

    flightRepo := repository.NewFlightRepo(db)
    holdRepo := repository.NewSeatHoldRepo(db)

    var locker inventory.Locker
    var avail inventory.AvailabilityCache
    if rdb != nil {
        locker = lock.New(rdb)
        avail = cache.New(rdb, cfg.CacheTTL)
    }

    mgr := inventory.NewManager(flightRepo, holdRepo, locker, avail, queue.NewPublisher(), cfg.HoldTTL, cfg.LockTTL)
    admin := inventory.NewAdmin(flightRepo, holdRepo, avail)
    reaper := inventory.NewReaper(holdRepo, mgr, cfg.ReaperInterval)

    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()

    go reaper.Start(ctx)
    go func() {
        if err := queue.StartHoldConsumer(); err != nil {
            log.Printf("hold consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    flightHandler := handler.NewFlightHandler(mgr, flightRepo)
    router.RegisterRoutes(e)
    router.RegisterInventory(e, flightHandler, handler.NewHoldHandler(mgr), rdb)
    router.RegisterAdmin(e, flightHandler, handler.NewAdminHandler(admin), cfg.JWTSecret)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    go func() {
        if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := e.Shutdown(shutdownCtx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}
