package config // package config loads application configuration from environment variables

import (
    "log"
    "os"
    "strconv"
    "time"
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Durations are expressed in the unit the
// variable name carries (minutes or seconds) to keep .env files simple.
type Config struct {
    Env       string // application environment (e.g. "dev", "prod")
    Port      string // HTTP port to listen on
    DBUser    string // database username
    DBPass    string // database password (optional)
    DBHost    string // database host address
    DBPort    string // database port number
    DBName    string // database name
    JWTSecret string // secret used to verify admin JWTs

    HoldTTL        time.Duration // how long a seat hold stays active
    ReaperInterval time.Duration // how often the expiry reaper scans
    LockTTL        time.Duration // lease TTL for the per-flight lock
    CacheTTL       time.Duration // TTL for cached flight availability
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message;
// the inventory timing knobs default to the production values.
func Load() Config {
    return Config{
        Env:       must("APP_ENV"),
        Port:      must("APP_PORT"),
        DBUser:    must("DB_USER"),
        DBPass:    os.Getenv("DB_PASS"), // empty allowed
        DBHost:    must("DB_HOST"),
        DBPort:    must("DB_PORT"),
        DBName:    must("DB_NAME"),
        JWTSecret: must("JWT_SECRET"),

        HoldTTL:        time.Duration(intOr("HOLD_TTL_MIN", 15)) * time.Minute,
        ReaperInterval: time.Duration(intOr("REAPER_INTERVAL_SEC", 60)) * time.Second,
        LockTTL:        time.Duration(intOr("LOCK_TTL_SEC", 10)) * time.Second,
        CacheTTL:       time.Duration(intOr("CACHE_TTL_SEC", 30)) * time.Second,
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// intOr returns the integer value of an environment variable, or the
// default when the variable is unset or unparsable.
func intOr(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        return def
    }
    return n
}
