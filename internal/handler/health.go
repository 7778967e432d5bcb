package handler // declare the package name; contains HTTP handlers

import (
    "context"
    "net/http"

    "github.com/labstack/echo/v4"
)

// Health is a liveness endpoint.  It returns "ok" with 200 as long as the
// process serves HTTP.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
    PingContext(ctx context.Context) error
}

// Ready returns a readiness endpoint that answers 503 while the database
// does not respond.
func Ready(db Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable", "error": "database unreachable"})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
    }
}
