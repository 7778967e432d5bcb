package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// RegisterRoutes registers the unauthenticated probes.  /healthz reports
// liveness, /readyz also pings the database.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
}

// RegisterAuth registers authentication routes.  Register and login live
// under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner, middleware.RoleCustomer),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers guest endpoints for rooms.  Responses are
// served through the Redis response cache.
func RegisterPublic(e *echo.Echo, r *handler.RoomHandler, limiter, cache echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms", limiter, cache)
	g.GET("/:id", r.GetRoom)
	g.GET("/:id/availability", r.Availability)
}
