package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// RegisterCustomer registers booking endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  The limiter runs after
// authentication so buckets are keyed by user.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleCustomer),
		limiter,
	)
	g.POST("/bookings/quote", h.Quote)
	g.POST("/bookings", h.CreateBooking)
	g.GET("/my-bookings", h.ListBookings)
	g.GET("/bookings/:id", h.GetBooking)
	g.PATCH("/bookings/:id", h.UpdateBooking)
	g.DELETE("/bookings/:id", h.DeleteBooking)
}
