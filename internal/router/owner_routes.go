package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// RegisterOwner registers OWNER-scoped endpoints under /v1.
// All routes require a valid JWT and the OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
		limiter,
	)

	// ---- Hotels ----
	g.POST("/hotels", o.CreateHotel)
	g.GET("/hotels", o.ListHotels)
	g.GET("/hotels/:id/bookings", o.ListHotelBookings)

	// ---- Rooms ----
	g.POST("/hotels/:id/rooms", o.CreateRoom)
	g.GET("/hotels/:id/rooms", o.ListRooms)
	g.PATCH("/rooms/:id", o.UpdateRoom)

	// ---- Discounts ----
	g.POST("/rooms/:id/discounts", o.CreateDiscount)
	g.GET("/rooms/:id/discounts", o.ListDiscounts)
	g.DELETE("/discounts/:id", o.DeleteDiscount)
}
