package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/booking"
)

// RoomHandler serves the public room endpoints.
type RoomHandler struct {
	Rooms booking.RoomCatalog
	Svc   BookingService
}

func NewRoomHandler(rooms booking.RoomCatalog, svc BookingService) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Svc: svc}
}

// GetRoom handles GET /v1/rooms/:id.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	r, err := h.Rooms.GetRoomByID(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if r == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	return c.JSON(http.StatusOK, toRoomResp(*r))
}

// Availability handles GET /v1/rooms/:id/availability?check_in=&check_out=.
func (h *RoomHandler) Availability(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	checkIn, checkOut, msg := parseStay(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	free, err := h.Svc.IsAvailable(ctx, id, checkIn, checkOut)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"room_id":   id,
		"check_in":  checkIn,
		"check_out": checkOut,
		"available": free,
	})
}
