package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/model"
	"github.com/iliyamo/hotel-booking/internal/repository"
)

// HotelStore persists hotels for their owners.
type HotelStore interface {
	CreateHotel(ctx context.Context, h *model.Hotel) error
	GetHotelForOwner(ctx context.Context, id, ownerID uint64) (*model.Hotel, error)
	ListHotelsByOwner(ctx context.Context, ownerID uint64) ([]model.Hotel, error)
}

// RoomStore maintains rooms.
type RoomStore interface {
	GetRoomByID(ctx context.Context, id uint64) (*model.Room, error)
	CreateRoom(ctx context.Context, m *model.Room) error
	UpdateRoom(ctx context.Context, m *model.Room) error
	ListRoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error)
}

// DiscountStore maintains room discounts.
type DiscountStore interface {
	CreateDiscount(ctx context.Context, d *model.Discount) error
	GetDiscount(ctx context.Context, id uint64) (*model.Discount, error)
	ListDiscountsByRoom(ctx context.Context, roomID uint64) ([]model.Discount, error)
	DeleteDiscount(ctx context.Context, id uint64) error
}

// HotelBookings lists the bookings that touch a hotel.
type HotelBookings interface {
	ListHotelBookings(ctx context.Context, hotelID uint64) ([]model.Booking, error)
}

// RoomInvalidator drops cached room records after a change.
type RoomInvalidator interface {
	Invalidate(ctx context.Context, id uint64) error
}

// OwnerHandler serves the hotel owner endpoints.  Every route is behind
// JWTAuth and RequireRole(OWNER); each handler checks that the hotel, room
// or discount belongs to the caller.
type OwnerHandler struct {
	Hotels    HotelStore
	Rooms     RoomStore
	Discounts DiscountStore
	Bookings  HotelBookings
	Cache     RoomInvalidator // optional
}

func NewOwnerHandler(hotels HotelStore, rooms RoomStore, discounts DiscountStore, bookings HotelBookings, cache RoomInvalidator) *OwnerHandler {
	if hotels == nil || rooms == nil || discounts == nil || bookings == nil {
		panic("nil store passed to NewOwnerHandler")
	}
	return &OwnerHandler{Hotels: hotels, Rooms: rooms, Discounts: discounts, Bookings: bookings, Cache: cache}
}

// ----- DTOs -----

type roomResp struct {
	ID                 uint64 `json:"id"`
	HotelID            uint64 `json:"hotel_id"`
	Number             string `json:"number"`
	PricePerNightCents int64  `json:"price_per_night_cents"`
	AdultCapacity      uint8  `json:"adult_capacity"`
	ChildCapacity      uint8  `json:"child_capacity"`
}

func toRoomResp(r model.Room) roomResp {
	return roomResp{
		ID:                 r.ID,
		HotelID:            r.HotelID,
		Number:             r.Number,
		PricePerNightCents: r.PricePerNightCents,
		AdultCapacity:      r.AdultCapacity,
		ChildCapacity:      r.ChildCapacity,
	}
}

type discountResp struct {
	ID        uint64 `json:"id"`
	RoomID    uint64 `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Percent   uint8  `json:"percent"`
}

func toDiscountResp(d model.Discount) discountResp {
	return discountResp{
		ID:        d.ID,
		RoomID:    d.RoomID,
		StartDate: d.StartDate.Format(dateLayout),
		EndDate:   d.EndDate.Format(dateLayout),
		Percent:   d.Percent,
	}
}

// ----- hotels -----

// CreateHotel handles POST /v1/hotels.
func (h *OwnerHandler) CreateHotel(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	hotel := &model.Hotel{OwnerID: ownerID, Name: name, City: strings.TrimSpace(body.City)}
	if err := h.Hotels.CreateHotel(ctx, hotel); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, hotel2map(*hotel))
}

// ListHotels handles GET /v1/hotels and returns the caller's hotels.
func (h *OwnerHandler) ListHotels(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	hotels, err := h.Hotels.ListHotelsByOwner(ctx, ownerID)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]echo.Map, 0, len(hotels))
	for _, ht := range hotels {
		items = append(items, hotel2map(ht))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

func hotel2map(h model.Hotel) echo.Map {
	return echo.Map{"id": h.ID, "name": h.Name, "city": h.City, "created_at": h.CreatedAt}
}

// ListHotelBookings handles GET /v1/hotels/:id/bookings.
func (h *OwnerHandler) ListHotelBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.Hotels.GetHotelForOwner(ctx, hotelID, ownerID); err != nil {
		return h.hotelError(c, err)
	}
	list, err := h.Bookings.ListHotelBookings(ctx, hotelID)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]bookingResp, 0, len(list))
	for _, b := range list {
		items = append(items, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// ----- rooms -----

// CreateRoom handles POST /v1/hotels/:id/rooms.
func (h *OwnerHandler) CreateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var body struct {
		Number             string `json:"number"`
		PricePerNightCents *int64 `json:"price_per_night_cents"`
		AdultCapacity      *uint8 `json:"adult_capacity"`
		ChildCapacity      *uint8 `json:"child_capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	number := strings.TrimSpace(body.Number)
	if number == "" || body.PricePerNightCents == nil || *body.PricePerNightCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number and a non-negative price_per_night_cents are required"})
	}
	room := &model.Room{HotelID: hotelID, Number: number, PricePerNightCents: *body.PricePerNightCents, AdultCapacity: 2}
	if body.AdultCapacity != nil {
		room.AdultCapacity = *body.AdultCapacity
	}
	if body.ChildCapacity != nil {
		room.ChildCapacity = *body.ChildCapacity
	}
	if room.AdultCapacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "adult_capacity must be at least 1"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.Hotels.GetHotelForOwner(ctx, hotelID, ownerID); err != nil {
		return h.hotelError(c, err)
	}
	if err := h.Rooms.CreateRoom(ctx, room); err != nil {
		if errors.Is(err, repository.ErrRoomExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toRoomResp(*room))
}

// ListRooms handles GET /v1/hotels/:id/rooms.
func (h *OwnerHandler) ListRooms(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if _, err := h.Hotels.GetHotelForOwner(ctx, hotelID, ownerID); err != nil {
		return h.hotelError(c, err)
	}
	rooms, err := h.Rooms.ListRoomsByHotel(ctx, hotelID)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]roomResp, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, toRoomResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// UpdateRoom handles PATCH /v1/rooms/:id.  Price and capacities may
// change; bookings already made keep their totals.
func (h *OwnerHandler) UpdateRoom(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var body struct {
		PricePerNightCents *int64 `json:"price_per_night_cents"`
		AdultCapacity      *uint8 `json:"adult_capacity"`
		ChildCapacity      *uint8 `json:"child_capacity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PricePerNightCents == nil && body.AdultCapacity == nil && body.ChildCapacity == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	room, resp := h.ownedRoom(ctx, c, roomID, ownerID)
	if room == nil {
		return resp
	}
	if p := body.PricePerNightCents; p != nil {
		if *p < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_night_cents must not be negative"})
		}
		room.PricePerNightCents = *p
	}
	if body.AdultCapacity != nil {
		if *body.AdultCapacity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "adult_capacity must be at least 1"})
		}
		room.AdultCapacity = *body.AdultCapacity
	}
	if body.ChildCapacity != nil {
		room.ChildCapacity = *body.ChildCapacity
	}
	if err := h.Rooms.UpdateRoom(ctx, room); err != nil {
		return writeError(c, err)
	}
	if h.Cache != nil {
		if err := h.Cache.Invalidate(ctx, room.ID); err != nil {
			c.Logger().Warnf("room %d: cache invalidate: %v", room.ID, err)
		}
	}
	return c.JSON(http.StatusOK, toRoomResp(*room))
}

// ----- discounts -----

// CreateDiscount handles POST /v1/rooms/:id/discounts.  Dates are
// inclusive calendar dates.
func (h *OwnerHandler) CreateDiscount(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Percent   int    `json:"percent"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	start, err := time.Parse(dateLayout, strings.TrimSpace(body.StartDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
	}
	end, err := time.Parse(dateLayout, strings.TrimSpace(body.EndDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
	}
	if end.Before(start) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must not be before start_date"})
	}
	if body.Percent < 1 || body.Percent > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "percent must be between 1 and 100"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if room, resp := h.ownedRoom(ctx, c, roomID, ownerID); room == nil {
		return resp
	}
	d := &model.Discount{RoomID: roomID, StartDate: start, EndDate: end, Percent: uint8(body.Percent)}
	if err := h.Discounts.CreateDiscount(ctx, d); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toDiscountResp(*d))
}

// ListDiscounts handles GET /v1/rooms/:id/discounts.
func (h *OwnerHandler) ListDiscounts(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if room, resp := h.ownedRoom(ctx, c, roomID, ownerID); room == nil {
		return resp
	}
	list, err := h.Discounts.ListDiscountsByRoom(ctx, roomID)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]discountResp, 0, len(list))
	for _, d := range list {
		items = append(items, toDiscountResp(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// DeleteDiscount handles DELETE /v1/discounts/:id.
func (h *OwnerHandler) DeleteDiscount(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid discount id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	d, err := h.Discounts.GetDiscount(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	if d == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "discount not found"})
	}
	if room, resp := h.ownedRoom(ctx, c, d.RoomID, ownerID); room == nil {
		return resp
	}
	if err := h.Discounts.DeleteDiscount(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "discount not found"})
		}
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ownedRoom loads a room and checks that its hotel belongs to ownerID.
// A nil room means the error response has already been written.
func (h *OwnerHandler) ownedRoom(ctx context.Context, c echo.Context, roomID, ownerID uint64) (*model.Room, error) {
	room, err := h.Rooms.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, writeError(c, err)
	}
	if room == nil {
		return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
	}
	if _, err := h.Hotels.GetHotelForOwner(ctx, room.HotelID, ownerID); err != nil {
		if errors.Is(err, repository.ErrHotelNotFound) {
			return nil, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return nil, writeError(c, err)
	}
	return room, nil
}

func (h *OwnerHandler) hotelError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrHotelNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
	}
	return writeError(c, err)
}
