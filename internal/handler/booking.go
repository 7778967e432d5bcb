package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingService is the part of the booking engine the HTTP layer uses.
type BookingService interface {
	CreateBooking(ctx context.Context, req booking.CreateRequest) (*model.Booking, error)
	GetBooking(ctx context.Context, id, requesterID uint64) (*model.Booking, error)
	ListUserBookings(ctx context.Context, userID uint64) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, id, requesterID uint64, p booking.Patch) (*model.Booking, error)
	DeleteBooking(ctx context.Context, id, requesterID uint64) error
	Quote(ctx context.Context, roomIDs []uint64, checkIn, checkOut time.Time) (booking.Quote, error)
	IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error)
}

// BookingHandler serves the customer booking endpoints.  Every route is
// behind JWTAuth and RequireRole(CUSTOMER).
type BookingHandler struct {
	Svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	if svc == nil {
		panic("nil booking service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

// ----- DTOs -----

type createBookingReq struct {
	RoomIDs  []uint64 `json:"room_ids"`
	CheckIn  string   `json:"check_in"`
	CheckOut string   `json:"check_out"`
	Remarks  string   `json:"remarks"`
}

type patchBookingReq struct {
	Remarks  *string `json:"remarks"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
}

type quoteReq struct {
	RoomIDs  []uint64 `json:"room_ids"`
	CheckIn  string   `json:"check_in"`
	CheckOut string   `json:"check_out"`
}

type bookingResp struct {
	ID               uint64    `json:"id"`
	UserID           uint64    `json:"user_id"`
	RoomIDs          []uint64  `json:"room_ids"`
	Remarks          string    `json:"remarks"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	BookingDate      string    `json:"booking_date"`
	TotalBeforeCents int64     `json:"total_before_cents"`
	TotalAfterCents  int64     `json:"total_after_cents"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toBookingResp(b model.Booking) bookingResp {
	rooms := b.RoomIDs
	if rooms == nil {
		rooms = []uint64{}
	}
	return bookingResp{
		ID:               b.ID,
		UserID:           b.UserID,
		RoomIDs:          rooms,
		Remarks:          b.Remarks,
		CheckIn:          b.CheckIn.UTC(),
		CheckOut:         b.CheckOut.UTC(),
		BookingDate:      b.BookingDate.UTC().Format(dateLayout),
		TotalBeforeCents: b.TotalBeforeCents,
		TotalAfterCents:  b.TotalAfterCents,
		CreatedAt:        b.CreatedAt.UTC(),
		UpdatedAt:        b.UpdatedAt.UTC(),
	}
}

type quoteLineResp struct {
	RoomID           uint64 `json:"room_id"`
	Nights           int    `json:"nights"`
	PricePerNight    int64  `json:"price_per_night_cents"`
	BaseCents        int64  `json:"base_cents"`
	DiscountPercent  uint8  `json:"discount_percent"`
	DiscountedNights int    `json:"discounted_nights"`
	TotalCents       int64  `json:"total_cents"`
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.RoomIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_ids is required"})
	}
	checkIn, checkOut, msg := parseStay(req.CheckIn, req.CheckOut)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	b, err := h.Svc.CreateBooking(ctx, booking.CreateRequest{
		UserID:   uid,
		RoomIDs:  req.RoomIDs,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Remarks:  req.Remarks,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(*b))
}

// ListBookings handles GET /v1/my-bookings.
func (h *BookingHandler) ListBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	list, err := h.Svc.ListUserBookings(ctx, uid)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]bookingResp, 0, len(list))
	for _, b := range list {
		items = append(items, toBookingResp(b))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "count": len(items)})
}

// GetBooking handles GET /v1/bookings/:id.
func (h *BookingHandler) GetBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	b, err := h.Svc.GetBooking(ctx, id, uid)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(*b))
}

// UpdateBooking handles PATCH /v1/bookings/:id.  Only remarks, check_in
// and check_out may change.
func (h *BookingHandler) UpdateBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req patchBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	p := booking.Patch{Remarks: req.Remarks}
	if req.CheckIn != nil {
		t, err := parseDate(*req.CheckIn)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in: " + err.Error()})
		}
		p.CheckIn = &t
	}
	if req.CheckOut != nil {
		t, err := parseDate(*req.CheckOut)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_out: " + err.Error()})
		}
		p.CheckOut = &t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	b, err := h.Svc.UpdateBooking(ctx, id, uid, p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(*b))
}

// DeleteBooking handles DELETE /v1/bookings/:id.
func (h *BookingHandler) DeleteBooking(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Svc.DeleteBooking(ctx, id, uid); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Quote handles POST /v1/bookings/quote.
func (h *BookingHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	checkIn, checkOut, msg := parseStay(req.CheckIn, req.CheckOut)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	q, err := h.Svc.Quote(ctx, req.RoomIDs, checkIn, checkOut)
	if err != nil {
		return writeError(c, err)
	}
	lines := make([]quoteLineResp, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, quoteLineResp{
			RoomID:           l.RoomID,
			Nights:           l.Nights,
			PricePerNight:    l.PricePerNight,
			BaseCents:        l.BaseCents,
			DiscountPercent:  l.DiscountPercent,
			DiscountedNights: l.DiscountedNights,
			TotalCents:       l.TotalCents,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":           q.Stay.CheckIn,
		"check_out":          q.Stay.CheckOut,
		"lines":              lines,
		"total_before_cents": q.TotalBeforeCents,
		"total_after_cents":  q.TotalAfterCents,
	})
}
