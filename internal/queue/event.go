// Package queue carries booking confirmations over RabbitMQ: the publisher
// used by the booking engine and the background consumer that records them.
package queue

import (
    "time"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// BookingConfirmedQueue is the durable queue confirmations are routed to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published after a booking is committed.
// It contains enough information for downstream consumers to notify the
// guest without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        uint64   `json:"booking_id"`
    UserID           uint64   `json:"user_id"`
    RoomIDs          []uint64 `json:"room_ids"`
    CheckIn          string   `json:"check_in"`
    CheckOut         string   `json:"check_out"`
    BookingDate      string   `json:"booking_date"`
    Remarks          string   `json:"remarks,omitempty"`
    TotalBeforeCents int64    `json:"total_before_cents"`
    TotalAfterCents  int64    `json:"total_after_cents"`
    ConfirmedAt      string   `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event for b.  Timestamps are RFC3339
// in UTC; the booking date is YYYY-MM-DD.
func NewBookingConfirmedEvent(b model.Booking, at time.Time) BookingConfirmedEvent {
    return BookingConfirmedEvent{
        BookingID:        b.ID,
        UserID:           b.UserID,
        RoomIDs:          append([]uint64(nil), b.RoomIDs...),
        CheckIn:          b.CheckIn.UTC().Format(time.RFC3339),
        CheckOut:         b.CheckOut.UTC().Format(time.RFC3339),
        BookingDate:      b.BookingDate.UTC().Format("2006-01-02"),
        Remarks:          b.Remarks,
        TotalBeforeCents: b.TotalBeforeCents,
        TotalAfterCents:  b.TotalAfterCents,
        ConfirmedAt:      at.UTC().Format(time.RFC3339),
    }
}
