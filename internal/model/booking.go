package model

import "time"

// Booking is the aggregate recorded when a user reserves one or more rooms
// for a stay.  Rooms are referenced by id only; a room's lifecycle is
// independent of the bookings pointing at it.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who owns the booking.
//  RoomIDs          – rooms covered by the booking, no duplicates.
//  Remarks          – free text supplied by the guest (may be empty).
//  CheckIn          – start of the stay (UTC).
//  CheckOut         – end of the stay (UTC), always after CheckIn.
//  BookingDate      – calendar date (UTC, midnight) the booking was made.
//  TotalBeforeCents – undiscounted total across all rooms.
//  TotalAfterCents  – total after discounts, never above TotalBeforeCents.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
//  DeletedAt        – set when the booking was cancelled by its owner.
type Booking struct {
    ID               uint64     // bookings.id
    UserID           uint64     // bookings.user_id
    RoomIDs          []uint64   // booking_rooms.room_id
    Remarks          string     // bookings.remarks
    CheckIn          time.Time  // bookings.check_in
    CheckOut         time.Time  // bookings.check_out
    BookingDate      time.Time  // bookings.booking_date
    TotalBeforeCents int64      // bookings.total_before_cents
    TotalAfterCents  int64      // bookings.total_after_cents
    CreatedAt        time.Time  // bookings.created_at
    UpdatedAt        time.Time  // bookings.updated_at
    DeletedAt        *time.Time // bookings.deleted_at (nullable)
}

// Active reports whether the booking has not been cancelled.
func (b Booking) Active() bool { return b.DeletedAt == nil }

// HasRoom reports whether roomID is part of the booking.
func (b Booking) HasRoom(roomID uint64) bool {
    for _, id := range b.RoomIDs {
        if id == roomID {
            return true
        }
    }
    return false
}
