package model

// Room is a bookable unit of a hotel.  Rooms are read-only from the
// booking engine's point of view.
type Room struct {
    ID                 uint64 // rooms.id
    HotelID            uint64 // rooms.hotel_id
    Number             string // rooms.number
    PricePerNightCents int64  // rooms.price_per_night_cents
    AdultCapacity      uint8  // rooms.adult_capacity
    ChildCapacity      uint8  // rooms.child_capacity
}
