package model

import "time"

// Hotel groups rooms under one owner.  Only the owner may add rooms,
// change prices or manage discounts.
type Hotel struct {
    ID        uint64    // hotels.id
    OwnerID   uint64    // hotels.owner_id
    Name      string    // hotels.name
    City      string    // hotels.city
    CreatedAt time.Time // hotels.created_at
}
