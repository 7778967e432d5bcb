package model

import "time"

// Discount lowers the nightly price of a room for the nights that fall
// inside [StartDate, EndDate].  Both dates are inclusive calendar dates
// stored at UTC midnight.  Percent is in the range 1..100.
type Discount struct {
    ID        uint64    // discounts.id
    RoomID    uint64    // discounts.room_id
    StartDate time.Time // discounts.start_date
    EndDate   time.Time // discounts.end_date
    Percent   uint8     // discounts.percent
}

// Covers reports whether the night starting on date d is inside the
// discount window.  d is expected at UTC midnight.
func (d Discount) Covers(night time.Time) bool {
    return !night.Before(d.StartDate) && !night.After(d.EndDate)
}
