package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// deletionWindow is how long after the booking date the owner may cancel.
const deletionWindow = 24 * time.Hour

// Patch lists the fields an owner may change.  Nil fields are left as is.
type Patch struct {
	Remarks  *string
	CheckIn  *time.Time
	CheckOut *time.Time
}

func (p Patch) empty() bool {
	return p.Remarks == nil && p.CheckIn == nil && p.CheckOut == nil
}

// checkDeletable enforces the cancellation rules on an owned booking.
// Dates are compared as UTC calendar days.
func checkDeletable(b *model.Booking, now time.Time) error {
	today := dateOf(now)
	if today.Sub(dateOf(b.BookingDate)) > deletionWindow {
		return conflict("booking", b.ID, "deletion window has expired")
	}
	if !dateOf(b.CheckIn).After(today) {
		return conflict("booking", b.ID, "stay has already started")
	}
	return nil
}

// owned loads a live booking and checks it belongs to requesterID.
func owned(b *model.Booking, id, requesterID uint64) error {
	if b == nil || !b.Active() {
		return notFound("booking", id)
	}
	if b.UserID != requesterID {
		return forbidden(id)
	}
	return nil
}

// GetBooking returns a live booking owned by requesterID.
func (s *Service) GetBooking(ctx context.Context, id, requesterID uint64) (*model.Booking, error) {
	b, err := s.store.FindBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking %d: %w", id, err)
	}
	if err := owned(b, id, requesterID); err != nil {
		return nil, err
	}
	return b, nil
}

// ListUserBookings returns the user's live bookings, newest first.
func (s *Service) ListUserBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	list, err := s.store.ListUserBookings(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, err)
	}
	return list, nil
}

// DeleteBooking cancels a booking.  The owner may cancel within one day
// of the booking date and only before the check-in day.
func (s *Service) DeleteBooking(ctx context.Context, id, requesterID uint64) error {
	err := s.store.WithTx(ctx, func(tx Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("load booking %d: %w", id, err)
		}
		if err := owned(b, id, requesterID); err != nil {
			return err
		}
		now := s.now().UTC()
		if err := checkDeletable(b, now); err != nil {
			return err
		}
		return tx.DeleteBooking(ctx, id, now)
	})
	if err != nil {
		return err
	}
	s.log.Infof("booking %d deleted by user %d", id, requesterID)
	return nil
}

// UpdateBooking applies p to a booking owned by requesterID.  A change of
// dates re-runs the availability check, ignoring the booking itself, and
// reprices every room.
func (s *Service) UpdateBooking(ctx context.Context, id, requesterID uint64, p Patch) (*model.Booking, error) {
	if p.empty() {
		return nil, invalid("nothing to update")
	}
	var (
		updated model.Booking
		roomIDs []uint64
	)
	err := s.store.WithTx(ctx, func(tx Tx) error {
		b, err := tx.GetBookingForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("load booking %d: %w", id, err)
		}
		if err := owned(b, id, requesterID); err != nil {
			return err
		}
		roomIDs = b.RoomIDs
		if p.Remarks != nil {
			b.Remarks = *p.Remarks
		}
		if p.CheckIn != nil || p.CheckOut != nil {
			stay := Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}
			if p.CheckIn != nil {
				stay.CheckIn = *p.CheckIn
			}
			if p.CheckOut != nil {
				stay.CheckOut = *p.CheckOut
			}
			stay = stay.UTC()
			if err := stay.Validate(); err != nil {
				return err
			}
			if !stay.CheckIn.Equal(b.CheckIn) || !stay.CheckOut.Equal(b.CheckOut) {
				if err := s.reserve(ctx, tx, b.RoomIDs, stay, b.ID); err != nil {
					return err
				}
				rooms, err := s.resolveRooms(ctx, b.RoomIDs)
				if err != nil {
					return err
				}
				q, err := s.pricing.Price(ctx, rooms, stay)
				if err != nil {
					return err
				}
				b.CheckIn, b.CheckOut = stay.CheckIn, stay.CheckOut
				b.TotalBeforeCents, b.TotalAfterCents = q.TotalBeforeCents, q.TotalAfterCents
			}
		}
		b.UpdatedAt = s.now().UTC()
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		updated = *b
		return nil
	})
	if err != nil {
		return nil, lockConflict(err, roomIDs)
	}
	s.log.Infof("booking %d updated by user %d", id, requesterID)
	return &updated, nil
}
