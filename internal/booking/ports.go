package booking

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// Lookups return (nil, nil) when the record does not exist.

type Users interface {
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
}

type RoomCatalog interface {
	GetRoomByID(ctx context.Context, id uint64) (*model.Room, error)
}

// DiscountLookup returns the discount that applies to roomID for some part
// of the [checkIn, checkOut) window, or nil.
type DiscountLookup interface {
	FindValidDiscount(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (*model.Discount, error)
}

// Store is the booking persistence boundary.  WithTx runs fn inside one
// unit of work and commits only when fn returns nil.
type Store interface {
	WithTx(ctx context.Context, fn func(Tx) error) error
	FindBooking(ctx context.Context, id uint64) (*model.Booking, error)
	ListUserBookings(ctx context.Context, userID uint64) ([]model.Booking, error)
	IsRoomAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error)
}

// Tx is a unit of work opened by Store.WithTx.
//
// LockRooms must block other units of work that lock any of the same rooms
// until this one ends.  Ids are passed sorted ascending.  An implementation
// that gives up waiting returns an error wrapping ErrConflict.
type Tx interface {
	LockRooms(ctx context.Context, roomIDs []uint64) error
	// IsRoomAvailable ignores cancelled bookings and the booking with id
	// excludeBookingID (0 excludes nothing).
	IsRoomAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (bool, error)
	InsertBooking(ctx context.Context, b *model.Booking) error
	GetBookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateBooking(ctx context.Context, b *model.Booking) error
	DeleteBooking(ctx context.Context, id uint64, at time.Time) error
}

// Notifier informs the guest about a confirmed booking.  It is called
// after commit and its failures never affect the booking.
type Notifier interface {
	DispatchBookingConfirmation(ctx context.Context, b model.Booking) error
}
