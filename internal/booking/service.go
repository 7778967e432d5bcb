package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// CreateRequest carries the input of CreateBooking.
type CreateRequest struct {
	UserID   uint64
	RoomIDs  []uint64
	CheckIn  time.Time
	CheckOut time.Time
	Remarks  string
}

// Service is the booking engine.  It creates bookings atomically with the
// availability check, and guards updates and cancellations.
type Service struct {
	users     Users
	rooms     RoomCatalog
	store     Store
	pricing   *PricingCalculator
	notifier  Notifier
	log       *log.Logger
	now       func() time.Time
	notifyTTL time.Duration
	inflight  sync.WaitGroup
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source used for booking dates and the
// cancellation window.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifyTimeout bounds each confirmation dispatch.
func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTTL = d
		}
	}
}

// NewService wires the engine.  notifier may be nil, in which case no
// confirmation is sent.
func NewService(users Users, rooms RoomCatalog, discounts DiscountLookup, store Store, notifier Notifier, lg *log.Logger, opts ...Option) *Service {
	if lg == nil {
		lg = log.New("booking")
	}
	s := &Service{
		users:     users,
		rooms:     rooms,
		store:     store,
		pricing:   NewPricingCalculator(discounts),
		notifier:  notifier,
		log:       lg,
		now:       time.Now,
		notifyTTL: 5 * time.Second,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateBooking resolves the user and rooms, then checks availability,
// prices and inserts the booking inside one unit of work that holds a lock
// on every requested room.
func (s *Service) CreateBooking(ctx context.Context, req CreateRequest) (*model.Booking, error) {
	stay := Stay{CheckIn: req.CheckIn, CheckOut: req.CheckOut}.UTC()
	if err := stay.Validate(); err != nil {
		return nil, err
	}
	if err := validateRoomIDs(req.RoomIDs); err != nil {
		return nil, err
	}

	u, err := s.users.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", req.UserID, err)
	}
	if u == nil {
		return nil, notFound("user", req.UserID)
	}
	rooms, err := s.resolveRooms(ctx, req.RoomIDs)
	if err != nil {
		return nil, err
	}

	var created model.Booking
	err = s.store.WithTx(ctx, func(tx Tx) error {
		if err := s.reserve(ctx, tx, req.RoomIDs, stay, 0); err != nil {
			return err
		}
		q, err := s.pricing.Price(ctx, rooms, stay)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		created = model.Booking{
			UserID:           req.UserID,
			RoomIDs:          append([]uint64(nil), req.RoomIDs...),
			Remarks:          req.Remarks,
			CheckIn:          stay.CheckIn,
			CheckOut:         stay.CheckOut,
			BookingDate:      dateOf(now),
			TotalBeforeCents: q.TotalBeforeCents,
			TotalAfterCents:  q.TotalAfterCents,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return tx.InsertBooking(ctx, &created)
	})
	if err != nil {
		return nil, lockConflict(err, req.RoomIDs)
	}

	s.log.Infof("booking %d created user=%d rooms=%v total=%d", created.ID, created.UserID, created.RoomIDs, created.TotalAfterCents)
	s.dispatch(created)
	return &created, nil
}

// reserve locks roomIDs in ascending order and verifies that each one is
// free for stay.  It must run inside the unit of work that writes the
// booking.
func (s *Service) reserve(ctx context.Context, tx Tx, roomIDs []uint64, stay Stay, exclude uint64) error {
	sorted := append([]uint64(nil), roomIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if err := tx.LockRooms(ctx, sorted); err != nil {
		return err
	}
	for _, id := range roomIDs {
		ok, err := tx.IsRoomAvailable(ctx, id, stay.CheckIn, stay.CheckOut, exclude)
		if err != nil {
			return fmt.Errorf("check availability of room %d: %w", id, err)
		}
		if !ok {
			return conflict("room", id, "room is not available for the requested dates")
		}
	}
	return nil
}

func (s *Service) resolveRooms(ctx context.Context, ids []uint64) ([]model.Room, error) {
	rooms := make([]model.Room, 0, len(ids))
	for _, id := range ids {
		r, err := s.rooms.GetRoomByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get room %d: %w", id, err)
		}
		if r == nil {
			return nil, notFound("room", id)
		}
		rooms = append(rooms, *r)
	}
	return rooms, nil
}

// dispatch sends the confirmation in the background.  The request context
// is not used so a finished request does not cancel the send.
func (s *Service) dispatch(b model.Booking) {
	if s.notifier == nil {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.notifyTTL)
		defer cancel()
		if err := s.notifier.DispatchBookingConfirmation(ctx, b); err != nil {
			s.log.Errorf("booking %d: confirmation dispatch failed: %v", b.ID, err)
		}
	}()
}

// Wait blocks until pending confirmations have been dispatched.
func (s *Service) Wait() { s.inflight.Wait() }

// Quote prices rooms for a stay without booking them.
func (s *Service) Quote(ctx context.Context, roomIDs []uint64, checkIn, checkOut time.Time) (Quote, error) {
	stay := Stay{CheckIn: checkIn, CheckOut: checkOut}.UTC()
	if err := stay.Validate(); err != nil {
		return Quote{}, err
	}
	if err := validateRoomIDs(roomIDs); err != nil {
		return Quote{}, err
	}
	rooms, err := s.resolveRooms(ctx, roomIDs)
	if err != nil {
		return Quote{}, err
	}
	return s.pricing.Price(ctx, rooms, stay)
}

// IsAvailable reports whether roomID is free for the whole stay.
func (s *Service) IsAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	stay := Stay{CheckIn: checkIn, CheckOut: checkOut}.UTC()
	if err := stay.Validate(); err != nil {
		return false, err
	}
	if _, err := s.resolveRooms(ctx, []uint64{roomID}); err != nil {
		return false, err
	}
	ok, err := s.store.IsRoomAvailable(ctx, roomID, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return false, fmt.Errorf("check availability of room %d: %w", roomID, err)
	}
	return ok, nil
}

func validateRoomIDs(ids []uint64) error {
	if len(ids) == 0 {
		return invalid("room_ids must not be empty")
	}
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return invalid("room_ids must be positive")
		}
		if _, dup := seen[id]; dup {
			return invalid(fmt.Sprintf("room %d requested more than once", id))
		}
		seen[id] = struct{}{}
	}
	return nil
}

// lockConflict turns a bare ErrConflict from the store (a lost lock race)
// into the same typed error the availability check produces.
func lockConflict(err error, roomIDs []uint64) error {
	var be *Error
	if errors.As(err, &be) || !errors.Is(err, ErrConflict) {
		return err
	}
	var id uint64
	if len(roomIDs) > 0 {
		id = roomIDs[0]
	}
	return conflict("room", id, "room is not available for the requested dates")
}
