package booking

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/hotel-booking/internal/model"
)

func quietLogger() *log.Logger {
	lg := log.New("test")
	lg.SetOutput(io.Discard)
	return lg
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeUsers map[uint64]*model.User

func (f fakeUsers) GetUserByID(_ context.Context, id uint64) (*model.User, error) {
	return f[id], nil
}

type fakeRooms map[uint64]*model.Room

func (f fakeRooms) GetRoomByID(_ context.Context, id uint64) (*model.Room, error) {
	return f[id], nil
}

type fakeDiscounts map[uint64]*model.Discount

func (f fakeDiscounts) FindValidDiscount(_ context.Context, roomID uint64, checkIn, checkOut time.Time) (*model.Discount, error) {
	d := f[roomID]
	if d == nil {
		return nil, nil
	}
	// inclusive window touching any night of [checkIn, checkOut)
	if d.StartDate.Before(checkOut) && !d.EndDate.Before(dateOf(checkIn)) {
		return d, nil
	}
	return nil, nil
}

// memStore keeps bookings in memory.  LockRooms takes one mutex per room
// that is held until the unit of work ends, like SELECT ... FOR UPDATE.
type memStore struct {
	mu       sync.Mutex
	nextID   uint64
	bookings map[uint64]*model.Booking
	locks    map[uint64]*sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{bookings: map[uint64]*model.Booking{}, locks: map[uint64]*sync.Mutex{}}
}

func (m *memStore) seed(b model.Booking) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	m.bookings[b.ID] = &b
	return b.ID
}

func (m *memStore) get(id uint64) *model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil
	}
	cp := *b
	return &cp
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.Active() {
			n++
		}
	}
	return n
}

func (m *memStore) roomLock(id uint64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

func (m *memStore) available(roomID uint64, in, out time.Time, exclude uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	want := Stay{CheckIn: in, CheckOut: out}
	for _, b := range m.bookings {
		if !b.Active() || b.ID == exclude || !b.HasRoom(roomID) {
			continue
		}
		if want.Overlaps(Stay{CheckIn: b.CheckIn, CheckOut: b.CheckOut}) {
			return false
		}
	}
	return true
}

func (m *memStore) WithTx(_ context.Context, fn func(Tx) error) error {
	tx := &memTx{s: m, deletes: map[uint64]time.Time{}}
	defer tx.release()
	if err := fn(tx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range tx.writes {
		cp := *b
		m.bookings[b.ID] = &cp
	}
	for id, at := range tx.deletes {
		if b, ok := m.bookings[id]; ok {
			at := at
			b.DeletedAt = &at
		}
	}
	return nil
}

func (m *memStore) FindBooking(_ context.Context, id uint64) (*model.Booking, error) {
	return m.get(id), nil
}

func (m *memStore) ListUserBookings(_ context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.bookings {
		if b.UserID == userID && b.Active() {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memStore) IsRoomAvailable(_ context.Context, roomID uint64, in, out time.Time) (bool, error) {
	return m.available(roomID, in, out, 0), nil
}

type memTx struct {
	s       *memStore
	held    []*sync.Mutex
	writes  []*model.Booking
	deletes map[uint64]time.Time
}

func (t *memTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
}

func (t *memTx) LockRooms(_ context.Context, ids []uint64) error {
	if !sort.SliceIsSorted(ids, func(i, j int) bool { return ids[i] < ids[j] }) {
		return errors.New("room ids not sorted")
	}
	for _, id := range ids {
		l := t.s.roomLock(id)
		l.Lock()
		t.held = append(t.held, l)
	}
	return nil
}

func (t *memTx) IsRoomAvailable(_ context.Context, roomID uint64, in, out time.Time, exclude uint64) (bool, error) {
	return t.s.available(roomID, in, out, exclude), nil
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
	t.s.mu.Lock()
	t.s.nextID++
	b.ID = t.s.nextID
	t.s.mu.Unlock()
	cp := *b
	t.writes = append(t.writes, &cp)
	return nil
}

func (t *memTx) GetBookingForUpdate(_ context.Context, id uint64) (*model.Booking, error) {
	return t.s.get(id), nil
}

func (t *memTx) UpdateBooking(_ context.Context, b *model.Booking) error {
	cp := *b
	t.writes = append(t.writes, &cp)
	return nil
}

func (t *memTx) DeleteBooking(_ context.Context, id uint64, at time.Time) error {
	t.deletes[id] = at
	return nil
}

type recordingNotifier struct {
	err  error
	sent chan model.Booking
}

func newRecordingNotifier(err error) *recordingNotifier {
	return &recordingNotifier{err: err, sent: make(chan model.Booking, 64)}
}

func (n *recordingNotifier) DispatchBookingConfirmation(_ context.Context, b model.Booking) error {
	n.sent <- b
	return n.err
}
