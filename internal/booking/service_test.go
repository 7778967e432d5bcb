package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

var fixedNow = time.Date(2024, 5, 20, 10, 30, 0, 0, time.UTC)

type fixture struct {
	svc      *Service
	store    *memStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T, notifyErr error) fixture {
	t.Helper()
	users := fakeUsers{1: {ID: 1}, 2: {ID: 2}}
	rooms := fakeRooms{
		10: {ID: 10, HotelID: 1, PricePerNightCents: 10000},
		11: {ID: 11, HotelID: 1, PricePerNightCents: 8000},
		12: {ID: 12, HotelID: 1, PricePerNightCents: 12000},
	}
	discounts := fakeDiscounts{
		10: {ID: 1, RoomID: 10, StartDate: day("2024-05-01"), EndDate: day("2024-07-31"), Percent: 10},
	}
	store := newMemStore()
	n := newRecordingNotifier(notifyErr)
	svc := NewService(users, rooms, discounts, store, n, quietLogger(), WithClock(func() time.Time { return fixedNow }))
	return fixture{svc: svc, store: store, notifier: n}
}

func (f fixture) create(t *testing.T, user uint64, rooms []uint64, in, out string) (*model.Booking, error) {
	t.Helper()
	return f.svc.CreateBooking(context.Background(), CreateRequest{
		UserID: user, RoomIDs: rooms, CheckIn: day(in), CheckOut: day(out),
	})
}

func assertKind(t *testing.T, err, kind error) *Error {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("err = %v, want %v", err, kind)
	}
	var be *Error
	if !errors.As(err, &be) {
		t.Fatalf("err %T is not *Error", err)
	}
	return be
}

func TestCreateBooking(t *testing.T) {
	f := newFixture(t, nil)
	b, err := f.svc.CreateBooking(context.Background(), CreateRequest{
		UserID: 1, RoomIDs: []uint64{10, 11},
		CheckIn: day("2024-06-01"), CheckOut: day("2024-06-04"), Remarks: "late arrival",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if !b.BookingDate.Equal(day("2024-05-20")) {
		t.Fatalf("booking date = %v, want 2024-05-20", b.BookingDate)
	}
	// room 10: 3 * 100.00 at 10% off; room 11: 3 * 80.00
	if b.TotalBeforeCents != 54000 || b.TotalAfterCents != 51000 {
		t.Fatalf("totals = %d/%d, want 54000/51000", b.TotalBeforeCents, b.TotalAfterCents)
	}
	if b.Remarks != "late arrival" {
		t.Fatalf("remarks = %q", b.Remarks)
	}
	if stored := f.store.get(b.ID); stored == nil || len(stored.RoomIDs) != 2 {
		t.Fatalf("booking not persisted: %+v", stored)
	}

	select {
	case sent := <-f.notifier.sent:
		if sent.ID != b.ID {
			t.Fatalf("notified booking %d, want %d", sent.ID, b.ID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation was not dispatched")
	}
}

func TestCreateBookingNotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.create(t, 99, []uint64{10}, "2024-06-01", "2024-06-02")
	if be := assertKind(t, err, ErrNotFound); be.Entity != "user" || be.ID != 99 {
		t.Fatalf("unexpected error %+v", be)
	}

	_, err = f.create(t, 1, []uint64{10, 404}, "2024-06-01", "2024-06-02")
	if be := assertKind(t, err, ErrNotFound); be.Entity != "room" || be.ID != 404 {
		t.Fatalf("unexpected error %+v", be)
	}
	if f.store.count() != 0 {
		t.Fatalf("no booking should be stored")
	}
}

func TestCreateBookingInvalid(t *testing.T) {
	f := newFixture(t, nil)
	cases := []struct {
		name  string
		rooms []uint64
		in    string
		out   string
	}{
		{"duplicate rooms", []uint64{10, 10}, "2024-06-01", "2024-06-02"},
		{"no rooms", nil, "2024-06-01", "2024-06-02"},
		{"inverted stay", []uint64{10}, "2024-06-03", "2024-06-02"},
		{"zero nights", []uint64{10}, "2024-06-03", "2024-06-03"},
	}
	for _, c := range cases {
		_, err := f.create(t, 1, c.rooms, c.in, c.out)
		if !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", c.name, err)
		}
	}
}

func TestCreateBookingOverlap(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.create(t, 1, []uint64{11}, "2024-06-01", "2024-06-05"); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := f.create(t, 2, []uint64{11}, "2024-06-04", "2024-06-06")
	if be := assertKind(t, err, ErrConflict); be.Entity != "room" || be.ID != 11 {
		t.Fatalf("unexpected error %+v", be)
	}

	if _, err := f.create(t, 2, []uint64{11}, "2024-06-05", "2024-06-07"); err != nil {
		t.Fatalf("same day turnover should succeed: %v", err)
	}
}

func TestCreateBookingMultiRoomConflictIsAllOrNothing(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.create(t, 1, []uint64{12}, "2024-06-01", "2024-06-03"); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	_, err := f.create(t, 2, []uint64{11, 12}, "2024-06-02", "2024-06-04")
	if be := assertKind(t, err, ErrConflict); be.ID != 12 {
		t.Fatalf("conflict names room %d, want 12", be.ID)
	}
	if f.store.count() != 1 {
		t.Fatalf("stored bookings = %d, want 1", f.store.count())
	}
	ok, err := f.svc.IsAvailable(context.Background(), 11, day("2024-06-02"), day("2024-06-04"))
	if err != nil || !ok {
		t.Fatalf("room 11 should still be free: ok=%v err=%v", ok, err)
	}
}

func TestCreateBookingSurvivesNotifierFailure(t *testing.T) {
	f := newFixture(t, errors.New("broker down"))
	b, err := f.create(t, 1, []uint64{10}, "2024-06-01", "2024-06-02")
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	f.svc.Wait()
	if f.store.get(b.ID) == nil {
		t.Fatalf("booking must stay committed")
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("dispatch attempts = %d, want 1", len(f.notifier.sent))
	}
}

func TestCreateBookingConcurrentSameRoom(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		f := newFixture(t, nil)
		start := make(chan struct{})
		errs := make([]error, 2)
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				_, errs[i] = f.svc.CreateBooking(context.Background(), CreateRequest{
					UserID: uint64(i + 1), RoomIDs: []uint64{11, 10},
					CheckIn: day("2024-06-01").AddDate(0, 0, i), CheckOut: day("2024-06-04"),
				})
			}(i)
		}
		close(start)
		wg.Wait()

		ok, conflicts := 0, 0
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrConflict):
				conflicts++
			default:
				t.Fatalf("trial %d: unexpected error %v", trial, err)
			}
		}
		if ok != 1 || conflicts != 1 {
			t.Fatalf("trial %d: %d successes, %d conflicts", trial, ok, conflicts)
		}
		f.svc.Wait()
	}
}

func TestQuote(t *testing.T) {
	f := newFixture(t, nil)
	q, err := f.svc.Quote(context.Background(), []uint64{10}, day("2024-06-01"), day("2024-06-04"))
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.TotalBeforeCents != 30000 || q.TotalAfterCents != 27000 {
		t.Fatalf("totals = %d/%d, want 30000/27000", q.TotalBeforeCents, q.TotalAfterCents)
	}
	if f.store.count() != 0 {
		t.Fatalf("quote must not book")
	}
}

func TestIsAvailableUnknownRoom(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.IsAvailable(context.Background(), 77, day("2024-06-01"), day("2024-06-02"))
	assertKind(t, err, ErrNotFound)
}
