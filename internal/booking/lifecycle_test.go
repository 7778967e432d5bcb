package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

func seedBooking(f fixture, user uint64, rooms []uint64, bookedOn, in, out string) uint64 {
	return f.store.seed(model.Booking{
		UserID:           user,
		RoomIDs:          rooms,
		CheckIn:          day(in),
		CheckOut:         day(out),
		BookingDate:      day(bookedOn),
		TotalBeforeCents: 1,
		TotalAfterCents:  1,
	})
}

func TestDeleteBookingWindow(t *testing.T) {
	// today is 2024-05-20
	tests := []struct {
		name     string
		bookedOn string
		checkIn  string
		wantErr  error
	}{
		{"booked today, stay in five days", "2024-05-20", "2024-05-25", nil},
		{"booked yesterday", "2024-05-19", "2024-05-25", nil},
		{"booked two days ago", "2024-05-18", "2024-05-25", ErrConflict},
		{"check-in is today", "2024-05-20", "2024-05-20", ErrConflict},
		{"check-in yesterday", "2024-05-20", "2024-05-19", ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			in := day(tt.checkIn)
			id := seedBooking(f, 1, []uint64{10}, tt.bookedOn, tt.checkIn, in.AddDate(0, 0, 2).Format("2006-01-02"))

			err := f.svc.DeleteBooking(context.Background(), id, 1)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("DeleteBooking: %v", err)
				}
				if f.store.get(id).Active() {
					t.Fatalf("booking should be marked deleted")
				}
				return
			}
			assertKind(t, err, tt.wantErr)
			if !f.store.get(id).Active() {
				t.Fatalf("booking must not be deleted")
			}
		})
	}
}

func TestDeleteBookingOwnership(t *testing.T) {
	f := newFixture(t, nil)
	id := seedBooking(f, 1, []uint64{10}, "2024-05-20", "2024-05-25", "2024-05-27")

	be := assertKind(t, f.svc.DeleteBooking(context.Background(), id, 2), ErrForbidden)
	if be.ID != id {
		t.Fatalf("error names booking %d, want %d", be.ID, id)
	}
	assertKind(t, f.svc.DeleteBooking(context.Background(), 999, 1), ErrNotFound)

	if err := f.svc.DeleteBooking(context.Background(), id, 1); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	assertKind(t, f.svc.DeleteBooking(context.Background(), id, 1), ErrNotFound)
	if _, err := f.svc.GetBooking(context.Background(), id, 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted booking still visible: %v", err)
	}
}

func TestDeletedBookingFreesRoom(t *testing.T) {
	f := newFixture(t, nil)
	b, err := f.create(t, 1, []uint64{10}, "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if err := f.svc.DeleteBooking(context.Background(), b.ID, 1); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if _, err := f.create(t, 2, []uint64{10}, "2024-06-01", "2024-06-03"); err != nil {
		t.Fatalf("room should be free after cancellation: %v", err)
	}
}

func TestUpdateBookingRemarks(t *testing.T) {
	f := newFixture(t, nil)
	id := seedBooking(f, 1, []uint64{10}, "2024-05-10", "2024-06-01", "2024-06-03")

	remarks := "extra pillow"
	b, err := f.svc.UpdateBooking(context.Background(), id, 1, Patch{Remarks: &remarks})
	if err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	if b.Remarks != remarks || f.store.get(id).Remarks != remarks {
		t.Fatalf("remarks not updated")
	}
	// totals are untouched when dates do not change
	if b.TotalAfterCents != 1 {
		t.Fatalf("total changed to %d", b.TotalAfterCents)
	}

	_, err = f.svc.UpdateBooking(context.Background(), id, 2, Patch{Remarks: &remarks})
	assertKind(t, err, ErrForbidden)
	_, err = f.svc.UpdateBooking(context.Background(), 404, 1, Patch{Remarks: &remarks})
	assertKind(t, err, ErrNotFound)
	_, err = f.svc.UpdateBooking(context.Background(), id, 1, Patch{})
	assertKind(t, err, ErrInvalid)
}

func TestUpdateBookingDates(t *testing.T) {
	f := newFixture(t, nil)
	mine, err := f.create(t, 1, []uint64{10}, "2024-06-01", "2024-06-03")
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := f.create(t, 2, []uint64{10}, "2024-06-10", "2024-06-12"); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	// extending into the other guest's stay conflicts
	out := day("2024-06-11")
	_, err = f.svc.UpdateBooking(context.Background(), mine.ID, 1, Patch{CheckOut: &out})
	assertKind(t, err, ErrConflict)

	// shifting within its own window is allowed and repriced
	in, out := day("2024-06-02"), day("2024-06-06")
	b, err := f.svc.UpdateBooking(context.Background(), mine.ID, 1, Patch{CheckIn: &in, CheckOut: &out})
	if err != nil {
		t.Fatalf("UpdateBooking: %v", err)
	}
	if b.TotalBeforeCents != 40000 || b.TotalAfterCents != 36000 {
		t.Fatalf("totals = %d/%d, want 40000/36000", b.TotalBeforeCents, b.TotalAfterCents)
	}
	if !f.store.get(mine.ID).CheckOut.Equal(out) {
		t.Fatalf("check-out not persisted")
	}

	bad := day("2024-06-01")
	_, err = f.svc.UpdateBooking(context.Background(), mine.ID, 1, Patch{CheckOut: &bad})
	assertKind(t, err, ErrInvalid)
}

func TestListUserBookings(t *testing.T) {
	f := newFixture(t, nil)
	first := seedBooking(f, 1, []uint64{10}, "2024-05-10", "2024-06-01", "2024-06-03")
	second := seedBooking(f, 1, []uint64{11}, "2024-05-11", "2024-07-01", "2024-07-03")
	seedBooking(f, 2, []uint64{12}, "2024-05-11", "2024-07-01", "2024-07-03")

	list, err := f.svc.ListUserBookings(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListUserBookings: %v", err)
	}
	if len(list) != 2 || list[0].ID != second || list[1].ID != first {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestCheckDeletableUsesCalendarDays(t *testing.T) {
	b := &model.Booking{ID: 1, BookingDate: day("2024-05-19"), CheckIn: day("2024-05-21").Add(15 * time.Hour)}
	// late on the 20th is still within one calendar day of the 19th
	if err := checkDeletable(b, day("2024-05-20").Add(23*time.Hour)); err != nil {
		t.Fatalf("checkDeletable: %v", err)
	}
}
