package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hotel-booking/internal/booking"
	"github.com/iliyamo/hotel-booking/internal/model"
)

// BookingRepo stores bookings and their rooms.  A booking row lives in
// `bookings`; each booked room is a row in `booking_rooms`.  Cancelled
// bookings keep their rows with deleted_at set.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const bookingColumns = `id, user_id, remarks, check_in, check_out, booking_date,
                        total_before_cents, total_after_cents, created_at, updated_at, deleted_at`

// WithTx runs fn in a READ COMMITTED transaction.  Isolation alone does not
// stop two writers from booking the same room; callers take row locks via
// Tx.LockRooms.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(booking.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&bookingTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return lockConflict(err)
	}
	committed = true
	return nil
}

// FindBooking returns the booking with its rooms, including cancelled
// ones, or nil when it does not exist.
func (r *BookingRepo) FindBooking(ctx context.Context, id uint64) (*model.Booking, error) {
	return getBooking(ctx, r.db, id, false)
}

// ListUserBookings returns the user's bookings that are not cancelled,
// newest first.
func (r *BookingRepo) ListUserBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE user_id = ? AND deleted_at IS NULL
               ORDER BY created_at DESC, id DESC`
	return r.listBookings(ctx, q, userID)
}

// ListHotelBookings returns the active bookings that hold at least one
// room of hotelID, ordered by check-in.
func (r *BookingRepo) ListHotelBookings(ctx context.Context, hotelID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
               FROM bookings
               WHERE deleted_at IS NULL AND id IN (
                   SELECT br.booking_id FROM booking_rooms br
                   JOIN rooms r ON r.id = br.room_id
                   WHERE r.hotel_id = ?)
               ORDER BY check_in, id`
	return r.listBookings(ctx, q, hotelID)
}

func (r *BookingRepo) listBookings(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Room ids are loaded after the cursor is closed by the loop above.
	for i := range out {
		ids, err := roomIDsOf(ctx, r.db, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].RoomIDs = ids
	}
	return out, nil
}

// IsRoomAvailable is the read-only variant of the availability check used
// outside a transaction.
func (r *BookingRepo) IsRoomAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (bool, error) {
	return roomAvailable(ctx, r.db, roomID, checkIn, checkOut, 0)
}

// bookingTx implements booking.Tx over a *sql.Tx.
type bookingTx struct {
	tx *sql.Tx
}

// LockRooms takes exclusive row locks on the rooms, in id order.  Every
// create and date change locks its rooms first, so two requests for the
// same room run their availability checks one after the other.
func (t *bookingTx) LockRooms(ctx context.Context, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	q := `SELECT id FROM rooms WHERE id IN (?` + strings.Repeat(",?", len(roomIDs)-1) + `) ORDER BY id FOR UPDATE`
	args := make([]any, len(roomIDs))
	for i, id := range roomIDs {
		args[i] = id
	}
	rows, err := t.tx.QueryContext(ctx, q, args...)
	if err != nil {
		return lockConflict(err)
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return err
		}
	}
	return lockConflict(rows.Err())
}

func (t *bookingTx) IsRoomAvailable(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeBookingID uint64) (bool, error) {
	return roomAvailable(ctx, t.tx, roomID, checkIn, checkOut, excludeBookingID)
}

// InsertBooking inserts the booking row and its rooms, then sets b.ID.
func (t *bookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, remarks, check_in, check_out, booking_date,
                                     total_before_cents, total_after_cents, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		b.UserID, b.Remarks, b.CheckIn, b.CheckOut, b.BookingDate,
		b.TotalBeforeCents, b.TotalAfterCents, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return lockConflict(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return t.insertRooms(ctx, b.ID, b.RoomIDs)
}

// insertRooms inserts all booking_rooms rows in a single statement.
func (t *bookingTx) insertRooms(ctx context.Context, bookingID uint64, roomIDs []uint64) error {
	if len(roomIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_rooms (booking_id, room_id) VALUES `
	args := make([]any, 0, len(roomIDs)*2)
	for i, id := range roomIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, id)
	}
	_, err := t.tx.ExecContext(ctx, query, args...)
	return lockConflict(err)
}

// GetBookingForUpdate loads and row-locks the booking, or returns nil.
func (t *bookingTx) GetBookingForUpdate(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := getBooking(ctx, t.tx, id, true)
	return b, lockConflict(err)
}

func (t *bookingTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings
               SET remarks = ?, check_in = ?, check_out = ?,
                   total_before_cents = ?, total_after_cents = ?, updated_at = ?
               WHERE id = ? AND deleted_at IS NULL`
	res, err := t.tx.ExecContext(ctx, q,
		b.Remarks, b.CheckIn, b.CheckOut, b.TotalBeforeCents, b.TotalAfterCents, b.UpdatedAt, b.ID)
	if err != nil {
		return lockConflict(err)
	}
	return expectOneRow(res, b.ID)
}

// DeleteBooking marks the booking cancelled.  Its booking_rooms rows stay
// for history and are ignored by availability checks.
func (t *bookingTx) DeleteBooking(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE bookings SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`
	res, err := t.tx.ExecContext(ctx, q, at, at, id)
	if err != nil {
		return lockConflict(err)
	}
	return expectOneRow(res, id)
}

func expectOneRow(res sql.Result, id uint64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return fmt.Errorf("booking %d: %d rows affected", id, n)
	}
	return nil
}

// roomAvailable applies the half-open overlap test against every booking
// of the room that is not cancelled.
func roomAvailable(ctx context.Context, q queryer, roomID uint64, checkIn, checkOut time.Time, exclude uint64) (bool, error) {
	const sel = `SELECT EXISTS (
                   SELECT 1
                   FROM booking_rooms br
                   JOIN bookings b ON b.id = br.booking_id
                   WHERE br.room_id = ?
                     AND b.deleted_at IS NULL
                     AND b.id <> ?
                     AND b.check_in < ?
                     AND b.check_out > ?)`
	var taken bool
	if err := q.QueryRowContext(ctx, sel, roomID, exclude, checkOut, checkIn).Scan(&taken); err != nil {
		return false, err
	}
	return !taken, nil
}

func getBooking(ctx context.Context, q queryer, id uint64, forUpdate bool) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := q.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	var b *model.Booking
	if rows.Next() {
		b, err = scanBooking(rows)
	}
	if err == nil {
		err = rows.Err()
	}
	rows.Close()
	if err != nil || b == nil {
		return nil, err
	}
	if b.RoomIDs, err = roomIDsOf(ctx, q, b.ID); err != nil {
		return nil, err
	}
	return b, nil
}

func roomIDsOf(ctx context.Context, q queryer, bookingID uint64) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, `SELECT room_id FROM booking_rooms WHERE booking_id = ? ORDER BY room_id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanBooking(rows *sql.Rows) (*model.Booking, error) {
	var (
		b       model.Booking
		deleted sql.NullTime
	)
	err := rows.Scan(&b.ID, &b.UserID, &b.Remarks, &b.CheckIn, &b.CheckOut, &b.BookingDate,
		&b.TotalBeforeCents, &b.TotalAfterCents, &b.CreatedAt, &b.UpdatedAt, &deleted)
	if err != nil {
		return nil, err
	}
	if deleted.Valid {
		t := deleted.Time
		b.DeletedAt = &t
	}
	return &b, nil
}

var _ booking.Store = (*BookingRepo)(nil)
var _ booking.Tx = (*bookingTx)(nil)

