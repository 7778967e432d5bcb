package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// DiscountRepo looks up room discounts.
type DiscountRepo struct {
	db *sql.DB
}

func NewDiscountRepo(db *sql.DB) *DiscountRepo { return &DiscountRepo{db: db} }

// FindValidDiscount returns the highest discount for roomID whose inclusive
// [start_date, end_date] window contains at least one night of the stay.
// A night is identified by its date; the first is checkIn's date.
func (r *DiscountRepo) FindValidDiscount(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (*model.Discount, error) {
	const q = `SELECT id, room_id, start_date, end_date, percent
               FROM discounts
               WHERE room_id = ? AND start_date <= ? AND end_date >= ?
               ORDER BY percent DESC, id
               LIMIT 1`
	first := dateOnly(checkIn)
	nights := int(checkOut.Sub(checkIn) / (24 * time.Hour))
	if nights < 1 {
		return nil, nil
	}
	last := first.AddDate(0, 0, nights-1)

	var d model.Discount
	err := r.db.QueryRowContext(ctx, q, roomID, last, first).Scan(
		&d.ID, &d.RoomID, &d.StartDate, &d.EndDate, &d.Percent,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.StartDate, d.EndDate = dateOnly(d.StartDate), dateOnly(d.EndDate)
	return &d, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateDiscount inserts d and sets its ID.  Dates are stored as
// calendar dates.
func (r *DiscountRepo) CreateDiscount(ctx context.Context, d *model.Discount) error {
	const q = "INSERT INTO discounts (room_id, start_date, end_date, percent) VALUES (?, ?, ?, ?)"
	d.StartDate, d.EndDate = dateOnly(d.StartDate), dateOnly(d.EndDate)
	res, err := r.db.ExecContext(ctx, q, d.RoomID, d.StartDate, d.EndDate, d.Percent)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// GetDiscount returns the discount or nil when it does not exist.
func (r *DiscountRepo) GetDiscount(ctx context.Context, id uint64) (*model.Discount, error) {
	const q = "SELECT id, room_id, start_date, end_date, percent FROM discounts WHERE id = ?"
	var d model.Discount
	err := r.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &d.RoomID, &d.StartDate, &d.EndDate, &d.Percent)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.StartDate, d.EndDate = dateOnly(d.StartDate), dateOnly(d.EndDate)
	return &d, nil
}

// ListDiscountsByRoom returns every discount of a room ordered by start date.
func (r *DiscountRepo) ListDiscountsByRoom(ctx context.Context, roomID uint64) ([]model.Discount, error) {
	const q = `SELECT id, room_id, start_date, end_date, percent
               FROM discounts WHERE room_id = ? ORDER BY start_date, id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Discount{}
	for rows.Next() {
		var d model.Discount
		if err := rows.Scan(&d.ID, &d.RoomID, &d.StartDate, &d.EndDate, &d.Percent); err != nil {
			return nil, err
		}
		d.StartDate, d.EndDate = dateOnly(d.StartDate), dateOnly(d.EndDate)
		out = append(out, d)
	}
	return out, rows.Err()
}

// DeleteDiscount removes a discount.  Existing bookings keep the totals
// they were priced with.
func (r *DiscountRepo) DeleteDiscount(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM discounts WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return err
}
