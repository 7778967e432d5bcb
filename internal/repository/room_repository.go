package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ErrRoomExists is returned when a hotel already has a room with the
// same number.
var ErrRoomExists = errors.New("room number already exists in hotel")

// RoomRepo reads and maintains rooms.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = "id, hotel_id, number, price_per_night_cents, adult_capacity, child_capacity"

func scanRoom(s interface{ Scan(...any) error }) (*model.Room, error) {
	var m model.Room
	if err := s.Scan(&m.ID, &m.HotelID, &m.Number, &m.PricePerNightCents, &m.AdultCapacity, &m.ChildCapacity); err != nil {
		return nil, err
	}
	return &m, nil
}

// GetRoomByID returns the room or nil when it does not exist.
func (r *RoomRepo) GetRoomByID(ctx context.Context, id uint64) (*model.Room, error) {
	m, err := scanRoom(r.db.QueryRowContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// CreateRoom inserts m and sets its ID.
func (r *RoomRepo) CreateRoom(ctx context.Context, m *model.Room) error {
	const q = `INSERT INTO rooms (hotel_id, number, price_per_night_cents, adult_capacity, child_capacity)
               VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.HotelID, m.Number, m.PricePerNightCents, m.AdultCapacity, m.ChildCapacity)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// UpdateRoom rewrites the mutable fields of a room.  The hotel and
// number never change.
func (r *RoomRepo) UpdateRoom(ctx context.Context, m *model.Room) error {
	const q = `UPDATE rooms SET price_per_night_cents = ?, adult_capacity = ?, child_capacity = ?
               WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, m.PricePerNightCents, m.AdultCapacity, m.ChildCapacity, m.ID)
	return err
}

// ListRoomsByHotel returns the rooms of a hotel ordered by number.
func (r *RoomRepo) ListRoomsByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+roomColumns+" FROM rooms WHERE hotel_id = ? ORDER BY number, id", hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Room{}
	for rows.Next() {
		m, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
