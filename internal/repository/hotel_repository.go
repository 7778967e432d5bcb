package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ErrHotelNotFound is returned when a hotel does not exist or belongs to
// another owner.
var ErrHotelNotFound = errors.New("hotel not found")

// HotelRepo persists hotels.
type HotelRepo struct {
	db *sql.DB
}

func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

const hotelColumns = "id, owner_id, name, city, created_at"

// CreateHotel inserts h and fills in its ID and CreatedAt.
func (r *HotelRepo) CreateHotel(ctx context.Context, h *model.Hotel) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO hotels (owner_id, name, city) VALUES (?, ?, ?)", h.OwnerID, h.Name, h.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	// created_at is filled by the database default.
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM hotels WHERE id = ?", h.ID).Scan(&h.CreatedAt)
}

// GetHotelForOwner returns the hotel only when ownerID owns it.
func (r *HotelRepo) GetHotelForOwner(ctx context.Context, id, ownerID uint64) (*model.Hotel, error) {
	const q = "SELECT " + hotelColumns + " FROM hotels WHERE id = ? AND owner_id = ?"
	var h model.Hotel
	err := r.db.QueryRowContext(ctx, q, id, ownerID).Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListHotelsByOwner returns the owner's hotels ordered by id.
func (r *HotelRepo) ListHotelsByOwner(ctx context.Context, ownerID uint64) ([]model.Hotel, error) {
	const q = "SELECT " + hotelColumns + " FROM hotels WHERE owner_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Hotel{}
	for rows.Next() {
		var h model.Hotel
		if err := rows.Scan(&h.ID, &h.OwnerID, &h.Name, &h.City, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
