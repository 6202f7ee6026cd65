package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepository interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
	CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error)
}

type PGInventoryRepository struct {
	db *pgxpool.Pool
}

func NewInventoryRepository(db *pgxpool.Pool) InventoryRepository {
	return &PGInventoryRepository{db: db}
}

func (r *PGInventoryRepository) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, address FROM hotels ORDER BY id`)
	if err != nil {
		return nil, err
	}
	hotels := make([]domain.Hotel, 0)
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.Name, &h.Address); err != nil {
			rows.Close()
			return nil, err
		}
		hotels = append(hotels, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range hotels {
		if hotels[i].Categories, err = r.categories(ctx, hotels[i].ID); err != nil {
			return nil, err
		}
	}
	return hotels, nil
}

func (r *PGInventoryRepository) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	var h domain.Hotel
	err := r.db.QueryRow(ctx, `SELECT id, name, address FROM hotels WHERE id=$1`, id).Scan(&h.ID, &h.Name, &h.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: hotel %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if h.Categories, err = r.categories(ctx, h.ID); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PGInventoryRepository) CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM room_categories WHERE id=$1 AND hotel_id=$2)`, categoryID, hotelID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: category %d in hotel %d", domain.ErrNotFound, categoryID, hotelID)
	}
	return r.rooms(ctx, categoryID)
}

func (r *PGInventoryRepository) categories(ctx context.Context, hotelID int64) ([]domain.RoomCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, hotel_id, name, base_price_cents FROM room_categories WHERE hotel_id=$1 ORDER BY position, id`, hotelID)
	if err != nil {
		return nil, err
	}
	categories := make([]domain.RoomCategory, 0)
	for rows.Next() {
		var c domain.RoomCategory
		if err := rows.Scan(&c.ID, &c.HotelID, &c.Name, &c.BasePriceCents); err != nil {
			rows.Close()
			return nil, err
		}
		categories = append(categories, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		if categories[i].Rooms, err = r.rooms(ctx, categories[i].ID); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

func (r *PGInventoryRepository) rooms(ctx context.Context, categoryID int64) ([]domain.RoomNumber, error) {
	rows, err := r.db.Query(ctx, `SELECT room_id, category_id FROM rooms WHERE category_id=$1 ORDER BY position, room_id`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]domain.RoomNumber, 0)
	for rows.Next() {
		var room domain.RoomNumber
		if err := rows.Scan(&room.ID, &room.CategoryID); err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

var _ InventoryRepository = (*PGInventoryRepository)(nil)
