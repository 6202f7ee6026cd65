package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository interface {
	ListActiveByRoom(ctx context.Context, key domain.RoomKey) ([]domain.Reservation, error)
	// ListByHotel lists a hotel's reservations; an empty status lists all.
	ListByHotel(ctx context.Context, hotelID int64, status domain.ReservationStatus) ([]domain.Reservation, error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation) error
}

// pgExclusionViolation is raised by reservations_no_overlap.
const pgExclusionViolation = "23P01"

const reservationColumns = `id, hotel_id, category_id, room_id, check_in, check_out, status,
	guest_name, guest_phone, guest_email, cancel_reason, cancelled_by, cancelled_at, created_at, updated_at`

type PGReservationRepository struct {
	db *pgxpool.Pool
}

func NewReservationRepository(db *pgxpool.Pool) ReservationRepository {
	return &PGReservationRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var r domain.Reservation
	if err := row.Scan(&r.ID, &r.HotelID, &r.CategoryID, &r.RoomID, &r.CheckIn, &r.CheckOut, &r.Status,
		&r.Guest.Name, &r.Guest.Phone, &r.Guest.Email, &r.CancelReason, &r.CancelledBy, &r.CancelledAt,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *PGReservationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *PGReservationRepository) ListActiveByRoom(ctx context.Context, key domain.RoomKey) ([]domain.Reservation, error) {
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations
		WHERE hotel_id=$1 AND category_id=$2 AND room_id=$3 AND status=$4
		ORDER BY check_in, id`, key.HotelID, key.CategoryID, key.RoomID, domain.ReservationStatusActive)
}

func (r *PGReservationRepository) ListByHotel(ctx context.Context, hotelID int64, status domain.ReservationStatus) ([]domain.Reservation, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE hotel_id=$1 ORDER BY check_in, id`, hotelID)
	}
	return r.list(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE hotel_id=$1 AND status=$2 ORDER BY check_in, id`, hotelID, status)
}

func (r *PGReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	res, err := scanReservation(r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	return res, err
}

func (r *PGReservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	err := r.db.QueryRow(ctx, `INSERT INTO reservations (id, hotel_id, category_id, room_id, check_in, check_out, status,
			guest_name, guest_phone, guest_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
		RETURNING created_at, updated_at`,
		res.ID, res.HotelID, res.CategoryID, res.RoomID, res.CheckIn, res.CheckOut, res.Status,
		res.Guest.Name, res.Guest.Phone, res.Guest.Email, res.CreatedAt).
		Scan(&res.CreatedAt, &res.UpdatedAt)
	return mapWriteError(err)
}

func (r *PGReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	err := r.db.QueryRow(ctx, `UPDATE reservations
		SET check_in=$2, check_out=$3, status=$4, cancel_reason=$5, cancelled_by=$6, cancelled_at=$7, updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		res.ID, res.CheckIn, res.CheckOut, res.Status, res.CancelReason, res.CancelledBy, res.CancelledAt).
		Scan(&res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: reservation %s", domain.ErrNotFound, res.ID)
	}
	return mapWriteError(err)
}

// mapWriteError turns the overlap exclusion constraint into ErrRoomConflict.
// It only fires when a writer bypassed the gatekeeper's lock.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return fmt.Errorf("%w: %s", domain.ErrRoomConflict, pgErr.ConstraintName)
	}
	return err
}

var _ ReservationRepository = (*PGReservationRepository)(nil)
