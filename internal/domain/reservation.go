package domain

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch ReservationStatus(strings.ToUpper(s)) {
	case ReservationStatusActive:
		return ReservationStatusActive, nil
	case ReservationStatusCancelled:
		return ReservationStatusCancelled, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
}

type Guest struct {
	Name  string
	Phone string
	Email string
}

type Reservation struct {
	ID           string
	HotelID      int64
	CategoryID   int64
	RoomID       string
	CheckIn      time.Time
	CheckOut     time.Time
	Status       ReservationStatus
	Guest        Guest
	CancelReason string
	CancelledBy  string
	CancelledAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (r *Reservation) Key() RoomKey {
	return RoomKey{HotelID: r.HotelID, CategoryID: r.CategoryID, RoomID: r.RoomID}
}

func (r *Reservation) Interval() Interval {
	return Interval{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}

func (r *Reservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// NewReservation builds an Active reservation. Only the gatekeeper calls it,
// after the conflict check has passed under the room lock.
func NewReservation(id string, key RoomKey, iv Interval, guest Guest, now time.Time) *Reservation {
	return &Reservation{
		ID:         id,
		HotelID:    key.HotelID,
		CategoryID: key.CategoryID,
		RoomID:     key.RoomID,
		CheckIn:    iv.CheckIn,
		CheckOut:   iv.CheckOut,
		Status:     ReservationStatusActive,
		Guest:      guest,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Cancel moves an Active reservation to Cancelled. Cancelled is terminal.
func (r *Reservation) Cancel(reason, actor string, now time.Time) error {
	if r.Status == ReservationStatusCancelled {
		return fmt.Errorf("%w: %s", ErrAlreadyCancelled, r.ID)
	}
	r.Status = ReservationStatusCancelled
	r.CancelReason = reason
	r.CancelledBy = actor
	r.CancelledAt = &now
	r.UpdatedAt = now
	return nil
}

// Reschedule replaces the interval of an Active reservation.
func (r *Reservation) Reschedule(iv Interval, now time.Time) error {
	if r.Status == ReservationStatusCancelled {
		return fmt.Errorf("%w: %s cannot be edited", ErrAlreadyCancelled, r.ID)
	}
	r.CheckIn = iv.CheckIn
	r.CheckOut = iv.CheckOut
	r.UpdatedAt = now
	return nil
}
