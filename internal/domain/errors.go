package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInterval  = errors.New("invalid interval")
	ErrRoomConflict     = errors.New("room conflict")
	ErrAlreadyCancelled = errors.New("reservation already cancelled")
	ErrBusy             = errors.New("room is busy, try again")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation error")
)

// ConflictError names the active reservation a candidate collided with.
type ConflictError struct {
	BookingID string
	GuestName string
	Interval  Interval
}

func (e *ConflictError) Error() string {
	if e.GuestName == "" {
		return fmt.Sprintf("room conflict with reservation %s %s", e.BookingID, e.Interval)
	}
	return fmt.Sprintf("room conflict with reservation %s (%s) %s", e.BookingID, e.GuestName, e.Interval)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrRoomConflict
}
