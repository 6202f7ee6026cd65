package allocation

import (
	"context"
	"fmt"
	"time"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/google/uuid"
)

// ReservationStore is the authoritative reservation storage. Create and
// Update are only called while the room's lock is held.
type ReservationStore interface {
	ActiveReservationLister
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	Create(ctx context.Context, r *domain.Reservation) error
	Update(ctx context.Context, r *domain.Reservation) error
}

// LockObserver is told how long each lock acquisition took.
type LockObserver func(key domain.RoomKey, waited time.Duration, err error)

type ReserveRequest struct {
	Key      domain.RoomKey
	Interval domain.Interval
	Guest    domain.Guest
	// ExcludeBookingID turns the request into an edit of that booking.
	ExcludeBookingID string
}

// Gatekeeper makes check-then-commit atomic per room.
type Gatekeeper struct {
	locker  Locker
	store   ReservationStore
	now     func() time.Time
	newID   func() string
	observe LockObserver
}

type GatekeeperOption func(*Gatekeeper)

func WithClock(now func() time.Time) GatekeeperOption {
	return func(g *Gatekeeper) {
		g.now = now
	}
}

func WithIDGenerator(newID func() string) GatekeeperOption {
	return func(g *Gatekeeper) {
		g.newID = newID
	}
}

func WithLockObserver(observe LockObserver) GatekeeperOption {
	return func(g *Gatekeeper) {
		g.observe = observe
	}
}

func NewGatekeeper(locker Locker, store ReservationStore, opts ...GatekeeperOption) *Gatekeeper {
	g := &Gatekeeper{
		locker: locker,
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gatekeeper) lock(ctx context.Context, key domain.RoomKey) (func(), error) {
	start := time.Now()
	unlock, err := g.locker.Lock(ctx, key)
	if g.observe != nil {
		g.observe(key, time.Since(start), err)
	}
	return unlock, err
}

// Reserve creates a reservation, or edits ExcludeBookingID's dates, if no
// other active reservation on the room overlaps the interval. On conflict
// it returns a *domain.ConflictError and nothing is written.
func (g *Gatekeeper) Reserve(ctx context.Context, req ReserveRequest) (*domain.Reservation, error) {
	if !req.Interval.CheckOut.After(req.Interval.CheckIn) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInterval, req.Interval)
	}

	unlock, err := g.lock(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var current *domain.Reservation
	if req.ExcludeBookingID != "" {
		current, err = g.store.GetByID(ctx, req.ExcludeBookingID)
		if err != nil {
			return nil, err
		}
		if current.Key() != req.Key {
			return nil, fmt.Errorf("%w: reservation %s is not on %s", domain.ErrValidation, current.ID, req.Key)
		}
		if !current.IsActive() {
			return nil, fmt.Errorf("%w: %s cannot be edited", domain.ErrAlreadyCancelled, current.ID)
		}
	}

	existing, err := NewIndex(g.store).ActiveIntervals(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	if hit, ok := FindConflict(req.Interval, existing, req.ExcludeBookingID); ok {
		return nil, conflictError(hit)
	}

	now := g.now()
	if current != nil {
		edited := *current
		if err := edited.Reschedule(req.Interval, now); err != nil {
			return nil, err
		}
		if err := g.store.Update(ctx, &edited); err != nil {
			return nil, fmt.Errorf("update reservation %s: %w", edited.ID, err)
		}
		return &edited, nil
	}

	created := domain.NewReservation(g.newID(), req.Key, req.Interval, req.Guest, now)
	if err := g.store.Create(ctx, created); err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	return created, nil
}

// Cancel soft-cancels a reservation under its room's lock, releasing the
// interval for new bookings.
func (g *Gatekeeper) Cancel(ctx context.Context, bookingID, reason, actor string) (*domain.Reservation, error) {
	found, err := g.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	unlock, err := g.lock(ctx, found.Key())
	if err != nil {
		return nil, err
	}
	defer unlock()

	current, err := g.store.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	cancelled := *current
	if err := cancelled.Cancel(reason, actor, g.now()); err != nil {
		return nil, err
	}
	if err := g.store.Update(ctx, &cancelled); err != nil {
		return nil, fmt.Errorf("cancel reservation %s: %w", bookingID, err)
	}
	return &cancelled, nil
}
