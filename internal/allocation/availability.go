package allocation

import (
	"context"
	"fmt"

	"github.com/anisurarzu/hotelseashore/internal/domain"
)

// RoomLister returns a category's rooms in the category's own order.
type RoomLister interface {
	CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error)
}

// Availability is the read path. It takes no locks; its answer is advisory
// and the gatekeeper re-checks on write.
type Availability struct {
	rooms        RoomLister
	reservations ActiveReservationLister
}

func NewAvailability(rooms RoomLister, reservations ActiveReservationLister) *Availability {
	return &Availability{rooms: rooms, reservations: reservations}
}

// AvailableRooms returns the ids of rooms in the category with no active
// reservation overlapping candidate, in category order. A nil candidate
// returns every room in the category.
func (a *Availability) AvailableRooms(ctx context.Context, hotelID, categoryID int64, candidate *domain.Interval, exclude string) ([]string, error) {
	rooms, err := a.rooms.CategoryRooms(ctx, hotelID, categoryID)
	if err != nil {
		return nil, err
	}

	free := make([]string, 0, len(rooms))
	if candidate == nil {
		for _, room := range rooms {
			free = append(free, room.ID)
		}
		return free, nil
	}

	index := NewIndex(a.reservations)
	for _, room := range rooms {
		key := domain.RoomKey{HotelID: hotelID, CategoryID: categoryID, RoomID: room.ID}
		existing, err := index.ActiveIntervals(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("availability: %w", err)
		}
		if !HasConflict(*candidate, existing, exclude) {
			free = append(free, room.ID)
		}
	}
	return free, nil
}
