package allocation

import (
	"context"
	"fmt"
	"sort"

	"github.com/anisurarzu/hotelseashore/internal/domain"
)

// ActiveReservationLister is the store query the index is built on.
type ActiveReservationLister interface {
	ListActiveByRoom(ctx context.Context, key domain.RoomKey) ([]domain.Reservation, error)
}

// Index answers ActiveIntervals for a single request. Results are memoised
// per room for the life of the Index; create a new one for every request so
// nothing is reused across concurrent writes.
type Index struct {
	store ActiveReservationLister
	rooms map[domain.RoomKey][]Occupancy
}

func NewIndex(store ActiveReservationLister) *Index {
	return &Index{store: store, rooms: make(map[domain.RoomKey][]Occupancy)}
}

// ActiveIntervals lists the active occupancies of a room ordered by
// check-in, then booking id.
func (i *Index) ActiveIntervals(ctx context.Context, key domain.RoomKey) ([]Occupancy, error) {
	if cached, ok := i.rooms[key]; ok {
		return cached, nil
	}

	reservations, err := i.store.ListActiveByRoom(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list active reservations for %s: %w", key, err)
	}

	out := make([]Occupancy, 0, len(reservations))
	for _, r := range reservations {
		if !r.IsActive() {
			continue
		}
		out = append(out, occupancyOf(r))
	}
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].Interval.CheckIn.Equal(out[b].Interval.CheckIn) {
			return out[a].Interval.CheckIn.Before(out[b].Interval.CheckIn)
		}
		return out[a].BookingID < out[b].BookingID
	})

	i.rooms[key] = out
	return out, nil
}
