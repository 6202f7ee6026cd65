package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/anisurarzu/hotelseashore/internal/domain"
)

// MemoryStore keeps inventory and reservations in process memory. It backs
// the "memory" database driver and the allocation tests. Values are copied
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu           sync.RWMutex
	hotels       []domain.Hotel
	reservations map[string]domain.Reservation
}

func NewMemoryStore(hotels []domain.Hotel) *MemoryStore {
	return &MemoryStore{
		hotels:       cloneHotels(hotels),
		reservations: make(map[string]domain.Reservation),
	}
}

func cloneHotels(hotels []domain.Hotel) []domain.Hotel {
	out := make([]domain.Hotel, len(hotels))
	for i, h := range hotels {
		out[i] = h
		out[i].Categories = make([]domain.RoomCategory, len(h.Categories))
		for j, c := range h.Categories {
			out[i].Categories[j] = c
			out[i].Categories[j].Rooms = append([]domain.RoomNumber(nil), c.Rooms...)
		}
	}
	return out
}

func (s *MemoryStore) ListHotels(_ context.Context) ([]domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHotels(s.hotels), nil
}

func (s *MemoryStore) GetHotel(_ context.Context, id int64) (*domain.Hotel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.hotels {
		if h.ID == id {
			c := cloneHotels([]domain.Hotel{h})[0]
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: hotel %d", domain.ErrNotFound, id)
}

func (s *MemoryStore) CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error) {
	h, err := s.GetHotel(ctx, hotelID)
	if err != nil {
		return nil, err
	}
	c, ok := h.Category(categoryID)
	if !ok {
		return nil, fmt.Errorf("%w: category %d in hotel %d", domain.ErrNotFound, categoryID, hotelID)
	}
	return c.Rooms, nil
}

func (s *MemoryStore) ListActiveByRoom(_ context.Context, key domain.RoomKey) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.Key() == key && r.IsActive() {
			out = append(out, r)
		}
	}
	sortReservations(out)
	return out, nil
}

func (s *MemoryStore) ListByHotel(_ context.Context, hotelID int64, status domain.ReservationStatus) ([]domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.HotelID != hotelID {
			continue
		}
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, r)
	}
	sortReservations(out)
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*domain.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[id]
	if !ok {
		return nil, fmt.Errorf("%w: reservation %s", domain.ErrNotFound, id)
	}
	return &r, nil
}

func (s *MemoryStore) Create(_ context.Context, r *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; ok {
		return fmt.Errorf("reservation %s already exists", r.ID)
	}
	s.reservations[r.ID] = *r
	return nil
}

func (s *MemoryStore) Update(_ context.Context, r *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reservations[r.ID]; !ok {
		return fmt.Errorf("%w: reservation %s", domain.ErrNotFound, r.ID)
	}
	s.reservations[r.ID] = *r
	return nil
}

func sortReservations(rs []domain.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CheckIn.Equal(rs[j].CheckIn) {
			return rs[i].CheckIn.Before(rs[j].CheckIn)
		}
		return rs[i].ID < rs[j].ID
	})
}

var (
	_ InventoryRepository   = (*MemoryStore)(nil)
	_ ReservationRepository = (*MemoryStore)(nil)
)
