package inventory

import (
	"context"
	"log"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/repository"
)

type InventoryUseCase interface {
	ListHotels(ctx context.Context) ([]domain.Hotel, error)
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
	CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error)
}

// Cache holds inventory only. Reservation intervals are never cached.
type Cache interface {
	GetHotels(ctx context.Context) ([]domain.Hotel, error)
	SetHotels(ctx context.Context, hotels []domain.Hotel) error
	GetCategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error)
	SetCategoryRooms(ctx context.Context, hotelID, categoryID int64, rooms []domain.RoomNumber) error
}

type InventoryService struct {
	repo  repository.InventoryRepository
	cache Cache
}

// NewInventoryService builds the service; cache may be nil.
func NewInventoryService(repo repository.InventoryRepository, cache Cache) *InventoryService {
	return &InventoryService{repo: repo, cache: cache}
}

func (s *InventoryService) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetHotels(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	hotels, err := s.repo.ListHotels(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetHotels(ctx, hotels); err != nil {
			log.Printf("WARNING: cache hotels: %v", err)
		}
	}
	return hotels, nil
}

func (s *InventoryService) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	return s.repo.GetHotel(ctx, id)
}

func (s *InventoryService) CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetCategoryRooms(ctx, hotelID, categoryID); err == nil && cached != nil {
			return cached, nil
		}
	}

	rooms, err := s.repo.CategoryRooms(ctx, hotelID, categoryID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCategoryRooms(ctx, hotelID, categoryID, rooms); err != nil {
			log.Printf("WARNING: cache rooms hotel=%d category=%d: %v", hotelID, categoryID, err)
		}
	}
	return rooms, nil
}

var _ InventoryUseCase = (*InventoryService)(nil)
