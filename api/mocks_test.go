package api

import (
	"context"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/service/reservation"
	"github.com/stretchr/testify/mock"
)

// MockInventoryUseCase is a mock implementation of inventory.InventoryUseCase
type MockInventoryUseCase struct {
	mock.Mock
}

func (m *MockInventoryUseCase) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockInventoryUseCase) GetHotel(ctx context.Context, id int64) (*domain.Hotel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Hotel), args.Error(1)
}

func (m *MockInventoryUseCase) CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error) {
	args := m.Called(ctx, hotelID, categoryID)
	return args.Get(0).([]domain.RoomNumber), args.Error(1)
}

// MockReservationUseCase is a mock implementation of reservation.ReservationUseCase
type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) GetAvailableRooms(ctx context.Context, query reservation.AvailabilityQuery) ([]string, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReservationUseCase) CreateReservation(ctx context.Context, input reservation.CreateReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) EditReservation(ctx context.Context, id string, input reservation.EditReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) CancelReservation(ctx context.Context, id string, input reservation.CancelReservationInput) (*domain.Reservation, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationUseCase) ListHotelReservations(ctx context.Context, hotelID int64, status domain.ReservationStatus) ([]domain.Reservation, error) {
	args := m.Called(ctx, hotelID, status)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
