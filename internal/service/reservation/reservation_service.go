package reservation

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/anisurarzu/hotelseashore/internal/allocation"
	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/kafka"
	"github.com/anisurarzu/hotelseashore/internal/repository"
)

const (
	OperationCreate = "create"
	OperationEdit   = "edit"
	OperationCancel = "cancel"
)

type ReservationUseCase interface {
	GetAvailableRooms(ctx context.Context, query AvailabilityQuery) ([]string, error)
	CreateReservation(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	EditReservation(ctx context.Context, id string, input EditReservationInput) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, id string, input CancelReservationInput) (*domain.Reservation, error)
	GetReservation(ctx context.Context, id string) (*domain.Reservation, error)
	ListHotelReservations(ctx context.Context, hotelID int64, status domain.ReservationStatus) ([]domain.Reservation, error)
}

// Inventory is the authoritative hotel inventory consulted on the write
// path. It must not be served from a cache.
type Inventory interface {
	GetHotel(ctx context.Context, id int64) (*domain.Hotel, error)
	CategoryRooms(ctx context.Context, hotelID, categoryID int64) ([]domain.RoomNumber, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type Recorder interface {
	ObserveReservation(operation string, err error)
}

// AvailabilityQuery leaves both dates nil to list every room in the
// category before the guest has picked a stay.
type AvailabilityQuery struct {
	HotelID          int64
	CategoryID       int64
	CheckIn          *time.Time
	CheckOut         *time.Time
	ExcludeBookingID string
}

type CreateReservationInput struct {
	HotelID    int64
	CategoryID int64
	RoomID     string
	CheckIn    time.Time
	CheckOut   time.Time
	Guest      domain.Guest
}

type EditReservationInput struct {
	CheckIn  time.Time
	CheckOut time.Time
}

type CancelReservationInput struct {
	Reason string
	Actor  string
}

// publishTimeout bounds event delivery after a commit.
const publishTimeout = 5 * time.Second

type ReservationService struct {
	inventory          Inventory
	readRooms          allocation.RoomLister
	reservations       repository.ReservationRepository
	gatekeeper         *allocation.Gatekeeper
	availability       *allocation.Availability
	producer           Producer
	reservationTopic   string
	notificationsTopic string
	recorder           Recorder
	gatekeeperOpts     []allocation.GatekeeperOption
}

type ReservationServiceOption func(*ReservationService)

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func WithRecorder(recorder Recorder) ReservationServiceOption {
	return func(s *ReservationService) {
		s.recorder = recorder
	}
}

// WithReadRooms sets the room lister used by availability queries, typically
// the cached inventory. Creates always check the authoritative inventory.
func WithReadRooms(rooms allocation.RoomLister) ReservationServiceOption {
	return func(s *ReservationService) {
		s.readRooms = rooms
	}
}

func WithGatekeeperOptions(opts ...allocation.GatekeeperOption) ReservationServiceOption {
	return func(s *ReservationService) {
		s.gatekeeperOpts = append(s.gatekeeperOpts, opts...)
	}
}

// NewReservationService wires the allocation engine. producer may be nil,
// in which case no events are published.
func NewReservationService(
	inventory Inventory,
	reservations repository.ReservationRepository,
	locker allocation.Locker,
	producer Producer,
	reservationTopic string,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		inventory:        inventory,
		readRooms:        inventory,
		reservations:     reservations,
		producer:         producer,
		reservationTopic: reservationTopic,
	}
	for _, opt := range opts {
		opt(service)
	}
	service.gatekeeper = allocation.NewGatekeeper(locker, reservations, service.gatekeeperOpts...)
	service.availability = allocation.NewAvailability(service.readRooms, reservations)
	return service
}

func (s *ReservationService) GetAvailableRooms(ctx context.Context, query AvailabilityQuery) ([]string, error) {
	if (query.CheckIn == nil) != (query.CheckOut == nil) {
		return nil, fmt.Errorf("%w: check_in and check_out must be given together", domain.ErrValidation)
	}

	var candidate *domain.Interval
	if query.CheckIn != nil {
		iv, err := domain.NewInterval(*query.CheckIn, *query.CheckOut)
		if err != nil {
			return nil, err
		}
		candidate = &iv
	}
	return s.availability.AvailableRooms(ctx, query.HotelID, query.CategoryID, candidate, query.ExcludeBookingID)
}

func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (res *domain.Reservation, err error) {
	defer func() { s.observe(OperationCreate, err) }()

	input.RoomID = strings.TrimSpace(input.RoomID)
	input.Guest.Name = strings.TrimSpace(input.Guest.Name)
	if input.RoomID == "" {
		return nil, fmt.Errorf("%w: room_id is required", domain.ErrValidation)
	}
	if input.Guest.Name == "" {
		return nil, fmt.Errorf("%w: guest name is required", domain.ErrValidation)
	}

	iv, err := domain.NewInterval(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}

	rooms, err := s.inventory.CategoryRooms(ctx, input.HotelID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if !containsRoom(rooms, input.RoomID) {
		return nil, fmt.Errorf("%w: room %s in category %d", domain.ErrNotFound, input.RoomID, input.CategoryID)
	}

	created, err := s.gatekeeper.Reserve(ctx, allocation.ReserveRequest{
		Key:      domain.RoomKey{HotelID: input.HotelID, CategoryID: input.CategoryID, RoomID: input.RoomID},
		Interval: iv,
		Guest:    input.Guest,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation created id=%s room=%s interval=%s", created.ID, created.Key(), created.Interval())
	s.publish(ctx, kafka.EventReservationCreated, created)
	return created, nil
}

func (s *ReservationService) EditReservation(ctx context.Context, id string, input EditReservationInput) (res *domain.Reservation, err error) {
	defer func() { s.observe(OperationEdit, err) }()

	iv, err := domain.NewInterval(input.CheckIn, input.CheckOut)
	if err != nil {
		return nil, err
	}

	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	edited, err := s.gatekeeper.Reserve(ctx, allocation.ReserveRequest{
		Key:              current.Key(),
		Interval:         iv,
		ExcludeBookingID: current.ID,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("reservation edited id=%s room=%s interval=%s", edited.ID, edited.Key(), edited.Interval())
	s.publish(ctx, kafka.EventReservationEdited, edited)
	return edited, nil
}

func (s *ReservationService) CancelReservation(ctx context.Context, id string, input CancelReservationInput) (res *domain.Reservation, err error) {
	defer func() { s.observe(OperationCancel, err) }()

	input.Actor = strings.TrimSpace(input.Actor)
	if input.Actor == "" {
		return nil, fmt.Errorf("%w: cancelled_by is required", domain.ErrValidation)
	}

	cancelled, err := s.gatekeeper.Cancel(ctx, id, strings.TrimSpace(input.Reason), input.Actor)
	if err != nil {
		return nil, err
	}

	log.Printf("reservation cancelled id=%s room=%s by=%s", cancelled.ID, cancelled.Key(), cancelled.CancelledBy)
	s.publish(ctx, kafka.EventReservationCancelled, cancelled)
	return cancelled, nil
}

func (s *ReservationService) GetReservation(ctx context.Context, id string) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *ReservationService) ListHotelReservations(ctx context.Context, hotelID int64, status domain.ReservationStatus) ([]domain.Reservation, error) {
	if _, err := s.inventory.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}
	return s.reservations.ListByHotel(ctx, hotelID, status)
}

func (s *ReservationService) observe(operation string, err error) {
	if s.recorder != nil {
		s.recorder.ObserveReservation(operation, err)
	}
}

// publish runs after commit; a broker failure is logged, not returned.
// The committed reservation outlives the request, so delivery is detached
// from the caller's cancellation.
func (s *ReservationService) publish(ctx context.Context, eventType string, r *domain.Reservation) {
	if s.producer == nil || s.reservationTopic == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	event := kafka.ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		HotelID:       r.HotelID,
		CategoryID:    r.CategoryID,
		RoomID:        r.RoomID,
		CheckIn:       r.CheckIn.Format(domain.DateLayout),
		CheckOut:      r.CheckOut.Format(domain.DateLayout),
		Status:        string(r.Status),
		GuestName:     r.Guest.Name,
		GuestEmail:    r.Guest.Email,
		Reason:        r.CancelReason,
		Actor:         r.CancelledBy,
		OccurredAt:    r.UpdatedAt,
	}
	if err := s.producer.Publish(ctx, s.reservationTopic, r.ID, event); err != nil {
		log.Printf("WARNING: failed to publish %s for reservation %s: %v", eventType, r.ID, err)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, r.ID, event); err != nil {
			log.Printf("WARNING: failed to publish %s notification for reservation %s: %v", eventType, r.ID, err)
		}
	}
}

func containsRoom(rooms []domain.RoomNumber, roomID string) bool {
	for _, r := range rooms {
		if r.ID == roomID {
			return true
		}
	}
	return false
}

var _ ReservationUseCase = (*ReservationService)(nil)
