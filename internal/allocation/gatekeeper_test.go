package allocation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/anisurarzu/hotelseashore/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *repository.MemoryStore {
	return repository.NewMemoryStore([]domain.Hotel{{
		ID:   1,
		Name: "Sea Shore",
		Categories: []domain.RoomCategory{{
			ID: 10, HotelID: 1, Name: "Deluxe",
			Rooms: categoryRooms("101", "102", "103"),
		}},
	}})
}

func newTestGatekeeper(store ReservationStore) *Gatekeeper {
	var mu sync.Mutex
	seq := 0
	return NewGatekeeper(NewLocalLocker(5*time.Second), store,
		WithIDGenerator(func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("b-%04d", seq)
		}),
	)
}

func reserve(t *testing.T, g *Gatekeeper, room, in, out string) (*domain.Reservation, error) {
	t.Helper()
	return g.Reserve(context.Background(), ReserveRequest{
		Key:      roomKey(room),
		Interval: iv(t, in, out),
		Guest:    domain.Guest{Name: "Guest " + in},
	})
}

func TestGatekeeper_BackToBackTurnover(t *testing.T) {
	g := newTestGatekeeper(newTestStore())

	_, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)
	_, err = reserve(t, g, "101", "2024-05-05", "2024-05-08")
	require.NoError(t, err)
}

func TestGatekeeper_FullOverlapRejected(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)

	first, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)

	_, err = reserve(t, g, "101", "2024-05-02", "2024-05-03")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRoomConflict))

	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.BookingID)
	assert.Equal(t, "Guest 2024-05-01", conflict.GuestName)
	assert.Equal(t, first.Interval(), conflict.Interval)

	active, err := store.ListActiveByRoom(context.Background(), roomKey("101"))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestGatekeeper_OtherRoomUnaffected(t *testing.T) {
	g := newTestGatekeeper(newTestStore())

	_, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)
	_, err = reserve(t, g, "102", "2024-05-01", "2024-05-05")
	require.NoError(t, err)
}

func TestGatekeeper_InvalidIntervalRejectedBeforeLock(t *testing.T) {
	locker := NewLocalLocker(time.Millisecond)
	unlock, err := locker.Lock(context.Background(), roomKey("101"))
	require.NoError(t, err)
	defer unlock()

	g := NewGatekeeper(locker, newTestStore())
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err = g.Reserve(context.Background(), ReserveRequest{
		Key:      roomKey("101"),
		Interval: domain.Interval{CheckIn: day, CheckOut: day},
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInterval))
}

func TestGatekeeper_EditExcludesSelf(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()

	x, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)

	edited, err := g.Reserve(ctx, ReserveRequest{
		Key:              x.Key(),
		Interval:         iv(t, "2024-05-02", "2024-05-06"),
		ExcludeBookingID: x.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, x.ID, edited.ID)
	assert.Equal(t, domain.ReservationStatusActive, edited.Status)
	assert.Equal(t, iv(t, "2024-05-02", "2024-05-06"), edited.Interval())
	assert.Equal(t, x.Guest, edited.Guest)

	stored, err := store.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Interval(), stored.Interval())

	// The old nights are free again.
	_, err = reserve(t, g, "101", "2024-05-01", "2024-05-02")
	require.NoError(t, err)
}

func TestGatekeeper_EditConflictLeavesOriginal(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()

	x, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)
	y, err := reserve(t, g, "101", "2024-05-10", "2024-05-12")
	require.NoError(t, err)

	_, err = g.Reserve(ctx, ReserveRequest{
		Key:              x.Key(),
		Interval:         iv(t, "2024-05-03", "2024-05-11"),
		ExcludeBookingID: x.ID,
	})
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, y.ID, conflict.BookingID)

	stored, err := store.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, x.Interval(), stored.Interval())
}

func TestGatekeeper_EditRejectsWrongRoomAndCancelled(t *testing.T) {
	g := newTestGatekeeper(newTestStore())
	ctx := context.Background()

	x, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)

	_, err = g.Reserve(ctx, ReserveRequest{Key: roomKey("102"), Interval: iv(t, "2024-05-01", "2024-05-02"), ExcludeBookingID: x.ID})
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = g.Cancel(ctx, x.ID, "guest request", "frontdesk")
	require.NoError(t, err)

	_, err = g.Reserve(ctx, ReserveRequest{Key: x.Key(), Interval: iv(t, "2024-05-01", "2024-05-02"), ExcludeBookingID: x.ID})
	assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))

	_, err = g.Reserve(ctx, ReserveRequest{Key: x.Key(), Interval: iv(t, "2024-05-01", "2024-05-02"), ExcludeBookingID: "missing"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGatekeeper_CancellationReleasesCapacity(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()

	x, err := reserve(t, g, "101", "2024-06-01", "2024-06-03")
	require.NoError(t, err)

	cancelled, err := g.Cancel(ctx, x.ID, "no show", "manager")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, cancelled.Status)
	assert.Equal(t, "no show", cancelled.CancelReason)
	assert.Equal(t, "manager", cancelled.CancelledBy)

	again, err := reserve(t, g, "101", "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.NotEqual(t, x.ID, again.ID)

	history, err := store.ListByHotel(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, history, 2, "cancelled reservation is kept")
}

func TestGatekeeper_DoubleCancel(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()

	x, err := reserve(t, g, "101", "2024-06-01", "2024-06-03")
	require.NoError(t, err)
	first, err := g.Cancel(ctx, x.ID, "no show", "manager")
	require.NoError(t, err)

	_, err = g.Cancel(ctx, x.ID, "other reason", "someone")
	assert.True(t, errors.Is(err, domain.ErrAlreadyCancelled))

	stored, err := store.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CancelReason, stored.CancelReason)
	assert.Equal(t, first.CancelledBy, stored.CancelledBy)
	assert.Equal(t, first.UpdatedAt, stored.UpdatedAt)
}

func TestGatekeeper_CancelUnknown(t *testing.T) {
	g := newTestGatekeeper(newTestStore())
	_, err := g.Cancel(context.Background(), "missing", "", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGatekeeper_BusyRoom(t *testing.T) {
	locker := NewLocalLocker(10 * time.Millisecond)
	store := newTestStore()
	var observed []error
	g := NewGatekeeper(locker, store, WithLockObserver(func(_ domain.RoomKey, _ time.Duration, err error) {
		observed = append(observed, err)
	}))

	unlock, err := locker.Lock(context.Background(), roomKey("101"))
	require.NoError(t, err)
	defer unlock()

	_, err = reserve(t, g, "101", "2024-05-01", "2024-05-02")
	assert.True(t, errors.Is(err, domain.ErrBusy))

	active, err := store.ListActiveByRoom(context.Background(), roomKey("101"))
	require.NoError(t, err)
	assert.Empty(t, active)
	require.Len(t, observed, 1)
	assert.True(t, errors.Is(observed[0], domain.ErrBusy))
}

type failingUpdateStore struct {
	*repository.MemoryStore
}

func (s failingUpdateStore) Update(context.Context, *domain.Reservation) error {
	return errors.New("disk full")
}

func TestGatekeeper_FailedEditDoesNotMutate(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()

	x, err := reserve(t, g, "101", "2024-05-01", "2024-05-05")
	require.NoError(t, err)

	broken := newTestGatekeeper(failingUpdateStore{store})
	_, err = broken.Reserve(ctx, ReserveRequest{Key: x.Key(), Interval: iv(t, "2024-05-02", "2024-05-06"), ExcludeBookingID: x.ID})
	require.Error(t, err)

	stored, err := store.GetByID(ctx, x.ID)
	require.NoError(t, err)
	assert.Equal(t, x.Interval(), stored.Interval())
	assert.True(t, stored.IsActive())
}

func TestGatekeeper_ConcurrentOverlappingRequests(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()

	const attempts = 16
	var (
		wg        sync.WaitGroup
		start     = make(chan struct{})
		successes = make(chan *domain.Reservation, attempts)
		failures  = make(chan error, attempts)
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		// Every candidate covers 2024-05-01..05-04, so all pairs overlap.
		candidate := iv(t, "2024-05-01", fmt.Sprintf("2024-05-%02d", 5+i%5))
		go func() {
			defer wg.Done()
			<-start
			r, err := g.Reserve(ctx, ReserveRequest{Key: roomKey("101"), Interval: candidate, Guest: domain.Guest{Name: "racer"}})
			if err != nil {
				failures <- err
				return
			}
			successes <- r
		}()
	}
	close(start)
	wg.Wait()
	close(successes)
	close(failures)

	assert.Len(t, successes, 1)
	for err := range failures {
		assert.True(t, errors.Is(err, domain.ErrRoomConflict), "unexpected error: %v", err)
	}

	active, err := store.ListActiveByRoom(ctx, roomKey("101"))
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestGatekeeper_NeverAdmitsOverlap(t *testing.T) {
	store := newTestStore()
	g := newTestGatekeeper(store)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(20240501))
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rooms := []string{"101", "102", "103"}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		type attempt struct {
			room      string
			candidate domain.Interval
			cancel    bool
		}
		plan := make([]attempt, 0, 150)
		for i := 0; i < 150; i++ {
			in := base.AddDate(0, 0, rng.Intn(60))
			plan = append(plan, attempt{
				room:      rooms[rng.Intn(len(rooms))],
				candidate: domain.Interval{CheckIn: in, CheckOut: in.AddDate(0, 0, 1+rng.Intn(7))},
				cancel:    rng.Intn(5) == 0,
			})
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, a := range plan {
				r, err := g.Reserve(ctx, ReserveRequest{Key: roomKey(a.room), Interval: a.candidate})
				if err != nil {
					assert.True(t, errors.Is(err, domain.ErrRoomConflict), "unexpected error: %v", err)
					continue
				}
				if a.cancel {
					_, err := g.Cancel(ctx, r.ID, "property test", "test")
					assert.NoError(t, err)
				}
			}
		}()
	}
	wg.Wait()

	for _, room := range rooms {
		active, err := store.ListActiveByRoom(ctx, roomKey(room))
		require.NoError(t, err)
		for i := range active {
			for j := i + 1; j < len(active); j++ {
				assert.False(t, domain.Overlaps(active[i].Interval(), active[j].Interval()),
					"room %s: %s %s overlaps %s %s", room,
					active[i].ID, active[i].Interval(), active[j].ID, active[j].Interval())
			}
		}
	}
}
