package allocation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anisurarzu/hotelseashore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SameRoomTimesOut(t *testing.T) {
	locker := NewLocalLocker(20 * time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, roomKey("101"))
	require.NoError(t, err)

	start := time.Now()
	_, err = locker.Lock(ctx, roomKey("101"))
	assert.True(t, errors.Is(err, domain.ErrBusy))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	unlock()
	unlock2, err := locker.Lock(ctx, roomKey("101"))
	require.NoError(t, err)
	unlock2()
}

func TestLocalLocker_DifferentRoomsDoNotBlock(t *testing.T) {
	locker := NewLocalLocker(time.Millisecond)
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, roomKey("101"))
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := locker.Lock(ctx, roomKey("102"))
	require.NoError(t, err)
	defer unlockB()

	other := domain.RoomKey{HotelID: 2, CategoryID: 10, RoomID: "101"}
	unlockC, err := locker.Lock(ctx, other)
	require.NoError(t, err)
	unlockC()
}

func TestLocalLocker_WaiterGetsLockOnRelease(t *testing.T) {
	locker := NewLocalLocker(time.Second)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, roomKey("101"))
	require.NoError(t, err)

	acquired := make(chan error, 1)
	go func() {
		u, err := locker.Lock(ctx, roomKey("101"))
		if err == nil {
			u()
		}
		acquired <- err
	}()

	time.Sleep(10 * time.Millisecond)
	unlock()
	unlock() // second call is a no-op

	select {
	case err := <-acquired:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the lock")
	}
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	locker := NewLocalLocker(time.Second)

	unlock, err := locker.Lock(context.Background(), roomKey("101"))
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, roomKey("101"))
	assert.True(t, errors.Is(err, context.Canceled))
}
