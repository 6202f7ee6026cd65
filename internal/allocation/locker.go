package allocation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/anisurarzu/hotelseashore/internal/domain"
)

// Locker grants exclusive access to one room. Lock waits at most the
// locker's bound and then fails with domain.ErrBusy. The returned unlock
// must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key domain.RoomKey) (unlock func(), err error)
}

// LocalLocker serialises rooms inside one process. Use the Redis locker
// when several app instances share a database.
type LocalLocker struct {
	wait time.Duration

	mu    sync.Mutex
	slots map[domain.RoomKey]chan struct{}
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{wait: wait, slots: make(map[domain.RoomKey]chan struct{})}
}

func (l *LocalLocker) slot(key domain.RoomKey) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *LocalLocker) Lock(ctx context.Context, key domain.RoomKey) (func(), error) {
	ch := l.slot(key)

	select {
	case ch <- struct{}{}:
		return l.unlocker(ch), nil
	default:
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		return l.unlocker(ch), nil
	case <-timer.C:
		return nil, fmt.Errorf("%w: lock %s not acquired within %s", domain.ErrBusy, key, l.wait)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) unlocker(ch chan struct{}) func() {
	var once sync.Once
	return func() {
		once.Do(func() { <-ch })
	}
}

var _ Locker = (*LocalLocker)(nil)
