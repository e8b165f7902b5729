package hunt

import (
	"context"
	"sync"
	"time"
)

// KeyedLock serializes critical sections per key. Different keys never block
// one another. Acquisition waits at most the given bound and then fails with
// ErrBusy rather than hanging.
//
// Slots are kept for the lifetime of the lock; the key space here is the set
// of team ids, which is small and fixed for an event.
type KeyedLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewKeyedLock creates an empty KeyedLock.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{slots: make(map[string]chan struct{})}
}

func (l *KeyedLock) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.slots[key] = s
	}
	return s
}

// Acquire takes the key's exclusive slot, waiting up to wait. It returns a
// release function that must be called exactly once, or ErrBusy if the slot
// stayed contended past the bound. Context cancellation is honored.
func (l *KeyedLock) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	s := l.slot(key)

	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	default:
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case s <- struct{}{}:
		return func() { <-s }, nil
	case <-timer.C:
		return nil, ErrBusy
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
