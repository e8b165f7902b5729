package hunt_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istehunt/hunt/internal/hunt"
)

func TestKeyedLock_AcquireRelease(t *testing.T) {
	t.Parallel()

	l := hunt.NewKeyedLock()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "T1", time.Second)
	require.NoError(t, err)
	release()

	// Reacquire after release.
	release, err = l.Acquire(ctx, "T1", time.Second)
	require.NoError(t, err)
	release()
}

func TestKeyedLock_ContentionTimesOut(t *testing.T) {
	t.Parallel()

	l := hunt.NewKeyedLock()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "T1", time.Second)
	require.NoError(t, err)
	defer release()

	start := time.Now()
	_, err = l.Acquire(ctx, "T1", 30*time.Millisecond)
	assert.ErrorIs(t, err, hunt.ErrBusy)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "must not hang")
}

func TestKeyedLock_IndependentKeys(t *testing.T) {
	t.Parallel()

	l := hunt.NewKeyedLock()
	ctx := context.Background()

	release1, err := l.Acquire(ctx, "T1", time.Second)
	require.NoError(t, err)
	defer release1()

	// A different key is never blocked by T1's holder.
	release2, err := l.Acquire(ctx, "T2", 10*time.Millisecond)
	require.NoError(t, err)
	release2()
}

func TestKeyedLock_WaiterGetsSlotOnRelease(t *testing.T) {
	t.Parallel()

	l := hunt.NewKeyedLock()
	ctx := context.Background()

	release, err := l.Acquire(ctx, "T1", time.Second)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := l.Acquire(ctx, "T1", time.Second)
		if err == nil {
			r()
			close(acquired)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the released slot")
	}
}

func TestKeyedLock_ContextCancel(t *testing.T) {
	t.Parallel()

	l := hunt.NewKeyedLock()

	release, err := l.Acquire(context.Background(), "T1", time.Second)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err = l.Acquire(ctx, "T1", 5*time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
