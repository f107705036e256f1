package locks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	var (
		mu     sync.Mutex
		inside int
		peak   int
	)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(ctx, "listing-1")
			assert.NoError(t, err)
			defer release()

			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, peak, "at most one holder per key")
}

func TestKeyedMutexDistinctKeysIndependent(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	releaseA, err := m.Acquire(ctx, "a")
	require.NoError(t, err)
	defer releaseA()

	done := make(chan struct{})
	go func() {
		release, err := m.Acquire(ctx, "b")
		assert.NoError(t, err)
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire on an unrelated key blocked")
	}
}

func TestKeyedMutexContextCancellation(t *testing.T) {
	m := NewKeyedMutex()

	release, err := m.Acquire(context.Background(), "listing-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = m.Acquire(ctx, "listing-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// the holder can still release and hand the lock on
	release()
	release2, err := m.Acquire(context.Background(), "listing-1")
	require.NoError(t, err)
	release2()
}

func TestKeyedMutexReleaseIdempotent(t *testing.T) {
	m := NewKeyedMutex()
	ctx := context.Background()

	release, err := m.Acquire(ctx, "listing-1")
	require.NoError(t, err)
	release()
	release()

	again, err := m.Acquire(ctx, "listing-1")
	require.NoError(t, err)
	again()
}
