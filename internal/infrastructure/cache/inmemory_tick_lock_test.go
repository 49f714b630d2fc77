package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTickLock_Acquire(t *testing.T) {
	t.Run("first acquire succeeds", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		token, acquired, err := lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
		assert.NotEmpty(t, token)
	})

	t.Run("second acquire fails while held", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		_, acquired, err := lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		_, acquired, err = lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("acquire succeeds after release", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		token, _, err := lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		require.NoError(t, lock.Release(context.Background(), "sync", token))

		_, acquired, err := lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("acquire succeeds after TTL expiry", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		_, _, err := lock.Acquire(context.Background(), "sync", time.Millisecond)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		_, acquired, err := lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("different keys do not interfere", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		_, a, err := lock.Acquire(context.Background(), "sync-a", time.Minute)
		require.NoError(t, err)
		_, b, err := lock.Acquire(context.Background(), "sync-b", time.Minute)
		require.NoError(t, err)

		assert.True(t, a)
		assert.True(t, b)
	})
}

func TestInMemoryTickLock_Release(t *testing.T) {
	t.Run("stale token does not release the new holder", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		// First holder's lock expires while it is still working
		staleToken, _, err := lock.Acquire(context.Background(), "sync", time.Millisecond)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)

		// Second holder takes over after expiry
		_, acquired, err := lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		require.True(t, acquired)

		// The late release from the first holder must not free the lock
		require.NoError(t, lock.Release(context.Background(), "sync", staleToken))

		_, acquired, err = lock.Acquire(context.Background(), "sync", time.Minute)
		require.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("release of an unknown key is a no-op", func(t *testing.T) {
		lock := NewInMemoryTickLock()
		defer lock.Close()

		assert.NoError(t, lock.Release(context.Background(), "sync", "never-issued"))
	})
}

func TestInMemoryTickLock_ConcurrentAcquire(t *testing.T) {
	lock := NewInMemoryTickLock()
	defer lock.Close()

	const goroutines = 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, acquired, err := lock.Acquire(context.Background(), "sync", time.Minute)
			assert.NoError(t, err)
			if acquired {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
}
