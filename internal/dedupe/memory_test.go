package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_MarkProcessed(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first delivery is new", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "SM1", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("retry is not new", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "SM1", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("expired id is new again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "SM2", 10*time.Millisecond)
		require.NoError(t, err)
		time.Sleep(20 * time.Millisecond)

		isNew, err := store.MarkProcessed(ctx, "SM2", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("released id is new again", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "SM3", time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Release(ctx, "SM3"))

		isNew, err := store.MarkProcessed(ctx, "SM3", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	var fresh atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, err := store.MarkProcessed(context.Background(), "SMsame", time.Hour)
			assert.NoError(t, err)
			if isNew {
				fresh.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), fresh.Load())
}

func TestMemoryStore_Cleanup(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	_, _ = store.MarkProcessed(ctx, "old", time.Millisecond)
	_, _ = store.MarkProcessed(ctx, "live", time.Hour)
	time.Sleep(5 * time.Millisecond)

	store.cleanup()
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestNew(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		store, err := New(Config{Driver: "memory"})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		store, err := New(Config{Driver: "redis", RedisAddr: "127.0.0.1:1"})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := New(Config{Driver: "etcd"})
		assert.Error(t, err)
	})
}
