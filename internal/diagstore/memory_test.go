package diagstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "profile:abc", []byte(`{"a":1}`), time.Minute))

	value, err := store.Get(ctx, "profile:abc")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), value)

	_, err = store.Get(ctx, "profile:missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "stale", []byte("v"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "fresh", []byte("v"), time.Hour))
	time.Sleep(5 * time.Millisecond)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestMemoryStoreOverwriteSupersedes(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("old"), time.Minute))
	require.NoError(t, store.Set(ctx, "k", []byte("new"), time.Minute))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), value)
}
