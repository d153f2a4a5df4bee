package diagstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsValue struct {
	Total int `json:"total"`
}

func TestCachedComputesOnce(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	lookup := Cached(store, time.Minute,
		func(id string) string { return "stats:" + id },
		func(_ context.Context, id string) (statsValue, error) {
			calls++
			return statsValue{Total: len(id)}, nil
		},
	)

	first, err := lookup(ctx, "workspace-1")
	require.NoError(t, err)
	second, err := lookup(ctx, "workspace-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestCachedKeysArePerArgument(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	lookup := Cached(store, time.Minute,
		func(id string) string { return "stats:" + id },
		func(_ context.Context, id string) (statsValue, error) {
			calls++
			return statsValue{Total: len(id)}, nil
		},
	)

	a, err := lookup(ctx, "a")
	require.NoError(t, err)
	bb, err := lookup(ctx, "bb")
	require.NoError(t, err)

	assert.Equal(t, 1, a.Total)
	assert.Equal(t, 2, bb.Total)
	assert.Equal(t, 2, calls)
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	calls := 0
	boom := errors.New("boom")
	lookup := Cached(store, time.Minute,
		func(id string) string { return "stats:" + id },
		func(_ context.Context, _ string) (statsValue, error) {
			calls++
			if calls == 1 {
				return statsValue{}, boom
			}
			return statsValue{Total: 7}, nil
		},
	)

	_, err := lookup(ctx, "x")
	assert.ErrorIs(t, err, boom)

	value, err := lookup(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 7, value.Total)
	assert.Equal(t, 2, calls)
}
