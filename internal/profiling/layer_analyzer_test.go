package profiling

import (
	"context"
	"testing"
	"time"

	"github.com/sdko-org/callview-api/internal/diagstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock replays a fixed sequence of offsets from a base time.
type fakeClock struct {
	base    time.Time
	offsets []time.Duration
	calls   int
}

func (c *fakeClock) now() time.Time {
	offset := c.offsets[len(c.offsets)-1]
	if c.calls < len(c.offsets) {
		offset = c.offsets[c.calls]
	}
	c.calls++
	return c.base.Add(offset)
}

func newAnalyzerWithOffsets(offsets ...time.Duration) *LayerAnalyzer {
	la := NewLayerAnalyzer("req-1")
	clock := &fakeClock{base: time.Unix(1700000000, 0), offsets: offsets}
	la.now = clock.now
	return la
}

func TestBreakdownAttributesPhases(t *testing.T) {
	la := newAnalyzerWithOffsets(0,
		10*time.Millisecond,
		150*time.Millisecond,
		160*time.Millisecond,
		200*time.Millisecond,
		200*time.Millisecond,
	)

	la.Start()
	la.EndMiddleware()
	la.EndPermission()
	la.EndQueryset()
	la.EndSerializer()
	la.Stop()

	profile := la.Breakdown()
	assert.Equal(t, "req-1", profile.RequestID)
	assert.Equal(t, 200.0, profile.TotalTimeMs)
	assert.Equal(t, 10.0, profile.Breakdown.MiddlewareTimeMs)
	assert.Equal(t, 140.0, profile.Breakdown.PermissionTimeMs)
	assert.Equal(t, 10.0, profile.Breakdown.QuerysetTimeMs)
	assert.Equal(t, 40.0, profile.Breakdown.SerializerTimeMs)
	assert.Equal(t, "permission", profile.BottleneckLayer)
	assert.Equal(t, BottleneckIO, profile.BottleneckType)
	assert.Contains(t, profile.Recommendations,
		"Permission check is slow - consider using EXISTS instead of COUNT(*)")
}

func TestBreakdownMissingCheckpointsYieldZeroPhases(t *testing.T) {
	la := newAnalyzerWithOffsets(0, 50*time.Millisecond)
	la.Start()
	la.Stop()

	profile := la.Breakdown()
	assert.Equal(t, 50.0, profile.TotalTimeMs)
	assert.GreaterOrEqual(t, profile.Breakdown.MiddlewareTimeMs, 0.0)
	assert.Equal(t, 0.0, profile.Breakdown.PermissionTimeMs)
	assert.Equal(t, 0.0, profile.Breakdown.QuerysetTimeMs)
	// With only start and end recorded, the whole span lands in the
	// serializer fallback chain as zero phases.
	assert.Equal(t, 0.0, profile.Breakdown.SerializerTimeMs)
}

func TestBreakdownClampsBackwardClock(t *testing.T) {
	la := newAnalyzerWithOffsets(0,
		100*time.Millisecond,
		40*time.Millisecond, // clock moved backward
		120*time.Millisecond,
		150*time.Millisecond,
		150*time.Millisecond,
	)

	la.Start()
	la.EndMiddleware()
	la.EndPermission()
	la.EndQueryset()
	la.EndSerializer()
	la.Stop()

	profile := la.Breakdown()
	assert.GreaterOrEqual(t, profile.Breakdown.MiddlewareTimeMs, 0.0)
	assert.GreaterOrEqual(t, profile.Breakdown.PermissionTimeMs, 0.0)
	assert.GreaterOrEqual(t, profile.Breakdown.QuerysetTimeMs, 0.0)
	assert.GreaterOrEqual(t, profile.Breakdown.SerializerTimeMs, 0.0)
}

func TestBreakdownBeforeStart(t *testing.T) {
	la := NewLayerAnalyzer("")
	profile := la.Breakdown()

	assert.NotEmpty(t, profile.RequestID)
	assert.Equal(t, 0.0, profile.TotalTimeMs)
	assert.Equal(t, 0, profile.QueryCount)
	assert.False(t, profile.NPlusOneDetected)
	assert.Empty(t, profile.Recommendations)
}

func TestBottleneckTieGoesToEarliestPhase(t *testing.T) {
	la := newAnalyzerWithOffsets(0,
		10*time.Millisecond,
		20*time.Millisecond,
		30*time.Millisecond,
		40*time.Millisecond,
		40*time.Millisecond,
	)

	la.Start()
	la.EndMiddleware()
	la.EndPermission()
	la.EndQueryset()
	la.EndSerializer()
	la.Stop()

	profile := la.Breakdown()
	assert.Equal(t, "middleware", profile.BottleneckLayer)
	assert.Equal(t, BottleneckCPU, profile.BottleneckType)
}

func TestCheckpointLastWriteWins(t *testing.T) {
	la := newAnalyzerWithOffsets(0,
		10*time.Millisecond,
		30*time.Millisecond,
	)

	la.Start()
	la.EndMiddleware()
	la.EndMiddleware()
	la.Checkpoint(CheckpointEnd)

	profile := la.Breakdown()
	assert.Equal(t, 30.0, profile.Breakdown.MiddlewareTimeMs)
}

func TestRecommendationsFromQueryCapture(t *testing.T) {
	la := newAnalyzerWithOffsets(0,
		time.Millisecond,
		2*time.Millisecond,
		250*time.Millisecond,
		255*time.Millisecond,
		255*time.Millisecond,
	)

	la.Start()
	la.EndMiddleware()
	la.EndPermission()
	for i := 0; i < 10; i++ {
		la.Queries().Record("SELECT * FROM call WHERE customer_id = 1", time.Millisecond)
	}
	la.EndQueryset()
	la.EndSerializer()
	la.Stop()

	profile := la.Breakdown()
	assert.True(t, profile.NPlusOneDetected)
	assert.Equal(t, 10, profile.QueryCount)
	assert.Contains(t, profile.Recommendations, "N+1 detected - 10 queries executed")
	assert.Contains(t, profile.Recommendations, "Queryset execution slow - check for missing indexes")
	assert.Equal(t, "queryset", profile.BottleneckLayer)
	assert.Equal(t, BottleneckIO, profile.BottleneckType)
}

func TestSetThresholdsChangesRecommendations(t *testing.T) {
	la := newAnalyzerWithOffsets(0,
		time.Millisecond,
		50*time.Millisecond,
		51*time.Millisecond,
		52*time.Millisecond,
		52*time.Millisecond,
	)
	la.SetThresholds(Thresholds{
		SlowPermission: 10 * time.Millisecond,
		SlowQueryset:   200 * time.Millisecond,
		SlowSerializer: 100 * time.Millisecond,
	})

	la.Start()
	la.EndMiddleware()
	la.EndPermission()
	la.EndQueryset()
	la.EndSerializer()
	la.Stop()

	profile := la.Breakdown()
	// 49ms of permission time is under the default budget but over this one.
	assert.Contains(t, profile.Recommendations,
		"Permission check is slow - consider using EXISTS instead of COUNT(*)")
}

func TestPersistAndFetchProfile(t *testing.T) {
	store := diagstore.NewMemoryStore()
	ctx := context.Background()

	la := NewLayerAnalyzer("req-persist")
	la.Start()
	la.Stop()

	require.NoError(t, la.Persist(ctx, store, time.Minute))

	profile, err := FetchProfile(ctx, store, "req-persist")
	require.NoError(t, err)
	assert.Equal(t, "req-persist", profile.RequestID)

	_, err = FetchProfile(ctx, store, "missing")
	assert.ErrorIs(t, err, diagstore.ErrNotFound)
}
