package calendar

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/acadportal/slaclock/internal/bizday"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCache_MemoizesWithinTTL(t *testing.T) {
	var calls atomic.Int64
	inner := bizday.OracleFunc(func(_ context.Context, d time.Time) (bool, error) {
		calls.Add(1)
		return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday, nil
	})

	cache := NewCache(inner, time.Minute)
	ctx := context.Background()
	d := day(2026, time.January, 9)

	for i := 0; i < 5; i++ {
		got, err := cache.IsBusinessDay(ctx, d)
		require.NoError(t, err)
		assert.True(t, got)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	var calls atomic.Int64
	inner := bizday.OracleFunc(func(context.Context, time.Time) (bool, error) {
		calls.Add(1)
		return true, nil
	})

	cache := NewCache(inner, time.Minute)
	now := time.Date(2026, time.January, 9, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	ctx := context.Background()
	d := day(2026, time.January, 9)

	_, err := cache.IsBusinessDay(ctx, d)
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = cache.IsBusinessDay(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_ErrorsNotCached(t *testing.T) {
	var calls atomic.Int64
	fail := errors.New("lookup failed")
	inner := bizday.OracleFunc(func(context.Context, time.Time) (bool, error) {
		if calls.Add(1) == 1 {
			return false, fail
		}
		return true, nil
	})

	cache := NewCache(inner, time.Minute)
	ctx := context.Background()
	d := day(2026, time.January, 9)

	_, err := cache.IsBusinessDay(ctx, d)
	assert.ErrorIs(t, err, fail)

	got, err := cache.IsBusinessDay(ctx, d)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, int64(2), calls.Load())
}

func TestCache_CollapsesConcurrentMisses(t *testing.T) {
	var calls atomic.Int64
	release := make(chan struct{})
	inner := bizday.OracleFunc(func(context.Context, time.Time) (bool, error) {
		calls.Add(1)
		<-release
		return true, nil
	})

	cache := NewCache(inner, time.Minute)
	ctx := context.Background()
	d := day(2026, time.January, 9)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := cache.IsBusinessDay(ctx, d)
			assert.NoError(t, err)
			assert.True(t, got)
		}()
	}

	// Let the goroutines stack up on the same key before releasing.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), calls.Load())
}
