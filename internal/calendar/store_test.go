package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadportal/slaclock/internal/testutil"
	"github.com/acadportal/slaclock/pkg/types"
)

func TestStoreOracle_PrefetchesMonth(t *testing.T) {
	store := testutil.NewStubHolidayStore()
	store.Seed("university",
		types.HolidayEntry{Date: "2026-01-01", Name: "New Year's Day"},
		types.HolidayEntry{Date: "2026-01-12", Name: "Founders Day"},
	)

	oracle := NewStoreOracle(store, "university")
	ctx := context.Background()

	// Many lookups within one month cost a single ListRange.
	for d := 1; d <= 20; d++ {
		_, err := oracle.IsBusinessDay(ctx, day(2026, time.January, d))
		require.NoError(t, err)
	}
	assert.Equal(t, 1, store.ListCalls)

	got, err := oracle.IsBusinessDay(ctx, day(2026, time.January, 12)) // Monday, holiday
	require.NoError(t, err)
	assert.False(t, got)

	got, err = oracle.IsBusinessDay(ctx, day(2026, time.January, 13)) // Tuesday
	require.NoError(t, err)
	assert.True(t, got)

	// A different month triggers one more fetch.
	_, err = oracle.IsBusinessDay(ctx, day(2026, time.February, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, store.ListCalls)
}

func TestStoreOracle_WorkingDayOverride(t *testing.T) {
	store := testutil.NewStubHolidayStore()
	store.Seed("university",
		types.HolidayEntry{Date: "2026-01-10", Name: "Make-up work day", WorkingDay: true}, // Saturday
	)

	oracle := NewStoreOracle(store, "university")
	got, err := oracle.IsBusinessDay(context.Background(), day(2026, time.January, 10))
	require.NoError(t, err)
	assert.True(t, got)
}

func TestStoreOracle_Unavailable(t *testing.T) {
	store := testutil.NewStubHolidayStore()
	store.Err = errors.New("table offline")

	oracle := NewStoreOracle(store, "university")
	_, err := oracle.IsBusinessDay(context.Background(), day(2026, time.January, 9))
	assert.ErrorIs(t, err, ErrOracleUnavailable)
}

func TestStoreOracle_BreakerOpensAfterFailures(t *testing.T) {
	store := testutil.NewStubHolidayStore()
	store.Err = errors.New("table offline")

	oracle := NewStoreOracle(store, "university")
	ctx := context.Background()

	// Drive the breaker open with consecutive failures.
	for i := 0; i < 10; i++ {
		_, err := oracle.IsBusinessDay(ctx, day(2026, time.January, 9))
		require.ErrorIs(t, err, ErrOracleUnavailable)
	}

	// Once open, lookups short-circuit without hitting the store.
	before := store.ListCalls
	_, err := oracle.IsBusinessDay(ctx, day(2026, time.January, 9))
	assert.ErrorIs(t, err, ErrOracleUnavailable)
	assert.Equal(t, before, store.ListCalls)
}
