package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/pkg/types"
)

// Compile-time interface satisfaction check.
var _ bizday.Oracle = (*StoreOracle)(nil)

const monthKeyFormat = "2006-01"

// StoreOracle answers business-day membership from a remote holiday store.
// Instead of one round trip per calendar day it prefetches whole months and
// memoizes them for the process lifetime; a circuit breaker fails lookups
// fast when the store is down. Unanswerable lookups surface
// ErrOracleUnavailable rather than a guessed default.
type StoreOracle struct {
	store    provider.HolidayStore
	calendar string
	weekend  map[time.Weekday]bool
	breaker  *gobreaker.CircuitBreaker

	mu     sync.Mutex
	months map[string]map[string]types.HolidayEntry // "2026-01" -> date -> entry
}

// NewStoreOracle creates an oracle over the named calendar in store.
// Weekend days are Saturday and Sunday; dated entries override them.
func NewStoreOracle(store provider.HolidayStore, calendarName string) *StoreOracle {
	return &StoreOracle{
		store:    store,
		calendar: calendarName,
		weekend:  map[time.Weekday]bool{time.Saturday: true, time.Sunday: true},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "holiday-store:" + calendarName,
			Timeout: 30 * time.Second,
		}),
		months: make(map[string]map[string]types.HolidayEntry),
	}
}

func (o *StoreOracle) monthEntries(ctx context.Context, day time.Time) (map[string]types.HolidayEntry, error) {
	key := day.Format(monthKeyFormat)

	o.mu.Lock()
	entries, ok := o.months[key]
	o.mu.Unlock()
	if ok {
		return entries, nil
	}

	from := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 1, -1)

	res, err := o.breaker.Execute(func() (any, error) {
		return o.store.ListRange(ctx, o.calendar, from, to)
	})
	if err != nil {
		return nil, fmt.Errorf("holiday lookup %s %s: %w", o.calendar, key, errors.Join(ErrOracleUnavailable, err))
	}

	entries = make(map[string]types.HolidayEntry)
	for _, e := range res.([]types.HolidayEntry) {
		entries[e.Date] = e
	}

	o.mu.Lock()
	o.months[key] = entries
	o.mu.Unlock()
	return entries, nil
}

// IsBusinessDay implements bizday.Oracle.
func (o *StoreOracle) IsBusinessDay(ctx context.Context, d time.Time) (bool, error) {
	if d.IsZero() {
		return false, fmt.Errorf("zero date: %w", ErrOracleUnavailable)
	}
	entries, err := o.monthEntries(ctx, d)
	if err != nil {
		return false, err
	}
	if entry, ok := entries[d.Format(types.DateFormat)]; ok {
		return entry.WorkingDay, nil
	}
	return !o.weekend[d.Weekday()], nil
}
