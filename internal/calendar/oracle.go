package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/pkg/types"
)

// ErrOracleUnavailable marks a business-day lookup that could not be
// evaluated. The answer is never guessed: callers see the error, not a
// default.
var ErrOracleUnavailable = errors.New("business-day oracle unavailable")

// Compile-time interface satisfaction check.
var _ bizday.Oracle = (*Oracle)(nil)

// Oracle answers business-day membership from an in-memory holiday calendar:
// a recorded entry decides via its workingDay flag, otherwise weekend days
// are non-business and everything else is business.
type Oracle struct {
	weekend map[time.Weekday]bool
	entries map[string]types.HolidayEntry // keyed by "2006-01-02"
}

// NewOracle builds an Oracle from a calendar. A nil or empty weekendDays
// list means Saturday and Sunday.
func NewOracle(cal *types.HolidayCalendar) (*Oracle, error) {
	if cal == nil {
		return nil, fmt.Errorf("nil calendar")
	}

	weekend := map[time.Weekday]bool{time.Saturday: true, time.Sunday: true}
	if len(cal.WeekendDays) > 0 {
		weekend = make(map[time.Weekday]bool, len(cal.WeekendDays))
		for _, name := range cal.WeekendDays {
			wd, err := parseWeekday(name)
			if err != nil {
				return nil, fmt.Errorf("calendar %s: %w", cal.Name, err)
			}
			weekend[wd] = true
		}
	}

	entries := make(map[string]types.HolidayEntry, len(cal.Holidays))
	for _, h := range cal.Holidays {
		if _, err := time.Parse(types.DateFormat, h.Date); err != nil {
			return nil, fmt.Errorf("calendar %s: holiday date %q: %w", cal.Name, h.Date, err)
		}
		entries[h.Date] = h
	}

	return &Oracle{weekend: weekend, entries: entries}, nil
}

// Oracle builds an Oracle for a registered calendar by name.
func (r *Registry) Oracle(name string) (*Oracle, error) {
	cal := r.Get(name)
	if cal == nil {
		return nil, fmt.Errorf("calendar %q not registered", name)
	}
	return NewOracle(cal)
}

// IsBusinessDay implements bizday.Oracle. A dated entry wins outright: its
// workingDay flag can turn a weekend into a working day (compensatory work
// day) or a weekday into a holiday.
func (o *Oracle) IsBusinessDay(_ context.Context, d time.Time) (bool, error) {
	if d.IsZero() {
		return false, fmt.Errorf("zero date: %w", ErrOracleUnavailable)
	}
	if entry, ok := o.entries[d.Format(types.DateFormat)]; ok {
		return entry.WorkingDay, nil
	}
	return !o.weekend[d.Weekday()], nil
}
