// Package bizday implements business-day arithmetic over an injected
// business-day oracle.  The calculator is stateless: every answer is a pure
// function of its inputs and the oracle's responses, so a single instance is
// safe for concurrent use.
package bizday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acadportal/slaclock/pkg/types"
)

// maxScanDays bounds every day-walking loop.  A holiday configuration that
// yields no business day within ten years is treated as broken rather than
// looping forever.
const maxScanDays = 3650

var (
	// ErrInvalidDate marks unusable input: a zero time, a negative
	// business-day count, or a cutoff hour outside 0-23.
	ErrInvalidDate = errors.New("invalid date or argument")
	// ErrScanLimit marks a walk that exceeded maxScanDays without landing.
	ErrScanLimit = errors.New("business-day scan limit exceeded")
)

// Oracle answers whether a calendar day is a business day.  Implementations
// must be deterministic for a given date within a single calculation.  The
// lookup may be I/O-backed; errors propagate to the caller unretried.
type Oracle interface {
	IsBusinessDay(ctx context.Context, d time.Time) (bool, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(ctx context.Context, d time.Time) (bool, error)

// IsBusinessDay calls f.
func (f OracleFunc) IsBusinessDay(ctx context.Context, d time.Time) (bool, error) {
	return f(ctx, d)
}

// Calculator computes business-day queries against an oracle.
type Calculator struct {
	oracle Oracle
}

// New creates a Calculator over the given oracle.
func New(oracle Oracle) *Calculator {
	return &Calculator{oracle: oracle}
}

// dayOf truncates t to midnight of its calendar day, keeping the location.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// atCutoff stamps the cutoff hour onto day's calendar date.
func atCutoff(day time.Time, cutoffHour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), cutoffHour, 0, 0, 0, day.Location())
}

func validCutoff(cutoffHour int) error {
	if cutoffHour < 0 || cutoffHour > 23 {
		return fmt.Errorf("cutoff hour %d out of range: %w", cutoffHour, ErrInvalidDate)
	}
	return nil
}

func (c *Calculator) isBusinessDay(ctx context.Context, day time.Time) (bool, error) {
	ok, err := c.oracle.IsBusinessDay(ctx, day)
	if err != nil {
		return false, fmt.Errorf("business-day lookup for %s: %w", day.Format(types.DateFormat), err)
	}
	return ok, nil
}

// NextBusinessDay returns the first business day strictly after d.  The
// time-of-day component of d is ignored; the result is at midnight.
func (c *Calculator) NextBusinessDay(ctx context.Context, d time.Time) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, fmt.Errorf("next business day: %w", ErrInvalidDate)
	}
	cur := dayOf(d)
	for i := 0; i < maxScanDays; i++ {
		cur = cur.AddDate(0, 0, 1)
		ok, err := c.isBusinessDay(ctx, cur)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			return cur, nil
		}
	}
	return time.Time{}, fmt.Errorf("no business day within %d days after %s: %w",
		maxScanDays, dayOf(d).Format(types.DateFormat), ErrScanLimit)
}

// AddBusinessDays advances d by n business days.  n must be non-negative;
// n=0 returns d unchanged, time-of-day included.  For n>=1 the result is the
// landing business day at midnight and is always strictly after d.
func (c *Calculator) AddBusinessDays(ctx context.Context, d time.Time, n int) (time.Time, error) {
	if d.IsZero() {
		return time.Time{}, fmt.Errorf("add business days: %w", ErrInvalidDate)
	}
	if n < 0 {
		return time.Time{}, fmt.Errorf("negative business-day count %d: %w", n, ErrInvalidDate)
	}
	if n == 0 {
		return d, nil
	}

	cur := dayOf(d)
	remaining := n
	for i := 0; i < maxScanDays; i++ {
		cur = cur.AddDate(0, 0, 1)
		ok, err := c.isBusinessDay(ctx, cur)
		if err != nil {
			return time.Time{}, err
		}
		if ok {
			remaining--
			if remaining == 0 {
				return cur, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("adding %d business days to %s exceeded %d calendar days: %w",
		n, dayOf(d).Format(types.DateFormat), maxScanDays, ErrScanLimit)
}

// CountBusinessDays counts business days strictly after start, up to and
// including end.  Returns 0 without consulting the oracle when end is not
// after start (date-granular).
func (c *Calculator) CountBusinessDays(ctx context.Context, start, end time.Time) (int, error) {
	if start.IsZero() || end.IsZero() {
		return 0, fmt.Errorf("count business days: %w", ErrInvalidDate)
	}
	startDay := dayOf(start)
	endDay := dayOf(end)
	if !endDay.After(startDay) {
		return 0, nil
	}
	if endDay.Sub(startDay) > maxScanDays*24*time.Hour {
		return 0, fmt.Errorf("range %s..%s exceeds %d days: %w",
			startDay.Format(types.DateFormat), endDay.Format(types.DateFormat), maxScanDays, ErrScanLimit)
	}

	count := 0
	for cur := startDay.AddDate(0, 0, 1); !cur.After(endDay); cur = cur.AddDate(0, 0, 1) {
		ok, err := c.isBusinessDay(ctx, cur)
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

// Deadline computes AddBusinessDays(start, businessDays) and stamps the
// cutoff hour on the landing day.  With businessDays=0 the landing day is
// start's own date, which is only a business day if start was; callers using
// the zero-day form must ensure that themselves.
func (c *Calculator) Deadline(ctx context.Context, start time.Time, businessDays, cutoffHour int) (time.Time, error) {
	if err := validCutoff(cutoffHour); err != nil {
		return time.Time{}, err
	}
	day, err := c.AddBusinessDays(ctx, start, businessDays)
	if err != nil {
		return time.Time{}, err
	}
	return atCutoff(day, cutoffHour), nil
}

// DeadlineWithCutoff computes the SLA deadline for a submission timestamp.
//
// The submission's own day counts as day 1 of the clock iff the submission
// time is strictly before cutoffHour:00 and the day is a business day.  A
// submission exactly at the cutoff never counts.  When the day counts, a
// budget of 0 or 1 days is due the same day at the cutoff; otherwise the
// clock advances businessDays-1 further business days.  When the day does
// not count, the clock starts at the next business day (which alone
// satisfies a budget of 0) and advances businessDays-1 from there.
func (c *Calculator) DeadlineWithCutoff(ctx context.Context, submittedAt time.Time, businessDays, cutoffHour int) (time.Time, error) {
	if submittedAt.IsZero() {
		return time.Time{}, fmt.Errorf("deadline with cutoff: %w", ErrInvalidDate)
	}
	if businessDays < 0 {
		return time.Time{}, fmt.Errorf("negative business-day count %d: %w", businessDays, ErrInvalidDate)
	}
	if err := validCutoff(cutoffHour); err != nil {
		return time.Time{}, err
	}

	counts := false
	if submittedAt.Hour() < cutoffHour {
		ok, err := c.isBusinessDay(ctx, dayOf(submittedAt))
		if err != nil {
			return time.Time{}, err
		}
		counts = ok
	}

	if counts {
		if businessDays <= 1 {
			return atCutoff(submittedAt, cutoffHour), nil
		}
		day, err := c.AddBusinessDays(ctx, submittedAt, businessDays-1)
		if err != nil {
			return time.Time{}, err
		}
		return atCutoff(day, cutoffHour), nil
	}

	first, err := c.NextBusinessDay(ctx, submittedAt)
	if err != nil {
		return time.Time{}, err
	}
	if businessDays == 0 {
		return atCutoff(first, cutoffHour), nil
	}
	day, err := c.AddBusinessDays(ctx, first, businessDays-1)
	if err != nil {
		return time.Time{}, err
	}
	return atCutoff(day, cutoffHour), nil
}

// IsOverdue reports whether now is strictly past the deadline.
func IsOverdue(deadline, now time.Time) bool {
	return now.After(deadline)
}

// RemainingBusinessDays returns the business days left before the deadline,
// or 0 if it is already overdue.
func (c *Calculator) RemainingBusinessDays(ctx context.Context, deadline, now time.Time) (int, error) {
	if IsOverdue(deadline, now) {
		return 0, nil
	}
	return c.CountBusinessDays(ctx, now, deadline)
}
