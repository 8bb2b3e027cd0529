package calendar

import (
	"context"
	"time"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/telemetry"
)

// Instrument wraps an oracle with lookup/error counters.
func Instrument(inner bizday.Oracle) bizday.Oracle {
	return bizday.OracleFunc(func(ctx context.Context, d time.Time) (bool, error) {
		telemetry.OracleLookups.Add(ctx, 1)
		ok, err := inner.IsBusinessDay(ctx, d)
		if err != nil {
			telemetry.OracleErrors.Add(ctx, 1)
		}
		return ok, err
	})
}
