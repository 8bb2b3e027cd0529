package sla

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/pkg/types"
)

func weekdayOracle(_ context.Context, d time.Time) (bool, error) {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday, nil
}

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, time.UTC)
}

func TestStageDeadline_FacultyReview(t *testing.T) {
	calc := bizday.New(bizday.OracleFunc(weekdayOracle))
	policy := types.DefaultSLAPolicy()

	// Friday 16:59 before cutoff counts as day 1 of the five-day budget:
	// Fri, Mon, Tue, Wed, Thu.
	deadline, err := StageDeadline(context.Background(), calc, policy,
		types.StageFacultyReview, at(2026, time.January, 9, 16, 59))
	require.NoError(t, err)
	assert.Equal(t, at(2026, time.January, 15, 17, 0), deadline)
}

func TestStageDeadline_NoBudget(t *testing.T) {
	calc := bizday.New(bizday.OracleFunc(weekdayOracle))

	_, err := StageDeadline(context.Background(), calc, types.DefaultSLAPolicy(),
		types.StageDraft, at(2026, time.January, 9, 10, 0))
	assert.ErrorContains(t, err, "no SLA budget")
}

func TestStageDeadline_ZeroCutoffUsesDefault(t *testing.T) {
	calc := bizday.New(bizday.OracleFunc(weekdayOracle))
	policy := types.SLAPolicy{Stages: map[string]int{types.StageFacultyReview: 1}}

	deadline, err := StageDeadline(context.Background(), calc, policy,
		types.StageFacultyReview, at(2026, time.January, 9, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, 17, deadline.Hour())
}

func TestCheck(t *testing.T) {
	calc := bizday.New(bizday.OracleFunc(weekdayOracle))
	ctx := context.Background()
	deadline := at(2026, time.January, 15, 17, 0) // Thursday

	tests := []struct {
		name      string
		now       time.Time
		wantState types.DeadlineState
		wantDays  int
	}{
		{
			name:      "comfortably ahead",
			now:       at(2026, time.January, 9, 9, 0), // Friday before
			wantState: types.DeadlineOK,
			wantDays:  4, // Mon Tue Wed Thu
		},
		{
			name:      "inside the lead window",
			now:       at(2026, time.January, 14, 9, 0), // Wednesday
			wantState: types.DeadlineAtRisk,
			wantDays:  1,
		},
		{
			name:      "overdue",
			now:       at(2026, time.January, 15, 17, 1),
			wantState: types.DeadlineOverdue,
			wantDays:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Check(ctx, calc, deadline, tt.now, 2)
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, result.State())
			assert.Equal(t, tt.wantDays, result.RemainingDays)
			assert.True(t, result.Deadline.Equal(deadline))
		})
	}
}
