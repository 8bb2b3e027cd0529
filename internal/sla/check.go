// Package sla tracks research-proposal deadlines against the approval
// workflow's business-day budgets: it resolves per-stage deadlines, classifies
// them as ok, at-risk or overdue, and sweeps the pending proposal set for
// reminders.
package sla

import (
	"context"
	"fmt"
	"time"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/telemetry"
	"github.com/acadportal/slaclock/pkg/types"
)

// CheckResult contains the result of a deadline check.
type CheckResult struct {
	// Overdue is true if now is strictly past the deadline.
	Overdue bool
	// AtRisk is true if the deadline is pending and the remaining business
	// days are at or below the policy's lead threshold.
	AtRisk bool
	// Deadline is the checked deadline.
	Deadline time.Time
	// RemainingDays is the number of whole business days still available;
	// 0 once overdue.
	RemainingDays int
}

// State collapses a result into the coarse classification dashboards use.
func (r CheckResult) State() types.DeadlineState {
	switch {
	case r.Overdue:
		return types.DeadlineOverdue
	case r.AtRisk:
		return types.DeadlineAtRisk
	default:
		return types.DeadlineOK
	}
}

// StageDeadline computes the cutoff-aware deadline for a proposal's current
// stage. Returns an error for stages without a budget (draft, completed, or
// anything the policy does not know).
func StageDeadline(ctx context.Context, calc *bizday.Calculator, policy types.SLAPolicy, stage string, submittedAt time.Time) (time.Time, error) {
	days, ok := policy.StageDays(stage)
	if !ok {
		return time.Time{}, fmt.Errorf("no SLA budget for stage %q", stage)
	}
	cutoff := policy.CutoffHour
	if cutoff <= 0 {
		cutoff = types.DefaultSLAPolicy().CutoffHour
	}
	deadline, err := calc.DeadlineWithCutoff(ctx, submittedAt, days, cutoff)
	if err != nil {
		return time.Time{}, fmt.Errorf("stage %s deadline: %w", stage, err)
	}
	telemetry.DeadlinesComputed.Add(ctx, 1)
	return deadline, nil
}

// Check classifies a deadline against now.
func Check(ctx context.Context, calc *bizday.Calculator, deadline, now time.Time, leadDays int) (CheckResult, error) {
	result := CheckResult{Deadline: deadline}
	result.Overdue = bizday.IsOverdue(deadline, now)

	remaining, err := calc.RemainingBusinessDays(ctx, deadline, now)
	if err != nil {
		return CheckResult{}, err
	}
	result.RemainingDays = remaining

	if !result.Overdue && remaining <= leadDays {
		result.AtRisk = true
	}
	return result, nil
}
