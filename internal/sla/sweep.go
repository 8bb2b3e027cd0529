package sla

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/internal/telemetry"
	"github.com/acadportal/slaclock/pkg/types"
)

// SweepOptions configures a single reminder sweep pass.
type SweepOptions struct {
	Source provider.ProposalSource
	// Oracles resolves a proposal's calendar name to a business-day oracle.
	// The empty name means the portal's default calendar.
	Oracles func(calendar string) (bizday.Oracle, error)
	Policy  types.SLAPolicy
	// RemindFn receives one reminder per overdue or at-risk proposal.
	// nil means classify-only.
	RemindFn func(context.Context, types.Reminder)
	Logger   *slog.Logger
	Now      time.Time // injectable for testing
}

// Report summarizes a sweep run.
type Report struct {
	RunID     string
	Checked   int
	Skipped   int
	Overdue   int
	AtRisk    int
	Reminders []types.Reminder
}

// Sweep scans the pending proposals, classifies each stage deadline and
// emits reminders for those overdue or at-risk. A proposal that cannot be
// classified (unknown calendar, oracle failure) is logged and skipped so one
// bad record cannot starve the rest of the batch.
func Sweep(ctx context.Context, opts SweepOptions) (Report, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	report := Report{RunID: ulid.Make().String()}
	telemetry.SweepsTotal.Add(ctx, 1)

	proposals, err := opts.Source.ListPending(ctx)
	if err != nil {
		return report, fmt.Errorf("listing pending proposals: %w", err)
	}

	for _, p := range proposals {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if types.IsTerminalStage(p.Stage) {
			report.Skipped++
			continue
		}
		if _, ok := opts.Policy.StageDays(p.Stage); !ok {
			opts.Logger.Warn("sweep: stage has no SLA budget", "proposal", p.ID, "stage", p.Stage)
			report.Skipped++
			continue
		}

		oracle, err := opts.Oracles(p.Calendar)
		if err != nil {
			opts.Logger.Error("sweep: resolving calendar failed", "proposal", p.ID, "calendar", p.Calendar, "error", err)
			report.Skipped++
			continue
		}
		calc := bizday.New(oracle)

		deadline, err := StageDeadline(ctx, calc, opts.Policy, p.Stage, p.SubmittedAt)
		if err != nil {
			opts.Logger.Error("sweep: deadline computation failed", "proposal", p.ID, "error", err)
			report.Skipped++
			continue
		}

		result, err := Check(ctx, calc, deadline, opts.Now, opts.Policy.AtRiskLeadDays)
		if err != nil {
			opts.Logger.Error("sweep: deadline check failed", "proposal", p.ID, "error", err)
			report.Skipped++
			continue
		}
		report.Checked++

		state := result.State()
		if state == types.DeadlineOK {
			continue
		}
		if state == types.DeadlineOverdue {
			report.Overdue++
			telemetry.OverdueFound.Add(ctx, 1)
		} else {
			report.AtRisk++
		}

		reminder := types.Reminder{
			RunID:         report.RunID,
			ProposalID:    p.ID,
			Title:         p.Title,
			Stage:         p.Stage,
			State:         state,
			Deadline:      result.Deadline,
			RemainingDays: result.RemainingDays,
		}
		report.Reminders = append(report.Reminders, reminder)
		if opts.RemindFn != nil {
			opts.RemindFn(ctx, reminder)
			telemetry.RemindersQueued.Add(ctx, 1)
		}
	}

	opts.Logger.Info("sweep complete",
		"runId", report.RunID,
		"checked", report.Checked,
		"skipped", report.Skipped,
		"overdue", report.Overdue,
		"atRisk", report.AtRisk)
	return report, nil
}
