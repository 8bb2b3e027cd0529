package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/config"
	"github.com/acadportal/slaclock/internal/sla"
	"github.com/acadportal/slaclock/pkg/types"
)

// NewDeadlineCmd creates the deadline command.
func NewDeadlineCmd() *cobra.Command {
	var (
		submitted    string
		stage        string
		businessDays int
		cutoffHour   int
		calendarName string
	)

	cmd := &cobra.Command{
		Use:   "deadline",
		Short: "Compute the review deadline for a submission",
		Long: `Compute the review deadline for a submission timestamp.

The review window is taken from --stage's configured budget, or given
directly with --days. Submissions after the cutoff hour (or on a
non-business day) start their clock on the next business day.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeadline(submitted, stage, businessDays, cutoffHour, calendarName)
		},
	}

	cmd.Flags().StringVar(&submitted, "submitted", "now", "submission timestamp (RFC3339 or 2006-01-02T15:04)")
	cmd.Flags().StringVar(&stage, "stage", "", "workflow stage whose review budget to use")
	cmd.Flags().IntVar(&businessDays, "days", 0, "review window in business days (overrides --stage)")
	cmd.Flags().IntVar(&cutoffHour, "cutoff", 0, "same-day cutoff hour 0-23 (default from config)")
	cmd.Flags().StringVar(&calendarName, "calendar", "", "calendar name (default from config)")
	return cmd
}

func runDeadline(submitted, stage string, businessDays, cutoffHour int, calendarName string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	submittedAt, err := parseSubmitted(submitted)
	if err != nil {
		return err
	}
	policy := config.EffectivePolicy(cfg)
	if cutoffHour > 0 {
		policy.CutoffHour = cutoffHour
	}
	if businessDays <= 0 {
		if stage == "" {
			return fmt.Errorf("either --days or --stage is required")
		}
		days, ok := policy.StageDays(stage)
		if !ok {
			return fmt.Errorf("no review budget configured for stage %q", stage)
		}
		businessDays = days
	}

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if store != nil {
		if err := store.Start(ctx); err != nil {
			return fmt.Errorf("connecting to store: %w", err)
		}
		defer func() { _ = store.Stop(ctx) }()
	}

	resolve := oracleResolver(cfg, reg, store)
	oracle, err := resolve(calendarName)
	if err != nil {
		return err
	}

	calc := bizday.New(oracle)
	deadline, err := calc.DeadlineWithCutoff(ctx, submittedAt, businessDays, policy.CutoffHour)
	if err != nil {
		return fmt.Errorf("computing deadline: %w", err)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Deadline: %s\n", deadline.Format(time.RFC3339))
	fmt.Printf("  Submitted:  %s\n", submittedAt.Format(time.RFC3339))
	fmt.Printf("  Window:     %d business days\n", businessDays)
	fmt.Printf("  Cutoff:     %02d:00\n", policy.CutoffHour)
	if types.IsTerminalStage(stage) {
		fmt.Println()
		color.Yellow("Note: stage %q is terminal and carries no deadline in sweeps.", stage)
	}

	res, err := sla.Check(ctx, calc, deadline, time.Now(), policy.AtRiskLeadDays)
	if err == nil {
		fmt.Printf("  Status:     %s\n", colorState(res.State()))
		if !res.Overdue {
			fmt.Printf("  Remaining:  %d business days\n", res.RemainingDays)
		}
	}
	return nil
}

func colorState(s types.DeadlineState) string {
	switch s {
	case types.DeadlineOverdue:
		return color.RedString("OVERDUE")
	case types.DeadlineAtRisk:
		return color.YellowString("AT RISK")
	default:
		return color.GreenString("OK")
	}
}
