package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/acadportal/slaclock/internal/config"
	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/internal/reminder"
	"github.com/acadportal/slaclock/internal/sla"
	"github.com/acadportal/slaclock/internal/telemetry"
	"github.com/acadportal/slaclock/pkg/types"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var (
		proposalsFile string
		queueURL      string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sweep pending proposals and report overdue and at-risk deadlines",
		Long: `Sweep pending proposals and classify each against its stage deadline.

Proposals come from the configured provider, or from a YAML export given
with --proposals. With --queue-url, a reminder message is enqueued for
every overdue or at-risk proposal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(proposalsFile, queueURL)
		},
	}

	cmd.Flags().StringVar(&proposalsFile, "proposals", "", "YAML file of pending proposals (instead of the provider)")
	cmd.Flags().StringVar(&queueURL, "queue-url", "", "SQS queue URL to enqueue reminders on")
	return cmd
}

func runCheck(proposalsFile, queueURL string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("starting telemetry: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if store != nil {
		if err := store.Start(ctx); err != nil {
			return fmt.Errorf("connecting to store: %w", err)
		}
		defer func() { _ = store.Stop(ctx) }()
	}

	var source provider.ProposalSource
	switch {
	case proposalsFile != "":
		source = fileSource{path: proposalsFile}
	case store == nil:
		return fmt.Errorf("no provider configured; use --proposals")
	default:
		ps, ok := store.(provider.ProposalSource)
		if !ok {
			return fmt.Errorf("provider %q cannot list proposals; use --proposals", cfg.Provider)
		}
		source = ps
	}

	var remindFn func(context.Context, types.Reminder)
	if queueURL != "" {
		pub, err := reminder.NewPublisher(ctx, queueURL)
		if err != nil {
			return fmt.Errorf("creating reminder publisher: %w", err)
		}
		remindFn = pub.RemindFunc()
	}

	report, err := sla.Sweep(ctx, sla.SweepOptions{
		Source:   source,
		Oracles:  oracleResolver(cfg, reg, store),
		Policy:   config.EffectivePolicy(cfg),
		RemindFn: remindFn,
		Logger:   slog.New(slog.NewTextHandler(os.Stderr, nil)),
	})
	if err != nil {
		return fmt.Errorf("sweeping proposals: %w", err)
	}

	printReport(report, queueURL != "")
	return nil
}

func printReport(report sla.Report, enqueued bool) {
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Sweep %s\n", report.RunID)
	fmt.Printf("  Checked: %d  Skipped: %d\n", report.Checked, report.Skipped)
	fmt.Printf("  Overdue: %s  At risk: %s\n",
		color.RedString("%d", report.Overdue), color.YellowString("%d", report.AtRisk))

	if len(report.Reminders) == 0 {
		fmt.Println()
		color.Green("All pending proposals are within their deadlines.")
		return
	}

	fmt.Println()
	for _, r := range report.Reminders {
		state := colorState(r.State)
		fmt.Printf("  %-9s %-20s %-16s due %s", state, r.ProposalID, r.Stage, r.Deadline.Format(time.RFC3339))
		if r.State == types.DeadlineAtRisk {
			fmt.Printf("  (%d business days left)", r.RemainingDays)
		}
		fmt.Println()
	}
	if enqueued {
		fmt.Printf("\nEnqueued %d reminder(s).\n", len(report.Reminders))
	}
}
