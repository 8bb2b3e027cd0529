package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/calendar"
	"github.com/acadportal/slaclock/pkg/types"
)

// NewCalendarsCmd creates the calendars command.
func NewCalendarsCmd() *cobra.Command {
	var (
		previewDays  int
		calendarName string
	)

	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "List the configured holiday calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalendars(previewDays, calendarName)
		},
	}

	cmd.Flags().IntVar(&previewDays, "preview", 0, "also show the next N business days")
	cmd.Flags().StringVar(&calendarName, "calendar", "", "calendar to preview (default from config)")
	return cmd
}

func runCalendars(previewDays int, calendarName string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	names := reg.Names()
	if len(names) == 0 {
		fmt.Println("No calendar files loaded.")
		if cfg.Provider != "" {
			fmt.Printf("Holiday lookups fall through to the %s provider.\n", cfg.Provider)
		}
	} else {
		bold := color.New(color.Bold)
		_, _ = bold.Println("Loaded Calendars:")
		fmt.Println()
		for _, name := range names {
			cal := reg.Get(name)
			marker := " "
			if name == cfg.DefaultCalendar {
				marker = color.GreenString("*")
			}
			fmt.Printf("  %s %-20s %d weekend day(s), %d holiday entr(ies)\n",
				marker, name, len(cal.WeekendDays), len(cal.Holidays))
		}
		fmt.Println()
		fmt.Println("* default calendar")
	}

	if previewDays > 0 {
		return previewBusinessDays(cfg, reg, calendarName, previewDays)
	}
	return nil
}

// previewBusinessDays prints the next n business days of a calendar,
// starting from today.
func previewBusinessDays(cfg *types.ProjectConfig, reg *calendar.Registry, calendarName string, n int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

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

	oracle, err := oracleResolver(cfg, reg, store)(calendarName)
	if err != nil {
		return err
	}

	calc := bizday.New(oracle)
	fmt.Println()
	bold := color.New(color.Bold)
	_, _ = bold.Printf("Next %d business day(s):\n", n)
	day := time.Now()
	for i := 0; i < n; i++ {
		next, err := calc.NextBusinessDay(ctx, day)
		if err != nil {
			return fmt.Errorf("computing business days: %w", err)
		}
		fmt.Printf("  %s (%s)\n", next.Format("2006-01-02"), next.Weekday())
		day = next
	}
	return nil
}
