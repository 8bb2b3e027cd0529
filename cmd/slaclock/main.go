package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acadportal/slaclock/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "slaclock",
		Short: "Business-day SLA deadline tracking for research proposals",
		Long: `Slaclock computes and tracks review deadlines for research proposals.
Deadlines are measured in business days against institution-specific holiday
calendars: submissions after the daily cutoff roll to the next business day,
and pending proposals are swept for overdue or at-risk review stages.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewDeadlineCmd(),
		commands.NewCheckCmd(),
		commands.NewCalendarsCmd(),
		commands.NewImportHolidaysCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
