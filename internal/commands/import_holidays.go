package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/acadportal/slaclock/internal/calendar"
	"github.com/acadportal/slaclock/pkg/types"
)

// NewImportHolidaysCmd creates the import-holidays command.
func NewImportHolidaysCmd() *cobra.Command {
	var (
		calendarName string
		fromFile     string
		builtinUS    bool
		fromYear     int
		toYear       int
	)

	cmd := &cobra.Command{
		Use:   "import-holidays",
		Short: "Load a holiday calendar into the configured store",
		Long: `Load holiday entries into the configured store so remote oracles can
serve them. The source is either a calendar YAML file (--file) or the
generated US federal calendar (--builtin-us).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportHolidays(calendarName, fromFile, builtinUS, fromYear, toYear)
		},
	}

	cmd.Flags().StringVar(&calendarName, "calendar", "", "store calendar name (default: the source calendar's name)")
	cmd.Flags().StringVar(&fromFile, "file", "", "calendar YAML file to import")
	cmd.Flags().BoolVar(&builtinUS, "builtin-us", false, "import the generated US federal calendar")
	cmd.Flags().IntVar(&fromYear, "from", time.Now().Year(), "first year for --builtin-us")
	cmd.Flags().IntVar(&toYear, "to", time.Now().Year()+1, "last year for --builtin-us")
	return cmd
}

func runImportHolidays(calendarName, fromFile string, builtinUS bool, fromYear, toYear int) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}

	var cal *types.HolidayCalendar
	switch {
	case fromFile != "" && builtinUS:
		return fmt.Errorf("--file and --builtin-us are mutually exclusive")
	case fromFile != "":
		data, err := os.ReadFile(fromFile)
		if err != nil {
			return fmt.Errorf("reading calendar file: %w", err)
		}
		cal = &types.HolidayCalendar{}
		if err := yaml.Unmarshal(data, cal); err != nil {
			return fmt.Errorf("parsing calendar file: %w", err)
		}
	case builtinUS:
		if toYear < fromYear {
			return fmt.Errorf("--to %d is before --from %d", toYear, fromYear)
		}
		cal = calendar.BuiltinUS(fromYear, toYear)
	default:
		return fmt.Errorf("either --file or --builtin-us is required")
	}

	if calendarName == "" {
		calendarName = cal.Name
	}
	if calendarName == "" {
		return fmt.Errorf("calendar has no name; pass --calendar")
	}

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	if store == nil {
		return fmt.Errorf("import-holidays needs a provider; configure dynamodb or redis")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := store.Start(ctx); err != nil {
		return fmt.Errorf("connecting to store: %w", err)
	}
	defer func() { _ = store.Stop(ctx) }()

	for _, entry := range cal.Holidays {
		if err := store.PutHoliday(ctx, calendarName, entry); err != nil {
			return fmt.Errorf("writing entry %s: %w", entry.Date, err)
		}
	}

	color.Green("Imported %d entr(ies) into calendar %q.", len(cal.Holidays), calendarName)
	return nil
}
