package calendar

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"

	"github.com/acadportal/slaclock/pkg/types"
)

// BuiltinUSName is the registry name of the seeded US federal calendar.
const BuiltinUSName = "us-federal"

// BuiltinUS returns a holiday calendar seeded with observed US federal
// holidays for the year range [fromYear, toYear]. Useful as a starting
// calendar before a school registers its own academic calendar, and as the
// default source for the holiday-import command.
func BuiltinUS(fromYear, toYear int) *types.HolidayCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)

	var holidays []types.HolidayEntry
	for year := fromYear; year <= toYear; year++ {
		for day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); day.Year() == year; day = day.AddDate(0, 0, 1) {
			actual, observed, hol := c.IsHoliday(day)
			if !actual && !observed {
				continue
			}
			entry := types.HolidayEntry{Date: day.Format(types.DateFormat)}
			if hol != nil {
				entry.Name = hol.Name
			}
			holidays = append(holidays, entry)
		}
	}

	return &types.HolidayCalendar{Name: BuiltinUSName, Holidays: holidays}
}
