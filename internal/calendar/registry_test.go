package calendar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadportal/slaclock/pkg/types"
)

const calendarYAML = `name: university-2026
holidays:
  - date: "2026-01-01"
    name: New Year's Day
  - date: "2026-04-04"
    name: Make-up work day
    workingDay: true
`

func writeCalendar(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644))
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeCalendar(t, dir, "university.yaml", calendarYAML)
	writeCalendar(t, dir, "notes.txt", "not a calendar")

	reg := NewRegistry()
	require.NoError(t, reg.LoadDir(dir))

	cal := reg.Get("university-2026")
	require.NotNil(t, cal)
	assert.Len(t, cal.Holidays, 2)
	assert.True(t, cal.Holidays[1].WorkingDay)
	assert.Equal(t, []string{"university-2026"}, reg.Names())
}

func TestRegistry_LoadFile_BadDate(t *testing.T) {
	dir := t.TempDir()
	writeCalendar(t, dir, "bad.yaml", "name: broken\nholidays:\n  - date: \"01/09/2026\"\n")

	reg := NewRegistry()
	err := reg.LoadFile(filepath.Join(dir, "bad.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "01/09/2026")
}

func TestRegistry_Register_Validation(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&types.HolidayCalendar{})
	assert.ErrorContains(t, err, "no name")

	err = reg.Register(&types.HolidayCalendar{Name: "x", WeekendDays: []string{"funday"}})
	assert.ErrorContains(t, err, "funday")

	err = reg.Register(&types.HolidayCalendar{
		Name:        "mid-east",
		WeekendDays: []string{"Friday", "Saturday"},
	})
	assert.NoError(t, err)
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Get("nope"))
}
