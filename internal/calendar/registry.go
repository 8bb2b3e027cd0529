// Package calendar handles loading holiday-calendar definitions and answers
// the business-day question over them.
package calendar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acadportal/slaclock/pkg/types"
)

// Registry manages holiday calendars loaded from YAML files.
type Registry struct {
	calendars map[string]*types.HolidayCalendar
}

// NewRegistry creates a new empty calendar registry.
func NewRegistry() *Registry {
	return &Registry{
		calendars: make(map[string]*types.HolidayCalendar),
	}
}

// LoadDir loads all YAML calendar files from a directory.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading calendar dir %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		path := filepath.Join(dir, name)
		if err := r.LoadFile(path); err != nil {
			return fmt.Errorf("loading calendar %s: %w", path, err)
		}
	}
	return nil
}

// LoadFile loads a single calendar YAML file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var cal types.HolidayCalendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}

	return r.Register(&cal)
}

// Register adds a calendar directly to the registry after validating it.
func (r *Registry) Register(cal *types.HolidayCalendar) error {
	if cal.Name == "" {
		return fmt.Errorf("calendar has no name")
	}
	for _, day := range cal.WeekendDays {
		if _, err := parseWeekday(day); err != nil {
			return fmt.Errorf("calendar %s: %w", cal.Name, err)
		}
	}
	// Malformed dates fail here, at the boundary, not inside a deadline walk.
	for _, h := range cal.Holidays {
		if _, err := time.Parse(types.DateFormat, h.Date); err != nil {
			return fmt.Errorf("calendar %s: holiday date %q: %w", cal.Name, h.Date, err)
		}
	}
	r.calendars[cal.Name] = cal
	return nil
}

// Get returns a calendar by name, or nil if not found.
func (r *Registry) Get(name string) *types.HolidayCalendar {
	return r.calendars[name]
}

// Names returns the registered calendar names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.calendars))
	for name := range r.calendars {
		names = append(names, name)
	}
	return names
}

func parseWeekday(name string) (time.Weekday, error) {
	switch strings.ToLower(name) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
