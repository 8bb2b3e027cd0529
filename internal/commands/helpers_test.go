package commands

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadportal/slaclock/internal/calendar"
	"github.com/acadportal/slaclock/pkg/types"
)

func TestParseSubmitted(t *testing.T) {
	got, err := parseSubmitted("2026-01-09T16:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 9, 16, 30, 0, 0, time.UTC), got)

	got, err = parseSubmitted("2026-01-09")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC), got)

	_, err = parseSubmitted("09/01/2026")
	assert.Error(t, err)

	got, err = parseSubmitted("now")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), got, time.Minute)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pending.yaml")
	data := `proposals:
  - id: prop-001
    title: Quantum Sensing Grant
    stage: faculty_review
    submittedAt: 2026-01-09T16:30:00Z
  - id: prop-002
    stage: school_review
    submittedAt: 2026-01-05T09:00:00Z
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	proposals, err := fileSource{path: path}.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, proposals, 2)
	assert.Equal(t, "prop-001", proposals[0].ID)
	assert.Equal(t, types.StageFacultyReview, proposals[0].Stage)
	assert.Equal(t, time.Date(2026, time.January, 9, 16, 30, 0, 0, time.UTC), proposals[0].SubmittedAt)
}

func TestFileSourceMissing(t *testing.T) {
	_, err := fileSource{path: "/nonexistent/pending.yaml"}.ListPending(context.Background())
	assert.Error(t, err)
}

func TestOracleResolver(t *testing.T) {
	reg := calendar.NewRegistry()
	require.NoError(t, reg.Register(&types.HolidayCalendar{
		Name:        "campus",
		WeekendDays: []string{"saturday", "sunday"},
	}))
	cfg := &types.ProjectConfig{DefaultCalendar: "campus"}

	resolve := oracleResolver(cfg, reg, nil)

	// Empty name falls back to the default calendar.
	o, err := resolve("")
	require.NoError(t, err)

	biz, err := o.IsBusinessDay(context.Background(), time.Date(2026, time.January, 9, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, biz)

	// Resolutions are memoized.
	again, err := resolve("campus")
	require.NoError(t, err)
	assert.Equal(t, reflect.ValueOf(o).Pointer(), reflect.ValueOf(again).Pointer())

	_, err = resolve("atlantis")
	assert.Error(t, err)
}

func TestNewStoreUnknownProvider(t *testing.T) {
	_, err := newStore(&types.ProjectConfig{Provider: "etcd"})
	assert.Error(t, err)
}
