package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ddbprov "github.com/acadportal/slaclock/internal/provider/dynamodb"
	redisprov "github.com/acadportal/slaclock/internal/provider/redis"
	"github.com/acadportal/slaclock/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoad_FilesOnly(t *testing.T) {
	dir := writeConfig(t, `
calendarDirs: [calendars]
defaultCalendar: university
sla:
  cutoffHour: 16
  atRiskLeadDays: 3
  stages:
    faculty_review: 7
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"calendars"}, cfg.CalendarDirs)
	assert.Equal(t, "university", cfg.DefaultCalendar)
	assert.Empty(t, cfg.Provider)

	policy := EffectivePolicy(cfg)
	assert.Equal(t, 16, policy.CutoffHour)
	assert.Equal(t, 3, policy.AtRiskLeadDays)
	assert.Equal(t, map[string]int{types.StageFacultyReview: 7}, policy.Stages)
}

func TestLoad_DynamoDB(t *testing.T) {
	dir := writeConfig(t, `
defaultCalendar: university
provider: dynamodb
dynamodb:
  tableName: slaclock
  region: us-east-1
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	dc, ok := cfg.DynamoDB.(*ddbprov.Config)
	require.True(t, ok)
	assert.Equal(t, "slaclock", dc.TableName)
	assert.Equal(t, "us-east-1", dc.Region)
}

func TestLoad_Redis(t *testing.T) {
	dir := writeConfig(t, `
defaultCalendar: university
provider: redis
redis:
  addr: localhost:6379
  keyPrefix: "portal:"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)

	rc, ok := cfg.Redis.(*redisprov.Config)
	require.True(t, ok)
	assert.Equal(t, "localhost:6379", rc.Addr)
	assert.Equal(t, "portal:", rc.KeyPrefix)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing default calendar",
			yaml:    "calendarDirs: [calendars]\n",
			wantErr: "defaultCalendar is required",
		},
		{
			name:    "no calendar source",
			yaml:    "defaultCalendar: university\n",
			wantErr: "calendarDir",
		},
		{
			name:    "dynamodb without table",
			yaml:    "defaultCalendar: u\nprovider: dynamodb\ndynamodb: {region: us-east-1}\n",
			wantErr: "tableName",
		},
		{
			name:    "redis without addr",
			yaml:    "defaultCalendar: u\nprovider: redis\nredis: {db: 1}\n",
			wantErr: "redis.addr",
		},
		{
			name:    "unknown provider",
			yaml:    "defaultCalendar: u\nprovider: etcd\n",
			wantErr: "unknown provider",
		},
		{
			name:    "cutoff out of range",
			yaml:    "defaultCalendar: u\ncalendarDirs: [c]\nsla: {cutoffHour: 24}\n",
			wantErr: "cutoffHour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfig(t, tt.yaml)
			_, err := Load(dir)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestEffectivePolicy_Defaults(t *testing.T) {
	policy := EffectivePolicy(&types.ProjectConfig{})
	assert.Equal(t, types.DefaultSLAPolicy(), policy)

	// Partial overrides keep the remaining defaults.
	policy = EffectivePolicy(&types.ProjectConfig{SLA: &types.SLAPolicy{CutoffHour: 12}})
	assert.Equal(t, 12, policy.CutoffHour)
	assert.Equal(t, types.DefaultSLAPolicy().AtRiskLeadDays, policy.AtRiskLeadDays)
	assert.Equal(t, types.DefaultSLAPolicy().Stages, policy.Stages)
}
