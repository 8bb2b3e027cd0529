// Package config handles loading and validation of slaclock.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ddbprov "github.com/acadportal/slaclock/internal/provider/dynamodb"
	redisprov "github.com/acadportal/slaclock/internal/provider/redis"
	"github.com/acadportal/slaclock/pkg/types"
)

// FileName is the project configuration file name.
const FileName = "slaclock.yaml"

// providerConfigs is a helper struct used for a second YAML unmarshal pass
// to decode provider-specific config sections into their concrete types.
type providerConfigs struct {
	Redis    *redisprov.Config `yaml:"redis,omitempty"`
	DynamoDB *ddbprov.Config   `yaml:"dynamodb,omitempty"`
}

// Load reads and parses slaclock.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Second pass: decode provider-specific sections into concrete types.
	var raw providerConfigs
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing provider config: %w", err)
	}
	if raw.Redis != nil {
		cfg.Redis = raw.Redis
	}
	if raw.DynamoDB != nil {
		cfg.DynamoDB = raw.DynamoDB
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *types.ProjectConfig) error {
	if cfg.DefaultCalendar == "" {
		return fmt.Errorf("defaultCalendar is required")
	}
	switch cfg.Provider {
	case "":
		if len(cfg.CalendarDirs) == 0 {
			return fmt.Errorf("at least one calendarDir is required when no provider is configured")
		}
	case "redis":
		rc, _ := cfg.Redis.(*redisprov.Config)
		if rc == nil {
			return fmt.Errorf("redis config is required when provider is redis")
		}
		if rc.Addr == "" {
			return fmt.Errorf("redis.addr is required")
		}
	case "dynamodb":
		dc, _ := cfg.DynamoDB.(*ddbprov.Config)
		if dc == nil {
			return fmt.Errorf("dynamodb config is required when provider is dynamodb")
		}
		if dc.TableName == "" {
			return fmt.Errorf("dynamodb.tableName is required")
		}
	default:
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.SLA != nil {
		if cfg.SLA.CutoffHour < 0 || cfg.SLA.CutoffHour > 23 {
			return fmt.Errorf("sla.cutoffHour %d out of range", cfg.SLA.CutoffHour)
		}
		if cfg.SLA.AtRiskLeadDays < 0 {
			return fmt.Errorf("sla.atRiskLeadDays must be non-negative")
		}
		for stage, days := range cfg.SLA.Stages {
			if days < 0 {
				return fmt.Errorf("sla.stages.%s must be non-negative", stage)
			}
		}
	}
	return nil
}

// EffectivePolicy merges the configured SLA policy over the defaults: unset
// cutoff and lead values fall back, configured stages replace the default
// stage map wholesale.
func EffectivePolicy(cfg *types.ProjectConfig) types.SLAPolicy {
	policy := types.DefaultSLAPolicy()
	if cfg.SLA == nil {
		return policy
	}
	if cfg.SLA.CutoffHour > 0 {
		policy.CutoffHour = cfg.SLA.CutoffHour
	}
	if cfg.SLA.AtRiskLeadDays > 0 {
		policy.AtRiskLeadDays = cfg.SLA.AtRiskLeadDays
	}
	if len(cfg.SLA.Stages) > 0 {
		policy.Stages = cfg.SLA.Stages
	}
	return policy
}
