// Package commands implements the slaclock CLI subcommands.
package commands

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/calendar"
	"github.com/acadportal/slaclock/internal/config"
	"github.com/acadportal/slaclock/internal/provider"
	ddbprov "github.com/acadportal/slaclock/internal/provider/dynamodb"
	redisprov "github.com/acadportal/slaclock/internal/provider/redis"
	"github.com/acadportal/slaclock/pkg/types"
)

const oracleCacheTTL = time.Hour

// submittedFormats are the timestamp layouts accepted on the command line.
var submittedFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	types.DateFormat,
}

func parseSubmitted(s string) (time.Time, error) {
	if s == "" || s == "now" {
		return time.Now(), nil
	}
	for _, layout := range submittedFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q (want RFC3339 or 2006-01-02T15:04)", s)
}

// newStore builds the configured holiday store, or nil when the project runs
// on calendar files alone.
func newStore(cfg *types.ProjectConfig) (provider.HolidayStore, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "dynamodb":
		dc, _ := cfg.DynamoDB.(*ddbprov.Config)
		return ddbprov.New(dc)
	case "redis":
		rc, _ := cfg.Redis.(*redisprov.Config)
		return redisprov.New(rc), nil
	}
	return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

// loadRegistry loads every configured calendar directory.
func loadRegistry(cfg *types.ProjectConfig) (*calendar.Registry, error) {
	reg := calendar.NewRegistry()
	for _, dir := range cfg.CalendarDirs {
		if err := reg.LoadDir(dir); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// oracleResolver builds the calendar-name -> oracle resolver used by the
// sweep and the deadline command. Local calendar files win over the store;
// every resolved oracle is cached and instrumented. Resolutions are memoized
// so repeated proposals share one oracle chain.
func oracleResolver(cfg *types.ProjectConfig, reg *calendar.Registry, store provider.HolidayStore) func(string) (bizday.Oracle, error) {
	var mu sync.Mutex
	resolved := make(map[string]bizday.Oracle)

	return func(name string) (bizday.Oracle, error) {
		if name == "" {
			name = cfg.DefaultCalendar
		}

		mu.Lock()
		defer mu.Unlock()
		if o, ok := resolved[name]; ok {
			return o, nil
		}

		var inner bizday.Oracle
		if reg != nil && reg.Get(name) != nil {
			o, err := reg.Oracle(name)
			if err != nil {
				return nil, err
			}
			inner = o
		} else if store != nil {
			inner = calendar.NewStoreOracle(store, name)
		} else {
			return nil, fmt.Errorf("calendar %q not found", name)
		}

		o := calendar.Instrument(calendar.NewCache(inner, oracleCacheTTL))
		resolved[name] = o
		return o, nil
	}
}

// fileSource is a ProposalSource reading a YAML file, for portals that
// export their pending set instead of exposing the database.
type fileSource struct {
	path string
}

func (f fileSource) ListPending(_ context.Context) ([]types.Proposal, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading proposals file: %w", err)
	}
	var doc struct {
		Proposals []types.Proposal `yaml:"proposals"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing proposals file: %w", err)
	}
	return doc.Proposals, nil
}

func loadProjectConfig() (*types.ProjectConfig, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
