// Package lambda wires shared dependencies for the Lambda entrypoints.
package lambda

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/acadportal/slaclock/internal/bizday"
	"github.com/acadportal/slaclock/internal/calendar"
	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/internal/provider/dynamodb"
	"github.com/acadportal/slaclock/internal/reminder"
	"github.com/acadportal/slaclock/pkg/types"
)

const oracleCacheTTL = time.Hour

// Deps holds shared dependencies for Lambda handlers.
type Deps struct {
	Store    provider.HolidayStore
	Source   provider.ProposalSource
	Oracles  func(calendar string) (bizday.Oracle, error)
	Policy   types.SLAPolicy
	RemindFn func(context.Context, types.Reminder)
	Logger   *slog.Logger
}

// Init creates shared dependencies from environment variables.
// Reads: TABLE_NAME, AWS_REGION, QUEUE_URL, DEFAULT_CALENDAR, CUTOFF_HOUR,
// AT_RISK_LEAD_DAYS
func Init(ctx context.Context) (*Deps, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	tableName := os.Getenv("TABLE_NAME")
	region := os.Getenv("AWS_REGION")
	if tableName == "" {
		return nil, fmt.Errorf("TABLE_NAME environment variable required")
	}
	if region == "" {
		return nil, fmt.Errorf("AWS_REGION environment variable required")
	}

	store, err := dynamodb.New(&dynamodb.Config{
		TableName: tableName,
		Region:    region,
	})
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB store: %w", err)
	}

	policy := types.DefaultSLAPolicy()
	if v := os.Getenv("CUTOFF_HOUR"); v != "" {
		hour, err := strconv.Atoi(v)
		if err != nil || hour < 0 || hour > 23 {
			return nil, fmt.Errorf("invalid CUTOFF_HOUR %q", v)
		}
		policy.CutoffHour = hour
	}
	if v := os.Getenv("AT_RISK_LEAD_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil || days < 0 {
			return nil, fmt.Errorf("invalid AT_RISK_LEAD_DAYS %q", v)
		}
		policy.AtRiskLeadDays = days
	}

	defaultCalendar := envOrDefault("DEFAULT_CALENDAR", calendar.BuiltinUSName)

	var remindFn func(context.Context, types.Reminder)
	if queueURL := os.Getenv("QUEUE_URL"); queueURL != "" {
		pub, err := reminder.NewPublisher(ctx, queueURL)
		if err != nil {
			return nil, fmt.Errorf("creating reminder publisher: %w", err)
		}
		remindFn = pub.RemindFunc()
	} else {
		remindFn = func(_ context.Context, r types.Reminder) {
			logger.Info("reminder", "proposalId", r.ProposalID, "stage", r.Stage, "state", r.State, "deadline", r.Deadline)
		}
	}

	return &Deps{
		Store:    store,
		Source:   store,
		Oracles:  storeOracles(store, defaultCalendar),
		Policy:   policy,
		RemindFn: remindFn,
		Logger:   logger,
	}, nil
}

// storeOracles resolves calendar names to cached, instrumented store oracles.
// One oracle chain is shared per calendar across warm invocations.
func storeOracles(store provider.HolidayStore, defaultCalendar string) func(string) (bizday.Oracle, error) {
	resolved := make(map[string]bizday.Oracle)
	return func(name string) (bizday.Oracle, error) {
		if name == "" {
			name = defaultCalendar
		}
		if o, ok := resolved[name]; ok {
			return o, nil
		}
		o := calendar.Instrument(calendar.NewCache(calendar.NewStoreOracle(store, name), oracleCacheTTL))
		resolved[name] = o
		return o, nil
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
