// deadline-sweep Lambda scans pending proposals for overdue and at-risk
// review deadlines. Invoked by EventBridge on a schedule (e.g. hourly on
// business mornings).
package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	intlambda "github.com/acadportal/slaclock/internal/lambda"
	"github.com/acadportal/slaclock/internal/sla"
)

var (
	deps     *intlambda.Deps
	depsOnce sync.Once
	depsErr  error
)

func getDeps() (*intlambda.Deps, error) {
	depsOnce.Do(func() {
		deps, depsErr = intlambda.Init(context.Background())
	})
	return deps, depsErr
}

func handler(ctx context.Context) error {
	d, err := getDeps()
	if err != nil {
		return err
	}

	report, err := sla.Sweep(ctx, sla.SweepOptions{
		Source:   d.Source,
		Oracles:  d.Oracles,
		Policy:   d.Policy,
		RemindFn: d.RemindFn,
		Logger:   d.Logger,
	})
	if err != nil {
		return err
	}

	d.Logger.Info("deadline sweep complete",
		"runId", report.RunID,
		"checked", report.Checked,
		"skipped", report.Skipped,
		"overdue", report.Overdue,
		"atRisk", report.AtRisk)
	return nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	awslambda.Start(handler)
}
