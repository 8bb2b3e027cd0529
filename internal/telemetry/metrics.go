// Package telemetry wires the OTLP exporters and exposes the service's
// counters. Until Init installs a real meter provider the instruments are
// no-ops, so library code can record freely.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scope = "github.com/acadportal/slaclock"

var meter = otel.Meter(scope)

// Counters recorded across the deadline pipeline.
var (
	DeadlinesComputed = mustCounter("slaclock.deadlines.computed",
		"Cutoff-aware deadline computations")
	OracleLookups = mustCounter("slaclock.oracle.lookups",
		"Business-day oracle lookups")
	OracleErrors = mustCounter("slaclock.oracle.errors",
		"Business-day oracle lookup failures")
	SweepsTotal = mustCounter("slaclock.sweeps.total",
		"Deadline sweep runs")
	OverdueFound = mustCounter("slaclock.sweeps.overdue",
		"Proposals found overdue during sweeps")
	RemindersQueued = mustCounter("slaclock.reminders.queued",
		"Reminders handed to the reminder sink")
)

func mustCounter(name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		panic(err)
	}
	return c
}
