// Package types defines the shared configuration and record types for slaclock.
package types

import "time"

// DateFormat is the calendar-day layout used everywhere a date is stored or
// compared as a plain day (holiday tables, store keys, YAML files).
const DateFormat = "2006-01-02"

// Workflow stages of a research proposal, in approval order.
const (
	StageDraft         = "draft"
	StageFacultyReview = "faculty_review"
	StageSchoolReview  = "school_review"
	StageCouncilReview = "council_review"
	StageCompleted     = "completed"
)

// IsTerminalStage reports whether a stage carries no SLA clock.
func IsTerminalStage(stage string) bool {
	return stage == StageDraft || stage == StageCompleted
}

// HolidayEntry is a single dated entry in a holiday calendar.
// WorkingDay inverts the usual meaning: a flagged date that still counts as a
// business day (e.g. a compensatory work day scheduled on a weekend).
type HolidayEntry struct {
	Date       string `yaml:"date" json:"date"` // "2026-01-01"
	Name       string `yaml:"name,omitempty" json:"name,omitempty"`
	WorkingDay bool   `yaml:"workingDay,omitempty" json:"workingDay,omitempty"`
}

// HolidayCalendar defines a named set of non-working days.
type HolidayCalendar struct {
	Name        string         `yaml:"name" json:"name"`
	WeekendDays []string       `yaml:"weekendDays,omitempty" json:"weekendDays,omitempty"` // defaults to saturday, sunday
	Holidays    []HolidayEntry `yaml:"holidays,omitempty" json:"holidays,omitempty"`
}

// SLAPolicy configures the deadline clock for the approval workflow.
type SLAPolicy struct {
	// CutoffHour is the local hour after which a same-day submission no
	// longer counts toward its own day (0-23).
	CutoffHour int `yaml:"cutoffHour,omitempty" json:"cutoffHour,omitempty"`
	// AtRiskLeadDays is the remaining-business-day threshold at or below
	// which a pending deadline is classified at-risk.
	AtRiskLeadDays int `yaml:"atRiskLeadDays,omitempty" json:"atRiskLeadDays,omitempty"`
	// Stages maps workflow stage to its business-day budget.
	Stages map[string]int `yaml:"stages,omitempty" json:"stages,omitempty"`
}

// DefaultSLAPolicy returns the portal's standard policy.
func DefaultSLAPolicy() SLAPolicy {
	return SLAPolicy{
		CutoffHour:     17,
		AtRiskLeadDays: 2,
		Stages: map[string]int{
			StageFacultyReview: 5,
			StageSchoolReview:  10,
			StageCouncilReview: 15,
		},
	}
}

// StageDays returns the business-day budget for a stage.
func (p SLAPolicy) StageDays(stage string) (int, bool) {
	days, ok := p.Stages[stage]
	return days, ok
}

// Proposal is the slice of a research proposal the deadline clock needs.
type Proposal struct {
	ID          string    `yaml:"id" json:"id"`
	Title       string    `yaml:"title,omitempty" json:"title,omitempty"`
	Stage       string    `yaml:"stage" json:"stage"`
	Calendar    string    `yaml:"calendar,omitempty" json:"calendar,omitempty"` // holiday calendar name; empty = default
	SubmittedAt time.Time `yaml:"submittedAt" json:"submittedAt"`               // when the current stage started
}

// DeadlineState classifies a proposal's position against its stage deadline.
type DeadlineState string

const (
	DeadlineOK      DeadlineState = "ok"
	DeadlineAtRisk  DeadlineState = "at_risk"
	DeadlineOverdue DeadlineState = "overdue"
)

// Reminder is the message enqueued for a proposal that needs attention.
type Reminder struct {
	RunID         string        `json:"runId"`
	ProposalID    string        `json:"proposalId"`
	Title         string        `json:"title,omitempty"`
	Stage         string        `json:"stage"`
	State         DeadlineState `json:"state"`
	Deadline      time.Time     `json:"deadline"`
	RemainingDays int           `json:"remainingDays"`
}

// TelemetryConfig configures the OTLP exporters.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"` // host:port, default localhost:4317
	Insecure bool   `yaml:"insecure,omitempty" json:"insecure,omitempty"`
}

// ProjectConfig is the top-level slaclock.yaml configuration.
// Provider sections are decoded in a second pass into their concrete types
// and stored here as opaque values to avoid an import cycle with the
// provider packages.
type ProjectConfig struct {
	CalendarDirs    []string         `yaml:"calendarDirs"`
	DefaultCalendar string           `yaml:"defaultCalendar"`
	Provider        string           `yaml:"provider,omitempty"` // "", "dynamodb" or "redis"
	DynamoDB        any              `yaml:"-"`
	Redis           any              `yaml:"-"`
	SLA             *SLAPolicy       `yaml:"sla,omitempty"`
	Telemetry       *TelemetryConfig `yaml:"telemetry,omitempty"`
}
