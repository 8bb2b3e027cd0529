// Package provider defines the storage backend interfaces for slaclock.
package provider

import (
	"context"
	"time"

	"github.com/acadportal/slaclock/pkg/types"
)

// HolidayStore is the holiday-table backend behind the remote business-day
// oracle. Implementations key entries by calendar name and calendar day.
type HolidayStore interface {
	// GetHoliday returns the entry for a day, or nil when none is recorded.
	GetHoliday(ctx context.Context, calendar string, day time.Time) (*types.HolidayEntry, error)
	// ListRange returns all entries with from <= date <= to, date-ascending.
	ListRange(ctx context.Context, calendar string, from, to time.Time) ([]types.HolidayEntry, error)
	// PutHoliday inserts or replaces an entry.
	PutHoliday(ctx context.Context, calendar string, entry types.HolidayEntry) error
	// DeleteHoliday removes an entry; removing an absent entry is not an error.
	DeleteHoliday(ctx context.Context, calendar string, day time.Time) error

	// Lifecycle
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ping(ctx context.Context) error
}

// ProposalSource lists the proposals whose stage deadlines the sweep checks.
type ProposalSource interface {
	ListPending(ctx context.Context) ([]types.Proposal, error)
}

// ProposalStore is a ProposalSource that also accepts writes; the portal's
// ingest side uses it, the sweep only reads.
type ProposalStore interface {
	ProposalSource
	PutProposal(ctx context.Context, p types.Proposal) error
	GetProposal(ctx context.Context, id string) (*types.Proposal, error)
}
