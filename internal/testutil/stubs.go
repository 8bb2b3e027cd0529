// Package testutil provides shared test doubles for slaclock.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/acadportal/slaclock/internal/provider"
	"github.com/acadportal/slaclock/pkg/types"
)

// Compile-time interface satisfaction checks.
var (
	_ provider.HolidayStore  = (*StubHolidayStore)(nil)
	_ provider.ProposalStore = (*StubProposalStore)(nil)
)

// StubHolidayStore is an in-memory HolidayStore. Err, when set, is returned
// by every read; ListCalls counts ListRange invocations so tests can assert
// batching behavior.
type StubHolidayStore struct {
	mu        sync.Mutex
	entries   map[string]map[string]types.HolidayEntry // calendar -> date -> entry
	Err       error
	ListCalls int
}

// NewStubHolidayStore creates an empty store.
func NewStubHolidayStore() *StubHolidayStore {
	return &StubHolidayStore{entries: make(map[string]map[string]types.HolidayEntry)}
}

// Seed loads a calendar's entries.
func (s *StubHolidayStore) Seed(calendar string, entries ...types.HolidayEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[calendar] == nil {
		s.entries[calendar] = make(map[string]types.HolidayEntry)
	}
	for _, e := range entries {
		s.entries[calendar][e.Date] = e
	}
}

func (s *StubHolidayStore) GetHoliday(_ context.Context, calendar string, day time.Time) (*types.HolidayEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.entries[calendar][day.Format(types.DateFormat)]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *StubHolidayStore) ListRange(_ context.Context, calendar string, from, to time.Time) ([]types.HolidayEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	if s.Err != nil {
		return nil, s.Err
	}
	fromKey := from.Format(types.DateFormat)
	toKey := to.Format(types.DateFormat)
	var out []types.HolidayEntry
	for date, e := range s.entries[calendar] {
		if date >= fromKey && date <= toKey {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *StubHolidayStore) PutHoliday(_ context.Context, calendar string, entry types.HolidayEntry) error {
	s.Seed(calendar, entry)
	return nil
}

func (s *StubHolidayStore) DeleteHoliday(_ context.Context, calendar string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[calendar], day.Format(types.DateFormat))
	return nil
}

func (s *StubHolidayStore) Start(context.Context) error { return nil }
func (s *StubHolidayStore) Stop(context.Context) error  { return nil }
func (s *StubHolidayStore) Ping(context.Context) error  { return nil }

// StubProposalStore is an in-memory ProposalStore.
type StubProposalStore struct {
	mu        sync.Mutex
	proposals map[string]types.Proposal
	Err       error
}

// NewStubProposalStore creates a store pre-loaded with the given proposals.
func NewStubProposalStore(proposals ...types.Proposal) *StubProposalStore {
	s := &StubProposalStore{proposals: make(map[string]types.Proposal)}
	for _, p := range proposals {
		s.proposals[p.ID] = p
	}
	return s
}

func (s *StubProposalStore) ListPending(context.Context) ([]types.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]types.Proposal, 0, len(s.proposals))
	for _, p := range s.proposals {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *StubProposalStore) PutProposal(_ context.Context, p types.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[p.ID] = p
	return nil
}

func (s *StubProposalStore) GetProposal(_ context.Context, id string) (*types.Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.proposals[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}
