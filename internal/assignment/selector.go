// Package assignment picks the best agent for an incoming lead.
package assignment

import (
	"context"

	"salesdesk_backend/internal/agents"

	"github.com/google/uuid"
)

// CandidatePool yields assignment candidates for a tier, best first.
type CandidatePool interface {
	Eligible(ctx context.Context, tier agents.Tier) ([]agents.Agent, error)
}

// LoadCounter adjusts an agent's active-lead counter.
type LoadCounter interface {
	IncrementActiveLeads(ctx context.Context, id uuid.UUID) error
	DecrementActiveLeads(ctx context.Context, id uuid.UUID) error
}

// Selector chooses the head of the candidate pool and claims a slot on the
// chosen agent's load counter.
type Selector struct {
	pool     CandidatePool
	counters LoadCounter
}

// NewSelector creates a selector over the given pool and counter store.
func NewSelector(pool CandidatePool, counters LoadCounter) *Selector {
	return &Selector{pool: pool, counters: counters}
}

// Select returns the best agent for the tier, or nil when no active
// eligible-role agent exists. Nil is not an error: the lead simply stays
// unassigned. On success the agent's active_leads counter has already been
// incremented; if the caller's subsequent lead write fails it must call
// Release to roll the counter back.
func (s *Selector) Select(ctx context.Context, tier agents.Tier) (*agents.Agent, error) {
	candidates, err := s.pool.Eligible(ctx, tier)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	chosen := candidates[0]
	if err := s.counters.IncrementActiveLeads(ctx, chosen.ID); err != nil {
		return nil, err
	}
	chosen.ActiveLeads++
	return &chosen, nil
}

// Release is the compensating decrement for a Select whose lead write failed.
func (s *Selector) Release(ctx context.Context, id uuid.UUID) error {
	return s.counters.DecrementActiveLeads(ctx, id)
}
