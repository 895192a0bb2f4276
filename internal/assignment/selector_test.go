package assignment

import (
	"context"
	"errors"
	"testing"

	"salesdesk_backend/internal/agents"

	"github.com/google/uuid"
)

type fakePool struct {
	candidates []agents.Agent
	err        error
}

func (f fakePool) Eligible(context.Context, agents.Tier) ([]agents.Agent, error) {
	return f.candidates, f.err
}

type fakeCounters struct {
	increments map[uuid.UUID]int
	decrements map[uuid.UUID]int
	incErr     error
}

func newFakeCounters() *fakeCounters {
	return &fakeCounters{
		increments: make(map[uuid.UUID]int),
		decrements: make(map[uuid.UUID]int),
	}
}

func (f *fakeCounters) IncrementActiveLeads(_ context.Context, id uuid.UUID) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.increments[id]++
	return nil
}

func (f *fakeCounters) DecrementActiveLeads(_ context.Context, id uuid.UUID) error {
	f.decrements[id]++
	return nil
}

func TestSelectTakesHeadAndIncrementsLoad(t *testing.T) {
	best := agents.Agent{ID: uuid.New(), PerformanceRating: 4.8}
	rest := agents.Agent{ID: uuid.New(), PerformanceRating: 4.6}
	counters := newFakeCounters()
	selector := NewSelector(fakePool{candidates: []agents.Agent{best, rest}}, counters)

	chosen, err := selector.Select(context.Background(), agents.TierHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chosen == nil || chosen.ID != best.ID {
		t.Fatalf("expected the head of the pool to be chosen")
	}
	if counters.increments[best.ID] != 1 {
		t.Fatalf("expected exactly one increment for the chosen agent, got %d", counters.increments[best.ID])
	}
	if len(counters.decrements) != 0 {
		t.Fatalf("no decrement expected on the happy path")
	}
	if chosen.ActiveLeads != 1 {
		t.Fatalf("returned agent should reflect the claimed slot, got %d", chosen.ActiveLeads)
	}
}

func TestSelectEmptyPoolIsNotAnError(t *testing.T) {
	counters := newFakeCounters()
	selector := NewSelector(fakePool{}, counters)

	chosen, err := selector.Select(context.Background(), agents.TierMedium)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if chosen != nil {
		t.Fatalf("expected no agent for an empty pool")
	}
	if len(counters.increments) != 0 {
		t.Fatalf("no counter should be touched when nobody is selected")
	}
}

func TestSelectPropagatesCounterFailure(t *testing.T) {
	counters := newFakeCounters()
	counters.incErr = errors.New("connection reset")
	selector := NewSelector(fakePool{candidates: []agents.Agent{{ID: uuid.New()}}}, counters)

	if _, err := selector.Select(context.Background(), agents.TierLow); err == nil {
		t.Fatalf("expected the counter failure to surface")
	}
}

func TestReleaseRollsBackClaimedSlot(t *testing.T) {
	id := uuid.New()
	counters := newFakeCounters()
	selector := NewSelector(fakePool{}, counters)

	if err := selector.Release(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counters.decrements[id] != 1 {
		t.Fatalf("expected exactly one compensating decrement, got %d", counters.decrements[id])
	}
}
