package agents

import (
	"context"
	"testing"

	"salesdesk_backend/internal/agents/repository"

	"github.com/google/uuid"
)

type fakeReader struct {
	agents []Agent
	err    error
}

func (f fakeReader) ListAssignable(context.Context) ([]Agent, error) {
	return f.agents, f.err
}

func agent(rating float64, activeLeads int) Agent {
	return Agent{
		ID:                uuid.New(),
		Role:              "sales",
		Status:            "active",
		PerformanceRating: rating,
		ActiveLeads:       activeLeads,
	}
}

func TestEligiblePrefersTopRatedWithinThreshold(t *testing.T) {
	low := agent(4.0, 0)
	high := agent(4.9, 0)
	pool := NewPool(fakeReader{agents: []Agent{low, high}})

	got, err := pool.Eligible(context.Background(), TierHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the 4.9-rated agent to qualify, got %d candidates", len(got))
	}
	if got[0].ID != high.ID {
		t.Fatalf("expected agent %s at the head, got %s", high.ID, got[0].ID)
	}
}

func TestEligibleBreaksRatingTiesByLoad(t *testing.T) {
	busy := agent(4.8, 5)
	idle := agent(4.8, 1)
	pool := NewPool(fakeReader{agents: []Agent{busy, idle}})

	got, err := pool.Eligible(context.Background(), TierHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != idle.ID {
		t.Fatalf("expected the least-loaded top performer first, got agent with %d active leads", got[0].ActiveLeads)
	}
}

func TestEligibleFallsBackToLeastLoadedWhenNobodyMeetsBar(t *testing.T) {
	loadedButGood := agent(4.2, 4)
	idleButWeak := agent(2.1, 0)
	pool := NewPool(fakeReader{agents: []Agent{loadedButGood, idleButWeak}})

	got, err := pool.Eligible(context.Background(), TierHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the full pool as fallback, got %d candidates", len(got))
	}
	if got[0].ID != idleButWeak.ID {
		t.Fatalf("fallback should prefer availability over quality")
	}
}

func TestEligibleFallbackBreaksLoadTiesByRating(t *testing.T) {
	weaker := agent(2.5, 2)
	stronger := agent(3.0, 2)
	pool := NewPool(fakeReader{agents: []Agent{weaker, stronger}})

	got, err := pool.Eligible(context.Background(), TierHigh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].ID != stronger.ID {
		t.Fatalf("equal load should fall back to the higher rating")
	}
}

func TestEligibleEmptyPool(t *testing.T) {
	pool := NewPool(fakeReader{})

	got, err := pool.Eligible(context.Background(), TierLow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates, got %d", len(got))
	}
}

func TestTierThresholds(t *testing.T) {
	cases := []struct {
		tier Tier
		want float64
	}{
		{TierHigh, 4.5},
		{TierMedium, 3.5},
		{TierLow, 2.0},
		{Tier("unknown"), 2.0},
	}
	for _, tc := range cases {
		if got := tc.tier.MinRating(); got != tc.want {
			t.Fatalf("tier %q: expected threshold %.1f, got %.1f", tc.tier, tc.want, got)
		}
	}
}

// Compile-time check that the pgx-backed repository satisfies the reader.
var _ AssignableReader = (*repository.Repository)(nil)
