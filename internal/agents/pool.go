// Package agents provides the agent bounded context: the assignment pool
// read model and agent account management.
package agents

import (
	"context"
	"sort"

	"salesdesk_backend/internal/agents/repository"
)

// Tier is the priority classification of a lead, driving the minimum
// performance rating an agent needs to receive it.
type Tier string

const (
	TierHigh   Tier = "High"
	TierMedium Tier = "Medium"
	TierLow    Tier = "Low"
)

// MinRating returns the performance rating threshold for this tier.
func (t Tier) MinRating() float64 {
	switch t {
	case TierHigh:
		return 4.5
	case TierMedium:
		return 3.5
	default:
		return 2.0
	}
}

// Agent re-exports the repository model for consumers of the pool.
type Agent = repository.Agent

// AssignableReader lists active, assignment-eligible agents.
type AssignableReader interface {
	ListAssignable(ctx context.Context) ([]Agent, error)
}

// Pool is a read model over eligible agents and their load and rating.
type Pool struct {
	reader AssignableReader
}

// NewPool creates an assignment pool backed by the given reader.
func NewPool(reader AssignableReader) *Pool {
	return &Pool{reader: reader}
}

// Eligible returns assignment candidates for the given tier, best first.
//
// Agents meeting the tier's rating threshold are preferred, ordered by
// performance rating descending with ties broken by current load ascending.
// When nobody meets the bar, the full active pool is returned ordered by
// load ascending then rating descending: availability wins over quality.
// The result is empty only when no active eligible-role agent exists.
func (p *Pool) Eligible(ctx context.Context, tier Tier) ([]Agent, error) {
	candidates, err := p.reader.ListAssignable(ctx)
	if err != nil {
		return nil, err
	}

	minRating := tier.MinRating()
	qualified := make([]Agent, 0, len(candidates))
	for _, a := range candidates {
		if a.PerformanceRating >= minRating {
			qualified = append(qualified, a)
		}
	}

	if len(qualified) > 0 {
		sort.SliceStable(qualified, func(i, j int) bool {
			if qualified[i].PerformanceRating != qualified[j].PerformanceRating {
				return qualified[i].PerformanceRating > qualified[j].PerformanceRating
			}
			return qualified[i].ActiveLeads < qualified[j].ActiveLeads
		})
		return qualified, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].ActiveLeads != candidates[j].ActiveLeads {
			return candidates[i].ActiveLeads < candidates[j].ActiveLeads
		}
		return candidates[i].PerformanceRating > candidates[j].PerformanceRating
	})
	return candidates, nil
}
