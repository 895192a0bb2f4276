// Package service implements the lead lifecycle: intake with derived
// classification and auto-assignment, forward-only status transitions,
// reassignment, and deletion, all keeping agent load counters consistent.
package service

import (
	"context"
	"errors"
	"strings"

	"salesdesk_backend/internal/agents"
	agentrepo "salesdesk_backend/internal/agents/repository"
	"salesdesk_backend/internal/events"
	"salesdesk_backend/internal/leads/domain"
	"salesdesk_backend/internal/leads/repository"
	"salesdesk_backend/internal/leads/transport"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/phone"

	"github.com/google/uuid"
)

// AgentSelector picks an agent for a tier and claims a load slot; Release is
// the compensating decrement when the lead write fails afterwards.
type AgentSelector interface {
	Select(ctx context.Context, tier agents.Tier) (*agents.Agent, error)
	Release(ctx context.Context, id uuid.UUID) error
}

// LoadCounter adjusts an agent's active-lead counter for explicit assignment.
type LoadCounter interface {
	IncrementActiveLeads(ctx context.Context, id uuid.UUID) error
	DecrementActiveLeads(ctx context.Context, id uuid.UUID) error
}

// LeadStore is the persistence surface the lifecycle needs.
type LeadStore interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	List(ctx context.Context) ([]repository.Lead, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, to domain.Status) (repository.Lead, domain.Status, error)
	Delete(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	Reassign(ctx context.Context, id uuid.UUID, newAgent *uuid.UUID) (repository.Lead, *uuid.UUID, error)
}

type Service struct {
	repo     LeadStore
	selector AgentSelector
	counters LoadCounter
	bus      events.Bus
	log      *logger.Logger
}

func New(repo LeadStore, selector AgentSelector, counters LoadCounter, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, selector: selector, counters: counters, bus: bus, log: log}
}

// Create registers a new lead. Priority, rating, and score derive from the
// source. An explicitly supplied agent is honored (the counter still moves);
// otherwise the selector picks one, and no eligible agent simply leaves the
// lead unassigned.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, createdBy *uuid.UUID) (transport.LeadResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return transport.LeadResponse{}, apperr.Validation("lead name is required")
	}

	source := domain.Source(req.Source)
	if source == "" {
		source = domain.SourceManual
	}
	profile := domain.ProfileForSource(source)

	var assignedTo *uuid.UUID
	if req.AssignedTo != nil {
		if err := s.counters.IncrementActiveLeads(ctx, *req.AssignedTo); err != nil {
			if errors.Is(err, agentrepo.ErrNotFound) {
				return transport.LeadResponse{}, apperr.NotFound("assignee not found")
			}
			return transport.LeadResponse{}, err
		}
		assignedTo = req.AssignedTo
	} else {
		chosen, err := s.selector.Select(ctx, agents.Tier(profile.Priority))
		if err != nil {
			return transport.LeadResponse{}, err
		}
		if chosen != nil {
			assignedTo = &chosen.ID
		}
	}

	params := repository.CreateLeadParams{
		Name:       name,
		Company:    optional(req.Company),
		Source:     source,
		Priority:   profile.Priority,
		Rating:     profile.Rating,
		Score:      profile.Score,
		AssignedTo: assignedTo,
		CreatedBy:  createdBy,
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		params.Email = &email
	}
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		params.Phone = &normalized
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		// The load slot was claimed before the lead write; give it back.
		if assignedTo != nil {
			if rollbackErr := s.selector.Release(ctx, *assignedTo); rollbackErr != nil {
				s.log.DatabaseError("release assignment slot", rollbackErr)
			}
		}
		return transport.LeadResponse{}, err
	}

	agentID := ""
	if assignedTo != nil {
		agentID = assignedTo.String()
	}
	s.log.AssignmentEvent(lead.Name, string(profile.Priority), agentID, assignedTo != nil)

	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		Name:            lead.Name,
		Email:           valueOr(lead.Email),
		Source:          string(lead.Source),
		Priority:        string(lead.Priority),
		Rating:          string(lead.Rating),
		Score:           lead.Score,
		AssignedAgentID: lead.AssignedTo,
	})

	return toLeadResponse(lead), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, err
	}
	return toLeadResponse(lead), nil
}

func (s *Service) List(ctx context.Context) (transport.LeadsResponse, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return transport.LeadsResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toLeadResponse(lead))
	}
	return transport.LeadsResponse{Items: items}, nil
}

// UpdateStatus moves a lead through the pipeline. Backward moves and moves
// out of a terminal state are rejected without changing the lead.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	to := domain.Status(req.Status)
	if !to.Valid() {
		return transport.LeadResponse{}, apperr.Validation("unknown status")
	}

	lead, oldStatus, err := s.repo.TransitionStatus(ctx, id, to)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrInvalidTransition):
			return transport.LeadResponse{}, apperr.Validation("invalid status transition")
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		OldStatus: string(oldStatus),
		NewStatus: string(lead.Status),
	})

	return toLeadResponse(lead), nil
}

// Delete removes a lead. An assigned, still-active lead frees its agent's
// load slot; deleting a terminal lead changes no counter.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found")
	}
	return err
}

// Reassign moves a lead to another agent, adjusting both load counters as
// one unit.
func (s *Service) Reassign(ctx context.Context, id uuid.UUID, req transport.ReassignLeadRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	lead, previous, err := s.repo.Reassign(ctx, id, req.AssignedTo)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrAgentNotFound):
			return transport.LeadResponse{}, apperr.NotFound("agent not found")
		}
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		PreviousAgent: previous,
		NewAgent:      lead.AssignedTo,
		AssignedByID:  actorID,
	})

	return toLeadResponse(lead), nil
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:         lead.ID,
		Name:       lead.Name,
		Email:      valueOr(lead.Email),
		Phone:      valueOr(lead.Phone),
		Company:    valueOr(lead.Company),
		Source:     string(lead.Source),
		Status:     string(lead.Status),
		Priority:   string(lead.Priority),
		Rating:     string(lead.Rating),
		Score:      lead.Score,
		AssignedTo: lead.AssignedTo,
		CreatedBy:  lead.CreatedBy,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func valueOr(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
