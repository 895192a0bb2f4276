// Package service provides agent account management.
package service

import (
	"context"
	"errors"
	"strings"

	"salesdesk_backend/internal/agents/password"
	"salesdesk_backend/internal/agents/repository"
	"salesdesk_backend/internal/agents/transport"
	"salesdesk_backend/platform/apperr"
)

const defaultRole = "sales"

type Service struct {
	repo *repository.Repository
}

func New(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create provisions a new agent account. The password is hashed here, in the
// service layer, so the repository never handles plaintext credentials.
func (s *Service) Create(ctx context.Context, req transport.CreateAgentRequest) (transport.AgentResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return transport.AgentResponse{}, apperr.Validation("name is required")
	}

	role := req.Role
	if role == "" {
		role = defaultRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.AgentResponse{}, err
	}

	agent, err := s.repo.Create(ctx, repository.CreateAgentParams{
		Name:              name,
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:      hash,
		Role:              role,
		PerformanceRating: req.PerformanceRating,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.AgentResponse{}, apperr.Conflict(err.Error())
		}
		return transport.AgentResponse{}, err
	}

	return toAgentResponse(agent), nil
}

func (s *Service) List(ctx context.Context) (transport.AgentsResponse, error) {
	agents, err := s.repo.List(ctx)
	if err != nil {
		return transport.AgentsResponse{}, err
	}

	items := make([]transport.AgentResponse, 0, len(agents))
	for _, agent := range agents {
		items = append(items, toAgentResponse(agent))
	}
	return transport.AgentsResponse{Items: items}, nil
}

func toAgentResponse(agent repository.Agent) transport.AgentResponse {
	return transport.AgentResponse{
		ID:                agent.ID,
		Name:              agent.Name,
		Email:             agent.Email,
		Role:              agent.Role,
		Status:            agent.Status,
		PerformanceRating: agent.PerformanceRating,
		ActiveLeads:       agent.ActiveLeads,
		CreatedAt:         agent.CreatedAt,
	}
}
