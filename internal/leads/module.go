// Package leads wires the lead bounded context: intake, classification,
// auto-assignment, and lifecycle management.
package leads

import (
	apphttp "salesdesk_backend/internal/http"

	"salesdesk_backend/internal/agents"
	"salesdesk_backend/internal/assignment"
	"salesdesk_backend/internal/events"
	"salesdesk_backend/internal/leads/handler"
	"salesdesk_backend/internal/leads/repository"
	"salesdesk_backend/internal/leads/service"
	"salesdesk_backend/platform/logger"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	svc     *service.Service
}

// NewModule creates and initializes the leads module. The agents module
// supplies the assignment pool and the load counter store.
func NewModule(dbpool *pgxpool.Pool, agentsModule *agents.Module, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(dbpool)
	selector := assignment.NewSelector(agentsModule.Pool(), agentsModule.Repository())
	svc := service.New(repo, selector, agentsModule.Repository(), bus, log)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the lead service for cross-module wiring (webhook intake).
func (m *Module) Service() *service.Service {
	return m.svc
}

// Repository returns the lead repository for cross-module wiring (conversion).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
