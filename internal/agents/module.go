package agents

import (
	apphttp "salesdesk_backend/internal/http"

	"salesdesk_backend/internal/agents/handler"
	"salesdesk_backend/internal/agents/repository"
	"salesdesk_backend/internal/agents/service"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the agents bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	pool    *Pool
	svc     *service.Service
}

// NewModule creates and initializes the agents module with all its dependencies.
func NewModule(dbpool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(dbpool)
	svc := service.New(repo)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
		pool:    NewPool(repo),
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "agents"
}

// Repository returns the agent repository for cross-module wiring.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// Pool returns the assignment pool read model.
func (m *Module) Pool() *Pool {
	return m.pool
}

// RegisterRoutes mounts agent routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/agents")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
