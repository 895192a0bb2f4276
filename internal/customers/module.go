// Package customers wires the customer bounded context: lead conversion,
// manual registration, notes, and follow-up reminders.
package customers

import (
	apphttp "salesdesk_backend/internal/http"

	"salesdesk_backend/internal/customers/handler"
	"salesdesk_backend/internal/customers/repository"
	"salesdesk_backend/internal/customers/service"
	"salesdesk_backend/internal/events"
	"salesdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the customers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	repo    *repository.Repository
	svc     *service.Service
}

// NewModule creates and initializes the customers module.
func NewModule(dbpool *pgxpool.Pool, bus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(dbpool)
	svc := service.New(repo, bus)

	return &Module{
		handler: handler.New(svc, val),
		repo:    repo,
		svc:     svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "customers"
}

// Repository returns the customer repository for cross-module wiring
// (the reminder sweep).
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts customer routes and the lead conversion endpoint.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/customers")
	m.handler.RegisterRoutes(group)

	// Conversion lives on the lead resource but belongs to this context.
	ctx.Protected.POST("/leads/:id/convert", m.handler.Convert)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
