// Package webhook exposes the public, unauthenticated lead intake endpoint
// used by external form providers. Payloads are accepted permissively:
// a missing name becomes "Unknown" and a missing source defaults to Website,
// so a partial submission still enters the pipeline.
package webhook

import (
	"context"
	"net/http"
	"strings"

	apphttp "salesdesk_backend/internal/http"
	"salesdesk_backend/internal/leads/domain"
	"salesdesk_backend/internal/leads/transport"
	"salesdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const fallbackName = "Unknown"

// LeadCreator is the slice of the lead service the webhook needs.
type LeadCreator interface {
	Create(ctx context.Context, req transport.CreateLeadRequest, createdBy *uuid.UUID) (transport.LeadResponse, error)
}

// IntakeRequest is the loose payload external providers post. Every field is
// optional; unknown sources fall back to the default classification.
type IntakeRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Source  string `json:"source"`
}

// Module is the webhook intake module implementing http.Module.
type Module struct {
	leads LeadCreator
}

func NewModule(leads LeadCreator) *Module {
	return &Module{leads: leads}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "webhook"
}

// RegisterRoutes mounts the intake endpoint outside the authenticated API,
// behind the stricter webhook rate limiter.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Engine.Group("/api/webhooks", ctx.WebhookRateLimiter.RateLimit())
	group.POST("/leads", m.Intake)
}

func (m *Module) Intake(c *gin.Context) {
	var req IntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	created, err := m.leads.Create(c.Request.Context(), Normalize(req), nil)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

// Normalize maps a loose intake payload onto a lead creation request,
// applying the webhook defaults.
func Normalize(req IntakeRequest) transport.CreateLeadRequest {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = fallbackName
	}

	source := domain.Source(strings.TrimSpace(req.Source))
	if !source.Valid() {
		source = domain.SourceWebsite
	}

	return transport.CreateLeadRequest{
		Name:    name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Source:  string(source),
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
