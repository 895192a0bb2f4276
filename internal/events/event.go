// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"salesdesk_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when a new lead is created, either through the
// authenticated API or the public intake webhook. Connected dashboards
// subscribe to this for live updates.
type LeadCreated struct {
	BaseEvent
	LeadID          uuid.UUID  `json:"leadId"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Source          string     `json:"source"`
	Priority        string     `json:"priority"`
	Rating          string     `json:"rating"`
	Score           int        `json:"score"`
	AssignedAgentID *uuid.UUID `json:"assignedAgentId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.created" }

// LeadStatusChanged is published when a lead moves through the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID    uuid.UUID `json:"leadId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
}

func (e LeadStatusChanged) EventName() string { return "leads.status.changed" }

// LeadAssigned is published when a lead is reassigned to another agent.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	PreviousAgent *uuid.UUID `json:"previousAgent,omitempty"`
	NewAgent      *uuid.UUID `json:"newAgent,omitempty"`
	AssignedByID  uuid.UUID  `json:"assignedById"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadConverted is published when a lead is converted into a customer.
type LeadConverted struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	CustomerID uuid.UUID `json:"customerId"`
}

func (e LeadConverted) EventName() string { return "leads.converted" }

// =============================================================================
// Reminder Domain Events
// =============================================================================

// ReminderDelivered is published after the scheduler attempted delivery of a
// due reminder. Delivered=false means the attempt failed and was logged.
type ReminderDelivered struct {
	BaseEvent
	CustomerID uuid.UUID `json:"customerId"`
	ReminderID uuid.UUID `json:"reminderId"`
	Recipient  string    `json:"recipient"`
	Delivered  bool      `json:"delivered"`
	RemindAt   time.Time `json:"remindAt"`
}

func (e ReminderDelivered) EventName() string { return "reminders.delivered" }
