// Package service implements customer management: idempotent lead
// conversion, manual registration, notes, and follow-up reminders.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"salesdesk_backend/internal/customers/repository"
	"salesdesk_backend/internal/customers/transport"
	"salesdesk_backend/internal/events"
	"salesdesk_backend/platform/apperr"
	"salesdesk_backend/platform/phone"

	"github.com/google/uuid"
)

// Store is the persistence surface the customer service needs.
type Store interface {
	Create(ctx context.Context, params repository.CreateCustomerParams) (repository.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Customer, error)
	List(ctx context.Context) ([]repository.Customer, error)
	ConvertLead(ctx context.Context, leadID uuid.UUID, convertedBy *uuid.UUID) (repository.Customer, bool, error)
	AddNote(ctx context.Context, customerID uuid.UUID, authorID *uuid.UUID, body string) (repository.Note, error)
	ListNotes(ctx context.Context, customerID uuid.UUID) ([]repository.Note, error)
	AddReminder(ctx context.Context, customerID uuid.UUID, message string, remindAt time.Time) (repository.Reminder, error)
	ListReminders(ctx context.Context, customerID uuid.UUID) ([]repository.Reminder, error)
	MarkReminderDone(ctx context.Context, customerID, id uuid.UUID) (repository.Reminder, error)
}

type Service struct {
	store Store
	bus   events.Bus
}

func New(store Store, bus events.Bus) *Service {
	return &Service{store: store, bus: bus}
}

// Convert turns a lead into a customer. Converting the same lead again
// returns the existing customer instead of failing, so retried requests are
// safe. The conversion event is only published for a fresh conversion.
func (s *Service) Convert(ctx context.Context, leadID uuid.UUID, convertedBy *uuid.UUID) (transport.ConversionResponse, error) {
	customer, existed, err := s.store.ConvertLead(ctx, leadID, convertedBy)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLeadNotFound):
			return transport.ConversionResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrInvalidTransition):
			return transport.ConversionResponse{}, apperr.Validation("lost leads cannot be converted")
		}
		return transport.ConversionResponse{}, err
	}

	if !existed {
		s.bus.Publish(ctx, events.LeadConverted{
			BaseEvent:  events.NewBaseEvent(),
			LeadID:     leadID,
			CustomerID: customer.ID,
		})
	}

	return transport.ConversionResponse{
		Customer: toCustomerResponse(customer),
		Existing: existed,
	}, nil
}

// Create registers a customer directly, without an originating lead.
func (s *Service) Create(ctx context.Context, req transport.CreateCustomerRequest) (transport.CustomerResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return transport.CustomerResponse{}, apperr.Validation("customer name is required")
	}

	params := repository.CreateCustomerParams{
		Name:       name,
		Company:    optional(req.Company),
		Source:     optional(req.Source),
		AssignedTo: req.AssignedTo,
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		params.Email = &email
	}
	if req.Phone != "" {
		normalized := phone.NormalizeE164(req.Phone)
		params.Phone = &normalized
	}

	customer, err := s.store.Create(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return transport.CustomerResponse{}, apperr.Conflict("a customer with this email already exists")
		}
		return transport.CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.CustomerResponse, error) {
	customer, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.CustomerResponse{}, apperr.NotFound("customer not found")
		}
		return transport.CustomerResponse{}, err
	}
	return toCustomerResponse(customer), nil
}

func (s *Service) List(ctx context.Context) (transport.CustomersResponse, error) {
	customers, err := s.store.List(ctx)
	if err != nil {
		return transport.CustomersResponse{}, err
	}

	items := make([]transport.CustomerResponse, 0, len(customers))
	for _, c := range customers {
		items = append(items, toCustomerResponse(c))
	}
	return transport.CustomersResponse{Items: items}, nil
}

// AddNote appends a note to the customer's timeline.
func (s *Service) AddNote(ctx context.Context, customerID uuid.UUID, authorID *uuid.UUID, req transport.AddNoteRequest) (transport.NoteResponse, error) {
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return transport.NoteResponse{}, apperr.Validation("note body is required")
	}

	note, err := s.store.AddNote(ctx, customerID, authorID, body)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.NoteResponse{}, apperr.NotFound("customer not found")
		}
		return transport.NoteResponse{}, err
	}
	return toNoteResponse(note), nil
}

func (s *Service) ListNotes(ctx context.Context, customerID uuid.UUID) (transport.NotesResponse, error) {
	notes, err := s.store.ListNotes(ctx, customerID)
	if err != nil {
		return transport.NotesResponse{}, err
	}

	items := make([]transport.NoteResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, toNoteResponse(n))
	}
	return transport.NotesResponse{Items: items}, nil
}

// AddReminder schedules a follow-up reminder. Past times are accepted; the
// reminder is simply due on the next sweep.
func (s *Service) AddReminder(ctx context.Context, customerID uuid.UUID, req transport.AddReminderRequest) (transport.ReminderResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return transport.ReminderResponse{}, apperr.Validation("reminder message is required")
	}
	if req.RemindAt.IsZero() {
		return transport.ReminderResponse{}, apperr.Validation("remindAt is required")
	}

	reminder, err := s.store.AddReminder(ctx, customerID, message, req.RemindAt)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ReminderResponse{}, apperr.NotFound("customer not found")
		}
		return transport.ReminderResponse{}, err
	}
	return toReminderResponse(reminder), nil
}

func (s *Service) ListReminders(ctx context.Context, customerID uuid.UUID) (transport.RemindersResponse, error) {
	reminders, err := s.store.ListReminders(ctx, customerID)
	if err != nil {
		return transport.RemindersResponse{}, err
	}

	items := make([]transport.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		items = append(items, toReminderResponse(r))
	}
	return transport.RemindersResponse{Items: items}, nil
}

// CompleteReminder marks a reminder done without waiting for the sweep.
func (s *Service) CompleteReminder(ctx context.Context, customerID, id uuid.UUID) (transport.ReminderResponse, error) {
	reminder, err := s.store.MarkReminderDone(ctx, customerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ReminderResponse{}, apperr.NotFound("reminder not found")
		}
		return transport.ReminderResponse{}, err
	}
	return toReminderResponse(reminder), nil
}

func toCustomerResponse(c repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Email:       valueOr(c.Email),
		Phone:       valueOr(c.Phone),
		Company:     valueOr(c.Company),
		Source:      valueOr(c.Source),
		CreatedFrom: c.CreatedFrom,
		AssignedTo:  c.AssignedTo,
		ConvertedBy: c.ConvertedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toNoteResponse(n repository.Note) transport.NoteResponse {
	return transport.NoteResponse{
		ID:         n.ID,
		CustomerID: n.CustomerID,
		AuthorID:   n.AuthorID,
		Body:       n.Body,
		CreatedAt:  n.CreatedAt,
	}
}

func toReminderResponse(r repository.Reminder) transport.ReminderResponse {
	return transport.ReminderResponse{
		ID:         r.ID,
		CustomerID: r.CustomerID,
		Message:    r.Message,
		RemindAt:   r.RemindAt,
		Reminded:   r.Reminded,
		CreatedAt:  r.CreatedAt,
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
