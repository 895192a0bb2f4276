package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	Name       string     `json:"name" binding:"required" validate:"required,min=1,max=200"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone" validate:"omitempty,max=32"`
	Company    string     `json:"company" validate:"omitempty,max=200"`
	Source     string     `json:"source" validate:"omitempty,max=50"`
	AssignedTo *uuid.UUID `json:"assignedTo"`
}

type AddNoteRequest struct {
	Body string `json:"body" binding:"required" validate:"required,min=1,max=5000"`
}

type AddReminderRequest struct {
	Message  string    `json:"message" binding:"required" validate:"required,min=1,max=2000"`
	RemindAt time.Time `json:"remindAt" binding:"required" validate:"required"`
}

type CustomerResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Company     string     `json:"company,omitempty"`
	Source      string     `json:"source,omitempty"`
	CreatedFrom *uuid.UUID `json:"createdFrom,omitempty"`
	AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
	ConvertedBy *uuid.UUID `json:"convertedBy,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type CustomersResponse struct {
	Items []CustomerResponse `json:"items"`
}

// ConversionResponse reports the conversion outcome. Existing is true when
// the lead had already been converted and the prior customer was returned.
type ConversionResponse struct {
	Customer CustomerResponse `json:"customer"`
	Existing bool             `json:"existing"`
}

type NoteResponse struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customerId"`
	AuthorID   *uuid.UUID `json:"authorId,omitempty"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type NotesResponse struct {
	Items []NoteResponse `json:"items"`
}

type ReminderResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customerId"`
	Message    string    `json:"message"`
	RemindAt   time.Time `json:"remindAt"`
	Reminded   bool      `json:"reminded"`
	CreatedAt  time.Time `json:"createdAt"`
}

type RemindersResponse struct {
	Items []ReminderResponse `json:"items"`
}
