package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateLeadRequest struct {
	Name       string     `json:"name" binding:"required" validate:"required,min=1,max=200"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone" validate:"omitempty,max=32"`
	Company    string     `json:"company" validate:"omitempty,max=200"`
	Source     string     `json:"source" validate:"omitempty,oneof=Website Referral 'Social Media' 'Email Campaign' Advertisement Manual"`
	AssignedTo *uuid.UUID `json:"assignedTo"`
}

type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required" validate:"required,oneof=New Contacted Qualified Converted Lost"`
}

type ReassignLeadRequest struct {
	AssignedTo *uuid.UUID `json:"assignedTo"`
}

type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Company    string     `json:"company,omitempty"`
	Source     string     `json:"source"`
	Status     string     `json:"status"`
	Priority   string     `json:"priority"`
	Rating     string     `json:"rating"`
	Score      int        `json:"score"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
	CreatedBy  *uuid.UUID `json:"createdBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type LeadsResponse struct {
	Items []LeadResponse `json:"items"`
}
