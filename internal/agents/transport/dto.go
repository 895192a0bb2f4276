package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateAgentRequest struct {
	Name              string  `json:"name" binding:"required" validate:"required,min=1,max=200"`
	Email             string  `json:"email" binding:"required" validate:"required,email"`
	Password          string  `json:"password" binding:"required" validate:"required,min=8,max=128"`
	Role              string  `json:"role" validate:"omitempty,oneof=sales trainee manager admin"`
	PerformanceRating float64 `json:"performanceRating" validate:"gte=0,lte=5"`
}

type AgentResponse struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	PerformanceRating float64   `json:"performanceRating"`
	ActiveLeads       int       `json:"activeLeads"`
	CreatedAt         time.Time `json:"createdAt"`
}

type AgentsResponse struct {
	Items []AgentResponse `json:"items"`
}
