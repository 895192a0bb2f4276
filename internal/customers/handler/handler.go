package handler

import (
	"net/http"

	"salesdesk_backend/internal/customers/service"
	"salesdesk_backend/internal/customers/transport"
	"salesdesk_backend/platform/httpkit"
	"salesdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid id"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts customer routes on the given group.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.GET("/:id/notes", h.ListNotes)
	group.POST("/:id/notes", h.AddNote)
	group.GET("/:id/reminders", h.ListReminders)
	group.POST("/:id/reminders", h.AddReminder)
	group.POST("/:id/reminders/:reminderId/done", h.CompleteReminder)
}

// Convert handles POST /leads/:id/convert.
func (h *Handler) Convert(c *gin.Context) {
	leadID, ok := pathID(c, "id")
	if !ok {
		return
	}

	actor := httpkit.MustGetIdentity(c)
	if actor == nil {
		return
	}
	convertedBy := actor.UserID()

	result, err := h.svc.Convert(c.Request.Context(), leadID, &convertedBy)
	if httpkit.HandleError(c, err) {
		return
	}
	if result.Existing {
		httpkit.OK(c, result)
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

func (h *Handler) List(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, customers)
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, customer)
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	created, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, created)
}

func (h *Handler) ListNotes(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	notes, err := h.svc.ListNotes(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, notes)
}

func (h *Handler) AddNote(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	var authorID *uuid.UUID
	if identity := httpkit.GetIdentity(c); identity.IsAuthenticated() {
		uid := identity.UserID()
		authorID = &uid
	}

	note, err := h.svc.AddNote(c.Request.Context(), id, authorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, note)
}

func (h *Handler) ListReminders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	reminders, err := h.svc.ListReminders(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reminders)
}

func (h *Handler) AddReminder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req transport.AddReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	reminder, err := h.svc.AddReminder(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, reminder)
}

func (h *Handler) CompleteReminder(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reminderID, ok := pathID(c, "reminderId")
	if !ok {
		return
	}
	reminder, err := h.svc.CompleteReminder(c.Request.Context(), customerID, reminderID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, reminder)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}
