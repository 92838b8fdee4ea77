package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const (
	codeNotFound               = "not_found"
	codeAuthenticationRequired = "authentication_required"
	codePermissionDenied       = "permission_denied"
	codeInvalidRequest         = "invalid_request"
	codeInvalidID              = "invalid_id"
	codeInternalError          = "internal_error"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// -----------------------------
// Helper functions
// -----------------------------

func jsonError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps a service error onto a response.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEventNotFound):
		jsonError(c, http.StatusNotFound, codeNotFound, "event not found")
	case errors.Is(err, ErrAuthenticationRequired):
		jsonError(c, http.StatusUnauthorized, codeAuthenticationRequired, "authentication required: provide a valid bearer token")
	case errors.Is(err, ErrPermissionDenied):
		jsonError(c, http.StatusForbidden, codePermissionDenied, err.Error())
	case errors.Is(err, ErrInvalidInput):
		jsonError(c, http.StatusBadRequest, codeInvalidRequest, err.Error())
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("event request failed")
		jsonError(c, http.StatusInternalServerError, codeInternalError, "internal server error")
	}
}

// writeBindError reports a body that failed to decode or validate.
func writeBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonFieldName(fe.Field())] = "failed on the '" + fe.Tag() + "' rule"
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
			Error:  "invalid request body",
			Code:   codeInvalidRequest,
			Fields: fields,
		})
		return
	}
	jsonError(c, http.StatusBadRequest, codeInvalidRequest, "invalid request body: "+err.Error())
}

// jsonFieldName maps a Go field name to its JSON name for the event payloads.
func jsonFieldName(field string) string {
	switch field {
	case "Name", "Description", "Location", "Date", "Capacity", "Price":
		return strings.ToLower(field)
	default:
		return field
	}
}

func parseEventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		jsonError(c, http.StatusBadRequest, codeInvalidID, "invalid event id")
		return 0, false
	}
	return uint(id), true
}

func callerFromContext(c *gin.Context) Caller {
	if userID, ok := getUserIDFromContext(c); ok {
		return Authenticated(userID)
	}
	return Anonymous()
}

// -----------------------------
// Events
// -----------------------------

type EventHandler struct {
	service *EventService
}

func NewEventHandler(service *EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var body EventInput
	if err := c.ShouldBindJSON(&body); err != nil {
		writeBindError(c, err)
		return
	}

	ev, err := h.service.Create(c.Request.Context(), body, callerFromContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.service.List(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	ev, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	var patch EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeBindError(c, err)
		return
	}

	ev, err := h.service.Update(c.Request.Context(), id, patch, callerFromContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseEventID(c)
	if !ok {
		return
	}

	res, err := h.service.Delete(c.Request.Context(), id, callerFromContext(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// -----------------------------
// Health
// -----------------------------

func HealthHandler(store EventStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
