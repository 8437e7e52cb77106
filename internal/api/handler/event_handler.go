package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/service"
	"vanguard-hq/backend/pkg/response"
)

// EventHandler serves the operations calendar endpoints.
type EventHandler struct {
	eventSvc service.EventService
	orgName  string
}

// NewEventHandler creates the EventHandler.
func NewEventHandler(eventSvc service.EventService, orgName string) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, orgName: orgName}
}

// CreateEvent schedules an event.
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrEventTimeOrder) {
			response.BadRequest(c, 15002, "end time must be after start time")
			return
		}
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	response.Created(c, event)
}

// GetEvent returns one event.
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 15001, "event not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, event)
}

// ListEvents lists events with optional type filter.
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	events, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, events, total, req.GetPage(), req.GetPageSize())
}

// UpdateEvent edits an event.
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	callerID, _ := currentUserID(c)

	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 15001, "event not found")
		case errors.Is(err, service.ErrEventTimeOrder):
			response.BadRequest(c, 15002, "end time must be after start time")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, event)
}

// DeleteEvent cancels an event.
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	callerID, _ := currentUserID(c)

	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 15001, "event not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// RSVP records the caller's attendance intent.
// POST /api/v1/events/:id/rsvp
func (h *EventHandler) RSVP(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Unauthorized(c, 10002, "not authenticated")
		return
	}

	var req dto.RSVPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "validation failed")
		return
	}

	att, err := h.eventSvc.RSVP(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 15001, "event not found")
		case errors.Is(err, service.ErrEventEnded):
			response.BadRequest(c, 15003, "event has already ended")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, att)
}

// CheckIn confirms a member's attendance at an event.
// POST /api/v1/events/:id/check-in/:user_id
func (h *EventHandler) CheckIn(c *gin.Context) {
	callerID, _ := currentUserID(c)

	att, err := h.eventSvc.CheckIn(c.Request.Context(), c.Param("id"), c.Param("user_id"), callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.NotFound(c, 15001, "event not found")
		case errors.Is(err, service.ErrNoRSVP):
			response.BadRequest(c, 15004, "user has no RSVP for this event")
		case errors.Is(err, service.ErrNotAttending):
			response.BadRequest(c, 15005, "only an Attending RSVP can be checked in")
		case errors.Is(err, service.ErrAlreadyCheckedIn):
			response.BadRequest(c, 15006, "user is already checked in")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, att)
}

// ListAttendance lists an event's RSVP records.
// GET /api/v1/events/:id/attendance
func (h *EventHandler) ListAttendance(c *gin.Context) {
	atts, err := h.eventSvc.ListAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.NotFound(c, 15001, "event not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, atts)
}

// CalendarFeed serves upcoming events as an iCalendar document.
// GET /api/v1/events/calendar.ics
func (h *EventHandler) CalendarFeed(c *gin.Context) {
	feed, err := h.eventSvc.CalendarFeed(c.Request.Context(), h.orgName)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="calendar.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}
