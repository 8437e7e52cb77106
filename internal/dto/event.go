package dto

// CreateEventRequest schedules an event. Times are RFC 3339.
type CreateEventRequest struct {
	Title       string `json:"title"        binding:"required,max=200"`
	Description string `json:"description"`
	EventType   string `json:"event_type"   binding:"required,oneof=deployment training operation social"`
	StartTime   string `json:"start_time"   binding:"required"`
	EndTime     string `json:"end_time"     binding:"required"`
	IsMandatory bool   `json:"is_mandatory"`
}

// UpdateEventRequest edits an event. Nil means unchanged.
type UpdateEventRequest struct {
	Title       *string `json:"title"        binding:"omitempty,max=200"`
	Description *string `json:"description"`
	EventType   *string `json:"event_type"   binding:"omitempty,oneof=deployment training operation social"`
	StartTime   *string `json:"start_time"`
	EndTime     *string `json:"end_time"`
	IsMandatory *bool   `json:"is_mandatory"`
}

// EventListRequest filters the event list.
type EventListRequest struct {
	PaginationRequest
	EventType string `form:"event_type" binding:"omitempty,oneof=deployment training operation social"`
}

// RSVPRequest records the caller's attendance intent.
type RSVPRequest struct {
	Status string `json:"status" binding:"required,oneof=Attending Declined Excused"`
}

// EventResponse is the public view of an event.
type EventResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EventType   string `json:"event_type"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsMandatory bool   `json:"is_mandatory"`
}

// AttendanceResponse is one RSVP/check-in record.
type AttendanceResponse struct {
	ID          string `json:"id"`
	EventID     string `json:"event_id"`
	UserID      string `json:"user_id"`
	Callsign    string `json:"callsign,omitempty"`
	Status      string `json:"status"`
	CheckInTime string `json:"check_in_time,omitempty"`
}
