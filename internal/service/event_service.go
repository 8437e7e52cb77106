package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/repository"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrEventTimeOrder   = errors.New("event end time must be after start time")
	ErrEventEnded       = errors.New("event has already ended")
	ErrNoRSVP           = errors.New("user has no RSVP for this event")
	ErrNotAttending     = errors.New("only an Attending RSVP can be checked in")
	ErrAlreadyCheckedIn = errors.New("user is already checked in")
)

// EventService manages the operations calendar: events, RSVPs, check-ins
// and the iCalendar feed.
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error)
	Delete(ctx context.Context, id, callerID string) error

	RSVP(ctx context.Context, eventID, userID, status string) (*dto.AttendanceResponse, error)
	// CheckIn confirms attendance. Only a checked-in Attending RSVP
	// counts toward deployment totals.
	CheckIn(ctx context.Context, eventID, userID, callerID string) (*dto.AttendanceResponse, error)
	ListAttendance(ctx context.Context, eventID string) ([]dto.AttendanceResponse, error)

	// CalendarFeed renders upcoming events as an iCalendar document.
	CalendarFeed(ctx context.Context, orgName string) (string, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService creates the EventService.
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger, now: time.Now}
}

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest, callerID string) (*dto.EventResponse, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end_time: %w", err)
	}
	if !end.After(start) {
		return nil, ErrEventTimeOrder
	}

	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		EventType:   req.EventType,
		StartTime:   start,
		EndTime:     end,
		IsMandatory: req.IsMandatory,
	}
	event.CreatedBy = &callerID
	event.UpdatedBy = &callerID

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("event scheduled",
		zap.String("event_id", event.EventID),
		zap.String("type", event.EventType),
		zap.Time("start", event.StartTime),
	)
	return toEventResponse(event), nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return toEventResponse(event), nil
}

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	events, total, err := s.repo.Event.List(ctx, req.EventType, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, 0, err
	}
	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toEventResponse(&events[i]))
	}
	return result, total, nil
}

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest, callerID string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.EventType != nil {
		event.EventType = *req.EventType
	}
	if req.StartTime != nil {
		start, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid start_time: %w", err)
		}
		event.StartTime = start
	}
	if req.EndTime != nil {
		end, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid end_time: %w", err)
		}
		event.EndTime = end
	}
	if !event.EndTime.After(event.StartTime) {
		return nil, ErrEventTimeOrder
	}
	if req.IsMandatory != nil {
		event.IsMandatory = *req.IsMandatory
	}

	event.UpdatedBy = &callerID
	if err := s.repo.Event.Update(ctx, event); err != nil {
		s.logger.Error("update event failed", zap.String("event_id", id), zap.Error(err))
		return nil, err
	}
	return toEventResponse(event), nil
}

func (s *eventService) Delete(ctx context.Context, id, callerID string) error {
	if _, err := s.repo.Event.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return s.repo.Event.Delete(ctx, id, callerID)
}

func (s *eventService) RSVP(ctx context.Context, eventID, userID, status string) (*dto.AttendanceResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if event.EndTime.Before(s.now()) {
		return nil, ErrEventEnded
	}

	att, err := s.repo.Event.GetAttendance(ctx, eventID, userID)
	switch {
	case err == nil:
		// Changing an RSVP resets any check-in.
		att.Status = status
		att.CheckInTime = nil
		att.UpdatedBy = &userID
		if err := s.repo.Event.UpdateAttendance(ctx, att); err != nil {
			s.logger.Error("update rsvp failed", zap.Error(err))
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		att = &model.EventAttendance{
			EventID: eventID,
			UserID:  userID,
			Status:  status,
		}
		att.CreatedBy = &userID
		att.UpdatedBy = &userID
		if err := s.repo.Event.CreateAttendance(ctx, att); err != nil {
			s.logger.Error("create rsvp failed", zap.Error(err))
			return nil, err
		}
	default:
		return nil, err
	}

	return toAttendanceResponse(att), nil
}

func (s *eventService) CheckIn(ctx context.Context, eventID, userID, callerID string) (*dto.AttendanceResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	att, err := s.repo.Event.GetAttendance(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoRSVP
		}
		return nil, err
	}

	if att.Status != model.AttendanceAttending {
		return nil, ErrNotAttending
	}
	if att.CheckInTime != nil {
		return nil, ErrAlreadyCheckedIn
	}

	now := s.now()
	att.CheckInTime = &now
	att.UpdatedBy = &callerID
	if err := s.repo.Event.UpdateAttendance(ctx, att); err != nil {
		s.logger.Error("check-in failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("attendance confirmed",
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
	)
	return toAttendanceResponse(att), nil
}

func (s *eventService) ListAttendance(ctx context.Context, eventID string) ([]dto.AttendanceResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	atts, err := s.repo.Event.ListAttendance(ctx, eventID)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("event_id", eventID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.AttendanceResponse, 0, len(atts))
	for i := range atts {
		result = append(result, *toAttendanceResponse(&atts[i]))
	}
	return result, nil
}

func (s *eventService) CalendarFeed(ctx context.Context, orgName string) (string, error) {
	events, err := s.repo.Event.ListUpcoming(ctx, s.now())
	if err != nil {
		s.logger.Error("list upcoming events failed", zap.Error(err))
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//" + orgName + "//Operations Calendar//EN")
	cal.SetName(orgName + " Operations")

	for i := range events {
		e := &events[i]
		ve := cal.AddEvent(e.EventID)
		ve.SetSummary(e.Title)
		ve.SetDescription(e.Description)
		ve.SetStartAt(e.StartTime)
		ve.SetEndAt(e.EndTime)
		ve.SetDtStampTime(s.now())
		if e.IsMandatory {
			ve.SetProperty(ics.ComponentPropertyCategories, "MANDATORY")
		}
	}

	return cal.Serialize(), nil
}

func toEventResponse(event *model.Event) *dto.EventResponse {
	return &dto.EventResponse{
		ID:          event.EventID,
		Title:       event.Title,
		Description: event.Description,
		EventType:   event.EventType,
		StartTime:   event.StartTime.UTC().Format(time.RFC3339),
		EndTime:     event.EndTime.UTC().Format(time.RFC3339),
		IsMandatory: event.IsMandatory,
	}
}

func toAttendanceResponse(att *model.EventAttendance) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:      att.AttendanceID,
		EventID: att.EventID,
		UserID:  att.UserID,
		Status:  att.Status,
	}
	if att.User != nil {
		resp.Callsign = att.User.Callsign
	}
	if att.CheckInTime != nil {
		resp.CheckInTime = att.CheckInTime.UTC().Format(time.RFC3339)
	}
	return resp
}
