package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"vanguard-hq/backend/internal/model"
)

// EventRepository is the event/attendance data-access interface.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, eventType string, offset, limit int) ([]model.Event, int64, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id, callerID string) error

	GetAttendance(ctx context.Context, eventID, userID string) (*model.EventAttendance, error)
	CreateAttendance(ctx context.Context, att *model.EventAttendance) error
	UpdateAttendance(ctx context.Context, att *model.EventAttendance) error
	ListAttendance(ctx context.Context, eventID string) ([]model.EventAttendance, error)
	// CountConfirmedDeployments counts attendance rows for
	// deployment-type events where the user RSVP'd Attending and was
	// checked in.
	CountConfirmedDeployments(ctx context.Context, userID string) (int64, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates the GORM-backed EventRepository.
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).Where("event_id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) List(ctx context.Context, eventType string, offset, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Event{})
	if eventType != "" {
		db = db.Where("event_type = ?", eventType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("start_time DESC").
		Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (r *eventRepo) ListUpcoming(ctx context.Context, from time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("start_time >= ?", from).
		Order("start_time ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepo) Delete(ctx context.Context, id, callerID string) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).
		Where("event_id = ?", id).
		Update("deleted_by", callerID).
		Delete(&model.Event{}, "event_id = ?", id).Error
}

func (r *eventRepo) GetAttendance(ctx context.Context, eventID, userID string) (*model.EventAttendance, error) {
	var att model.EventAttendance
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&att).Error
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (r *eventRepo) CreateAttendance(ctx context.Context, att *model.EventAttendance) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *eventRepo) UpdateAttendance(ctx context.Context, att *model.EventAttendance) error {
	return r.db.WithContext(ctx).Save(att).Error
}

func (r *eventRepo) ListAttendance(ctx context.Context, eventID string) ([]model.EventAttendance, error) {
	var atts []model.EventAttendance
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Find(&atts).Error
	if err != nil {
		return nil, err
	}
	return atts, nil
}

func (r *eventRepo) CountConfirmedDeployments(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EventAttendance{}).
		Joins("JOIN events ON events.event_id = event_attendance.event_id").
		Where("event_attendance.user_id = ?", userID).
		Where("event_attendance.status = ?", model.AttendanceAttending).
		Where("event_attendance.check_in_time IS NOT NULL").
		Where("events.event_type = ?", model.EventTypeDeployment).
		Count(&count).Error
	return count, err
}
