package model

import "time"

// Event types. Deployments are the only type counted by the
// deployments_count promotion requirement.
const (
	EventTypeDeployment = "deployment"
	EventTypeTraining   = "training"
	EventTypeOperation  = "operation"
	EventTypeSocial     = "social"
)

// Attendance statuses.
const (
	AttendanceAttending = "Attending"
	AttendanceDeclined  = "Declined"
	AttendanceExcused   = "Excused"
)

// Event is a scheduled community activity — maps to events.
type Event struct {
	EventID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	Title       string    `gorm:"type:varchar(200);not null"                     json:"title"`
	Description string    `gorm:"type:text"                                      json:"description"`
	EventType   string    `gorm:"type:varchar(20);not null;default:'operation'"  json:"event_type"`
	StartTime   time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime     time.Time `gorm:"not null"                                       json:"end_time"`
	IsMandatory bool      `gorm:"not null;default:false"                         json:"is_mandatory"`
	SoftDeleteModel
}

// TableName sets the table name.
func (Event) TableName() string { return "events" }

// EventAttendance is a user's RSVP and check-in record — maps to
// event_attendance. A non-null CheckInTime confirms attendance; an RSVP
// alone does not count toward deployment totals.
type EventAttendance struct {
	AttendanceID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	EventID      string     `gorm:"type:uuid;not null;index:idx_attendance_event_user,unique" json:"event_id"`
	UserID       string     `gorm:"type:uuid;not null;index:idx_attendance_event_user,unique" json:"user_id"`
	Status       string     `gorm:"type:varchar(20);not null;default:'Attending'"  json:"status"`
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	BaseModel

	Event *Event `gorm:"foreignKey:EventID;references:EventID" json:"event,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;references:UserID"   json:"user,omitempty"`
}

// TableName sets the table name.
func (EventAttendance) TableName() string { return "event_attendance" }
