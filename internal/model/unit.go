package model

import "time"

// Position role categories.
const (
	RoleCategoryCommand    = "command"
	RoleCategoryNCO        = "nco"
	RoleCategorySpecialist = "specialist"
	RoleCategoryMember     = "member"
)

// Unit is a node in the ORBAT tree — maps to units.
type Unit struct {
	UnitID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"unit_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Callsign     string  `gorm:"type:varchar(50)"                               json:"callsign"`
	UnitType     string  `gorm:"type:varchar(50);not null"                      json:"unit_type"` // fleet | squadron | platoon | squad | detachment
	Branch       string  `gorm:"type:varchar(50);not null"                      json:"branch"`
	ParentUnitID *string `gorm:"type:uuid"                                      json:"parent_unit_id,omitempty"`
	SoftDeleteModel

	ParentUnit *Unit `gorm:"foreignKey:ParentUnitID;references:UnitID" json:"parent_unit,omitempty"`
}

// TableName sets the table name.
func (Unit) TableName() string { return "units" }

// Position is a billet within a unit — maps to positions.
// IsCommand/IsNCO flag leadership billets for the leadership_time
// promotion requirement.
type Position struct {
	PositionID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"position_id"`
	UnitID       string `gorm:"type:uuid;not null;index"                       json:"unit_id"`
	Title        string `gorm:"type:varchar(100);not null"                     json:"title"`
	RoleCategory string `gorm:"type:varchar(20);not null;default:'member'"     json:"role_category"`
	IsCommand    bool   `gorm:"not null;default:false"                         json:"is_command"`
	IsNCO        bool   `gorm:"column:is_nco;not null;default:false"           json:"is_nco"`
	MOSCode      string `gorm:"column:mos_code;type:varchar(20)"               json:"mos_code"`
	BaseModel

	Unit *Unit `gorm:"foreignKey:UnitID;references:UnitID" json:"unit,omitempty"`
}

// TableName sets the table name.
func (Position) TableName() string { return "positions" }

// UserPosition is one assignment span of a user to a position — maps to
// user_positions. A null EndDate means the assignment is current.
type UserPosition struct {
	UserPositionID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_position_id"`
	UserID         string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	PositionID     string     `gorm:"type:uuid;not null;index"                       json:"position_id"`
	StartDate      time.Time  `gorm:"not null"                                       json:"start_date"`
	EndDate        *time.Time `json:"end_date,omitempty"`
	BaseModel

	User     *User     `gorm:"foreignKey:UserID;references:UserID"             json:"user,omitempty"`
	Position *Position `gorm:"foreignKey:PositionID;references:PositionID"     json:"position,omitempty"`
}

// TableName sets the table name.
func (UserPosition) TableName() string { return "user_positions" }
