package model

import "time"

// User statuses.
const (
	UserStatusApplicant  = "applicant"
	UserStatusActive     = "active"
	UserStatusDischarged = "discharged"
)

// User roles.
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
	RoleMember  = "member"
)

// User is a community member — maps to users.
type User struct {
	UserID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Callsign           string     `gorm:"type:varchar(50);not null;uniqueIndex"          json:"callsign"`
	Email              string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash       string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string     `gorm:"type:varchar(20);not null;default:'member'"     json:"role"`
	Status             string     `gorm:"type:varchar(20);not null;default:'applicant'"  json:"status"`
	Branch             string     `gorm:"type:varchar(50);not null"                      json:"branch"`
	JoinDate           *time.Time `gorm:"type:date"                                      json:"join_date,omitempty"` // set when an application is approved
	CurrentRankID      *string    `gorm:"type:uuid"                                      json:"current_rank_id,omitempty"`
	UnitID             *string    `gorm:"type:uuid"                                      json:"unit_id,omitempty"`
	UnitAssignmentDate *time.Time `gorm:"type:date"                                      json:"unit_assignment_date,omitempty"`
	SoftDeleteModel

	CurrentRank *Rank `gorm:"foreignKey:CurrentRankID;references:RankID" json:"current_rank,omitempty"`
	Unit        *Unit `gorm:"foreignKey:UnitID;references:UnitID"        json:"unit,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
